package provision

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/llamasearchai/llamaspace/internal/timescale"
)

var _ = Describe("TimescaleDB provisioning", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		cfg    *timescale.Config
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
		cfg = &timescale.Config{
			Logger:   testLogger,
			Host:     timescaleHost,
			Port:     timescalePort,
			User:     timescaleUser,
			Password: timescalePassword,
			DBName:   timescaleDB,
			SSLMode:  "disable",
		}
	})

	AfterEach(func() {
		cancel()
	})

	openDB := func() *gorm.DB {
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		return db
	}

	It("should create the tables, hypertables and indexes on an empty store", func() {
		init, err := timescale.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(init.Initialize(ctx)).To(Succeed())

		db := openDB()

		var tables int64
		err = db.WithContext(ctx).Raw(
			`SELECT count(*) FROM information_schema.tables
			 WHERE table_schema = 'public'
			 AND table_name IN ('satellite_telemetry', 'satellite_orbits', 'satellite_maneuvers')`,
		).Scan(&tables).Error
		Expect(err).NotTo(HaveOccurred())
		Expect(tables).To(Equal(int64(3)))

		var hypertables int64
		err = db.WithContext(ctx).Raw(
			`SELECT count(*) FROM timescaledb_information.hypertables
			 WHERE hypertable_name IN ('satellite_telemetry', 'satellite_orbits')`,
		).Scan(&hypertables).Error
		Expect(err).NotTo(HaveOccurred())
		Expect(hypertables).To(Equal(int64(2)))

		var indexes int64
		err = db.WithContext(ctx).Raw(
			`SELECT count(*) FROM pg_indexes
			 WHERE indexname LIKE 'idx_satellite_%'`,
		).Scan(&indexes).Error
		Expect(err).NotTo(HaveOccurred())
		Expect(indexes).To(BeNumerically(">=", 6))
	})

	It("should run cleanly against an already-initialized store", func() {
		init, err := timescale.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(init.Initialize(ctx)).To(Succeed())
		Expect(init.Initialize(ctx)).To(Succeed())
	})

	It("should accept telemetry rows into the hypertable", func() {
		init, err := timescale.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(init.Initialize(ctx)).To(Succeed())

		db := openDB()
		err = db.WithContext(ctx).Exec(
			`INSERT INTO satellite_telemetry (time, satellite_id, subsystem, parameter, value, status)
			 VALUES (NOW(), 'SAT-0001', 'power', 'battery_voltage', 27.9, 'nominal')`,
		).Error
		Expect(err).NotTo(HaveOccurred())

		var rows int64
		err = db.WithContext(ctx).Raw(
			`SELECT count(*) FROM satellite_telemetry WHERE satellite_id = 'SAT-0001'`,
		).Scan(&rows).Error
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeNumerically(">=", 1))
	})
})

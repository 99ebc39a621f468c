package timescale_test

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llamasearchai/llamaspace/internal/timescale"
)

var _ = Describe("Timescale", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	})

	Describe("NewInitializer", func() {
		var cfg *timescale.Config

		BeforeEach(func() {
			cfg = &timescale.Config{
				Logger:   logger,
				Host:     "localhost",
				Port:     5432,
				User:     "llamaspace",
				Password: "llamaspace",
				DBName:   "llamaspace",
				SSLMode:  "disable",
			}
		})

		It("should create an initializer with valid configuration", func() {
			init, err := timescale.NewInitializer(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(init).NotTo(BeNil())
		})

		It("should reject a nil config", func() {
			_, err := timescale.NewInitializer(nil)
			Expect(err).To(MatchError("timescale config cannot be nil"))
		})

		It("should reject a missing logger", func() {
			cfg.Logger = nil
			_, err := timescale.NewInitializer(cfg)
			Expect(err).To(MatchError("logger cannot be nil"))
		})

		It("should reject an empty host", func() {
			cfg.Host = ""
			_, err := timescale.NewInitializer(cfg)
			Expect(err).To(MatchError("host cannot be empty"))
		})

		It("should reject a non-positive port", func() {
			cfg.Port = 0
			_, err := timescale.NewInitializer(cfg)
			Expect(err).To(MatchError("port must be positive"))
		})

		It("should default the SSL mode to disable", func() {
			cfg.SSLMode = ""
			_, err := timescale.NewInitializer(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.SSLMode).To(Equal("disable"))
		})
	})

	Describe("Config.DSN", func() {
		It("should build a postgres connection string", func() {
			cfg := &timescale.Config{
				Host:     "db.internal",
				Port:     5433,
				User:     "svc",
				Password: "secret",
				DBName:   "telemetry",
				SSLMode:  "require",
			}
			Expect(cfg.DSN()).To(Equal(
				"host=db.internal port=5433 user=svc password=secret dbname=telemetry sslmode=require",
			))
		})
	})

	Describe("IsAlreadyHypertable", func() {
		It("should match the TimescaleDB SQLSTATE", func() {
			err := &pgconn.PgError{Code: "TS110", Message: "table \"satellite_telemetry\" is already a hypertable"}
			Expect(timescale.IsAlreadyHypertable(err)).To(BeTrue())
		})

		It("should match a wrapped driver error", func() {
			pgErr := &pgconn.PgError{Code: "TS110"}
			wrapped := fmt.Errorf("failed to convert: %w", pgErr)
			Expect(timescale.IsAlreadyHypertable(wrapped)).To(BeTrue())
		})

		It("should fall back to message inspection for plain errors", func() {
			err := errors.New("ERROR: table \"satellite_orbits\" is already a hypertable")
			Expect(timescale.IsAlreadyHypertable(err)).To(BeTrue())
		})

		It("should not match unrelated driver errors", func() {
			err := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
			Expect(timescale.IsAlreadyHypertable(err)).To(BeFalse())
		})

		It("should not match nil", func() {
			Expect(timescale.IsAlreadyHypertable(nil)).To(BeFalse())
		})
	})

	Describe("schema", func() {
		It("should create three tables", func() {
			Expect(timescale.Tables()).To(Equal([]string{
				"satellite_telemetry", "satellite_orbits", "satellite_maneuvers",
			}))
		})

		It("should convert only the append-only tables to hypertables", func() {
			Expect(timescale.Hypertables()).To(Equal([]string{
				"satellite_telemetry", "satellite_orbits",
			}))
			Expect(timescale.Hypertables()).NotTo(ContainElement("satellite_maneuvers"))
		})
	})
})

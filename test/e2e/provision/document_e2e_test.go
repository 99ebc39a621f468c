package provision

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/llamasearchai/llamaspace/internal/document"
	"github.com/llamasearchai/llamaspace/internal/samples"
)

var _ = Describe("MongoDB provisioning", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		cfg    *document.Config
		client *mongo.Client
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)

		dataDir := GinkgoT().TempDir()
		gen := samples.NewGenerator(7)
		Expect(gen.WriteSampleFiles(filepath.Join(dataDir, "samples"), 3, 2)).To(Succeed())

		cfg = &document.Config{
			Logger:  testLogger,
			Host:    mongoHost,
			Port:    mongoPort,
			DBName:  mongoDB,
			DataDir: dataDir,
		}

		var err error
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI()))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(client.Database(mongoDB).Drop(ctx)).To(Succeed())
		Expect(client.Disconnect(ctx)).To(Succeed())
		cancel()
	})

	It("should create validated collections and seed them once", func() {
		init, err := document.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(init.Initialize(ctx)).To(Succeed())

		db := client.Database(mongoDB)

		names, err := db.ListCollectionNames(ctx, bson.D{})
		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(ConsistOf("satellites", "ground_stations", "users", "mission_plans"))

		satellites, err := db.Collection("satellites").CountDocuments(ctx, bson.D{})
		Expect(err).NotTo(HaveOccurred())
		Expect(satellites).To(Equal(int64(3)))

		stations, err := db.Collection("ground_stations").CountDocuments(ctx, bson.D{})
		Expect(err).NotTo(HaveOccurred())
		Expect(stations).To(Equal(int64(2)))

		users, err := db.Collection("users").CountDocuments(ctx, bson.D{})
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(Equal(int64(1)))

		var admin bson.M
		err = db.Collection("users").FindOne(ctx, bson.M{"username": "admin"}).Decode(&admin)
		Expect(err).NotTo(HaveOccurred())
		Expect(admin["role"]).To(Equal("admin"))

		// A second run must tolerate the existing collections and
		// leave the seeded documents alone.
		Expect(init.Initialize(ctx)).To(Succeed())

		satellites, err = db.Collection("satellites").CountDocuments(ctx, bson.D{})
		Expect(err).NotTo(HaveOccurred())
		Expect(satellites).To(Equal(int64(3)))

		users, err = db.Collection("users").CountDocuments(ctx, bson.D{})
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(Equal(int64(1)))
	})

	It("should enforce the unique satellite_id index", func() {
		init, err := document.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(init.Initialize(ctx)).To(Succeed())

		coll := client.Database(mongoDB).Collection("satellites")
		doc := bson.M{
			"satellite_id": "SAT-9999",
			"name":         "Duplicate Probe",
			"type":         "science",
			"status":       "operational",
		}

		_, err = coll.InsertOne(ctx, doc)
		Expect(err).NotTo(HaveOccurred())

		_, err = coll.InsertOne(ctx, doc)
		Expect(err).To(HaveOccurred())
		Expect(mongo.IsDuplicateKeyError(err)).To(BeTrue())
	})

	It("should reject documents that fail schema validation", func() {
		init, err := document.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(init.Initialize(ctx)).To(Succeed())

		// Missing the required status field.
		_, err = client.Database(mongoDB).Collection("satellites").InsertOne(ctx, bson.M{
			"satellite_id": "SAT-8888",
			"name":         "Invalid Probe",
			"type":         "science",
		})
		Expect(err).To(HaveOccurred())
	})
})

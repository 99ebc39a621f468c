package provision

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/llamasearchai/llamaspace/internal/kvstore"
)

var _ = Describe("Redis provisioning", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		cfg    *kvstore.Config
		rdb    *redis.Client
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), time.Minute)
		cfg = &kvstore.Config{
			Logger: testLogger,
			Host:   redisHost,
			Port:   redisPort,
		}
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Addr()})
	})

	AfterEach(func() {
		Expect(rdb.Close()).To(Succeed())
		cancel()
	})

	It("should store the key prefix mapping and app metadata", func() {
		init, err := kvstore.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(init.Initialize(ctx)).To(Succeed())

		prefixes, err := rdb.HGetAll(ctx, kvstore.KeyPrefixesKey).Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(prefixes).To(HaveLen(6))
		Expect(prefixes).To(HaveKeyWithValue("cache", "llamaspace:cache:"))
		Expect(prefixes).To(HaveKeyWithValue("pub_sub", "llamaspace:pubsub:"))

		app, err := rdb.HGetAll(ctx, kvstore.AppConfigKey).Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(app).To(HaveKeyWithValue("version", kvstore.Version))
		Expect(app).To(HaveKeyWithValue("environment", "development"))

		initialized, err := strconv.ParseInt(app["initialized_at"], 10, 64)
		Expect(err).NotTo(HaveOccurred())
		Expect(initialized).To(BeNumerically("~", time.Now().Unix(), 120))
	})

	It("should publish an init message on every channel", func() {
		channel := "llamaspace:pubsub:" + kvstore.Channels()[0]
		sub := rdb.Subscribe(ctx, channel)
		defer sub.Close()

		// Wait for the subscription to be confirmed before publishing.
		_, err := sub.Receive(ctx)
		Expect(err).NotTo(HaveOccurred())

		init, err := kvstore.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(init.Initialize(ctx)).To(Succeed())

		msg, err := sub.ReceiveMessage(ctx)
		Expect(err).NotTo(HaveOccurred())

		var payload kvstore.InitMessage
		Expect(json.Unmarshal([]byte(msg.Payload), &payload)).To(Succeed())
		Expect(payload.Type).To(Equal("system"))
		Expect(payload.Message).To(ContainSubstring("initialized"))
	})

	It("should run cleanly against an already-initialized store", func() {
		init, err := kvstore.NewInitializer(cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(init.Initialize(ctx)).To(Succeed())
		Expect(init.Initialize(ctx)).To(Succeed())

		prefixes, err := rdb.HGetAll(ctx, kvstore.KeyPrefixesKey).Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(prefixes).To(HaveLen(6))
	})
})

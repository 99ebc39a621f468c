// Package kvstore initializes the Redis store: the key-prefix namespace
// table, one bootstrap message per pub/sub channel, and app metadata.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis hash keys written by the initializer.
const (
	// KeyPrefixesKey holds the logical purpose to key prefix mapping.
	KeyPrefixesKey = "llamaspace:config:key_prefixes"
	// AppConfigKey holds basic application metadata.
	AppConfigKey = "llamaspace:config:app"
)

// Version is the application version recorded in the app metadata hash.
const Version = "1.0.0"

// KeyPrefixes returns the static mapping of logical purpose to key prefix.
func KeyPrefixes() map[string]string {
	return map[string]string{
		"cache":      "llamaspace:cache:",
		"session":    "llamaspace:session:",
		"queue":      "llamaspace:queue:",
		"lock":       "llamaspace:lock:",
		"rate_limit": "llamaspace:rate_limit:",
		"pub_sub":    "llamaspace:pubsub:",
	}
}

// Channels returns the fixed set of pub/sub channel names.
func Channels() []string {
	return []string{
		"telemetry_stream",
		"command_stream",
		"alert_stream",
		"status_updates",
		"user_notifications",
	}
}

// InitMessage is the JSON payload published to each channel at bootstrap.
type InitMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Config holds the Redis connection parameters. Password may be empty for
// unauthenticated instances.
type Config struct {
	Logger      *slog.Logger
	Host        string
	Password    string
	Environment string
	Port        int
}

// Addr returns the host:port address for the configuration.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Initializer applies the idempotent Redis bootstrap sequence.
type Initializer struct {
	logger *slog.Logger
	cfg    *Config
}

// NewInitializer creates an Initializer from the given configuration.
func NewInitializer(cfg *Config) (*Initializer, error) {
	if cfg == nil {
		return nil, errors.New("kvstore config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Host == "" {
		return nil, errors.New("host cannot be empty")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("port must be positive")
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	return &Initializer{logger: cfg.Logger, cfg: cfg}, nil
}

// Initialize verifies connectivity with a PING and then writes the prefix
// table, publishes one init message per channel, and stores app metadata.
// Hash writes overwrite the same fields on every run, so the sequence is
// safe to repeat.
func (i *Initializer) Initialize(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     i.cfg.Addr(),
		Password: i.cfg.Password,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			i.logger.Warn("failed to close redis connection", "error", err)
		}
	}()

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	if pong != "PONG" {
		return fmt.Errorf("unexpected PING response: %q", pong)
	}

	return i.Apply(ctx, rdb)
}

// Apply writes the bootstrap state on an open client: the prefix table,
// one init message per channel, and the app metadata hash.
func (i *Initializer) Apply(ctx context.Context, rdb *redis.Client) error {
	prefixes := KeyPrefixes()
	if err := rdb.HSet(ctx, KeyPrefixesKey, prefixes).Err(); err != nil {
		return fmt.Errorf("failed to store key prefixes: %w", err)
	}

	for _, channel := range Channels() {
		payload, err := json.Marshal(InitMessage{
			Type:      "system",
			Message:   fmt.Sprintf("Channel %s initialized", channel),
			Timestamp: time.Now().Unix(),
		})
		if err != nil {
			return fmt.Errorf("failed to encode init message: %w", err)
		}
		if err := rdb.Publish(ctx, prefixes["pub_sub"]+channel, payload).Err(); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", channel, err)
		}
	}

	err := rdb.HSet(ctx, AppConfigKey, map[string]string{
		"version":        Version,
		"environment":    i.cfg.Environment,
		"initialized_at": strconv.FormatInt(time.Now().Unix(), 10),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store app metadata: %w", err)
	}

	i.logger.Info("redis initialized",
		"prefixes", len(prefixes),
		"channels", len(Channels()),
		"environment", i.cfg.Environment,
	)
	return nil
}

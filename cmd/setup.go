package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/llamasearchai/llamaspace/internal/document"
	"github.com/llamasearchai/llamaspace/internal/kvstore"
	"github.com/llamasearchai/llamaspace/internal/setup"
	"github.com/llamasearchai/llamaspace/internal/timescale"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the llamaspace datastores",
	Long: `Provision the llamaspace datastores:
- Starts Docker containers for TimescaleDB, MongoDB and Redis
- Creates tables, hypertables and indexes in TimescaleDB
- Creates validated collections, unique indexes and seed data in MongoDB
- Registers key prefixes, pub/sub channels and app metadata in Redis

Every operation is idempotent; re-running against initialized stores is safe.`,
	SilenceUsage: true,
	RunE:         runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	// TimescaleDB flags
	setupCmd.Flags().String("pg-host", "localhost", "TimescaleDB host")
	setupCmd.Flags().Int("pg-port", 5432, "TimescaleDB port")
	setupCmd.Flags().String("pg-user", "llamaspace", "TimescaleDB user")
	setupCmd.Flags().String("pg-password", "llamaspace", "TimescaleDB password")
	setupCmd.Flags().String("pg-db", "llamaspace", "TimescaleDB database name")
	setupCmd.Flags().String("pg-sslmode", "disable", "TimescaleDB SSL mode")

	// MongoDB flags
	setupCmd.Flags().String("mongo-host", "localhost", "MongoDB host")
	setupCmd.Flags().Int("mongo-port", 27017, "MongoDB port")
	setupCmd.Flags().String("mongo-user", "llamaspace", "MongoDB user")
	setupCmd.Flags().String("mongo-password", "llamaspace", "MongoDB password")
	setupCmd.Flags().String("mongo-db", "llamaspace", "MongoDB database name")

	// Redis flags
	setupCmd.Flags().String("redis-host", "localhost", "Redis host")
	setupCmd.Flags().Int("redis-port", 6379, "Redis port")
	setupCmd.Flags().String("redis-password", "", "Redis password (empty for no auth)")

	// Pipeline flags
	setupCmd.Flags().String("environment", "development", "environment tag recorded in app metadata")
	setupCmd.Flags().Bool("skip-docker", false, "skip container orchestration, assume datastores are running")
	setupCmd.Flags().Duration("readiness-wait", 5*time.Second, "pause after starting containers")

	// Bind flags to viper
	_ = viper.BindPFlag("postgres.host", setupCmd.Flags().Lookup("pg-host"))
	_ = viper.BindPFlag("postgres.port", setupCmd.Flags().Lookup("pg-port"))
	_ = viper.BindPFlag("postgres.user", setupCmd.Flags().Lookup("pg-user"))
	_ = viper.BindPFlag("postgres.password", setupCmd.Flags().Lookup("pg-password"))
	_ = viper.BindPFlag("postgres.db", setupCmd.Flags().Lookup("pg-db"))
	_ = viper.BindPFlag("postgres.sslmode", setupCmd.Flags().Lookup("pg-sslmode"))
	_ = viper.BindPFlag("mongo.host", setupCmd.Flags().Lookup("mongo-host"))
	_ = viper.BindPFlag("mongo.port", setupCmd.Flags().Lookup("mongo-port"))
	_ = viper.BindPFlag("mongo.user", setupCmd.Flags().Lookup("mongo-user"))
	_ = viper.BindPFlag("mongo.password", setupCmd.Flags().Lookup("mongo-password"))
	_ = viper.BindPFlag("mongo.db", setupCmd.Flags().Lookup("mongo-db"))
	_ = viper.BindPFlag("redis.host", setupCmd.Flags().Lookup("redis-host"))
	_ = viper.BindPFlag("redis.port", setupCmd.Flags().Lookup("redis-port"))
	_ = viper.BindPFlag("redis.password", setupCmd.Flags().Lookup("redis-password"))
	_ = viper.BindPFlag("environment", setupCmd.Flags().Lookup("environment"))
	_ = viper.BindPFlag("skip_docker", setupCmd.Flags().Lookup("skip-docker"))
	_ = viper.BindPFlag("readiness_wait", setupCmd.Flags().Lookup("readiness-wait"))
}

func runSetup(_ *cobra.Command, _ []string) error {
	logger := GetLogger()
	logger.Info("starting llamaspace datastore setup")

	cfg := &setup.Config{
		Logger:        logger,
		DataDir:       viper.GetString("data_dir"),
		SkipEngine:    viper.GetBool("skip_docker"),
		ReadinessWait: viper.GetDuration("readiness_wait"),
		Timescale: timescale.Config{
			Host:     viper.GetString("postgres.host"),
			Port:     viper.GetInt("postgres.port"),
			User:     viper.GetString("postgres.user"),
			Password: viper.GetString("postgres.password"),
			DBName:   viper.GetString("postgres.db"),
			SSLMode:  viper.GetString("postgres.sslmode"),
		},
		Document: document.Config{
			Host:     viper.GetString("mongo.host"),
			Port:     viper.GetInt("mongo.port"),
			User:     viper.GetString("mongo.user"),
			Password: viper.GetString("mongo.password"),
			DBName:   viper.GetString("mongo.db"),
		},
		KV: kvstore.Config{
			Host:        viper.GetString("redis.host"),
			Port:        viper.GetInt("redis.port"),
			Password:    viper.GetString("redis.password"),
			Environment: viper.GetString("environment"),
		},
	}

	runner, err := setup.NewRunner(cfg)
	if err != nil {
		logger.Error("failed to create setup runner", "error", err)
		return err
	}

	report := runner.Run(context.Background())
	report.Log(logger)

	if report.ExitCode() != 0 {
		return fmt.Errorf("setup incomplete: %d of %d stores failed",
			report.Failed(), len(report.Results))
	}
	return nil
}

package setup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/llamasearchai/llamaspace/internal/document"
	"github.com/llamasearchai/llamaspace/internal/engine"
	"github.com/llamasearchai/llamaspace/internal/kvstore"
	"github.com/llamasearchai/llamaspace/internal/timescale"
)

// Container names, images and volumes for the three datastores.
const (
	DefaultNetwork = "llamaspace-network"

	timescaleContainer = "llamaspace-timescaledb"
	timescaleImage     = "timescale/timescaledb:latest-pg14"
	timescaleVolume    = "llamaspace-timescaledb-data:/var/lib/postgresql/data"

	mongoContainer = "llamaspace-mongodb"
	mongoImage     = "mongo:7"
	mongoVolume    = "llamaspace-mongodb-data:/data/db"

	redisContainer = "llamaspace-redis"
	redisImage     = "redis:7"
	redisVolume    = "llamaspace-redis-data:/data"
)

// Config aggregates the per-store configurations for one provisioning run.
type Config struct {
	Logger *slog.Logger

	// DataDir is the root of the local data directory tree; sample seed
	// files are read from DataDir/samples.
	DataDir string

	// Network is the Docker bridge network joining the containers.
	Network string

	// ReadinessWait is the pause after starting containers.
	ReadinessWait time.Duration

	// SkipEngine disables container orchestration entirely; the stores
	// are assumed to be reachable already.
	SkipEngine bool

	Timescale timescale.Config
	Document  document.Config
	KV        kvstore.Config
}

// ContainerSpecs maps the store configurations onto the desired container
// set handed to the engine orchestrator.
func ContainerSpecs(cfg *Config) []engine.ContainerSpec {
	specs := []engine.ContainerSpec{
		{
			Name:  timescaleContainer,
			Image: timescaleImage,
			Env: []string{
				"POSTGRES_USER=" + cfg.Timescale.User,
				"POSTGRES_PASSWORD=" + cfg.Timescale.Password,
				"POSTGRES_DB=" + cfg.Timescale.DBName,
			},
			Ports:   []string{fmt.Sprintf("%d:5432", cfg.Timescale.Port)},
			Volumes: []string{timescaleVolume},
		},
		{
			Name:  mongoContainer,
			Image: mongoImage,
			Env: []string{
				"MONGO_INITDB_ROOT_USERNAME=" + cfg.Document.User,
				"MONGO_INITDB_ROOT_PASSWORD=" + cfg.Document.Password,
			},
			Ports:   []string{fmt.Sprintf("%d:27017", cfg.Document.Port)},
			Volumes: []string{mongoVolume},
		},
	}

	redisSpec := engine.ContainerSpec{
		Name:    redisContainer,
		Image:   redisImage,
		Ports:   []string{fmt.Sprintf("%d:6379", cfg.KV.Port)},
		Volumes: []string{redisVolume},
	}
	if cfg.KV.Password != "" {
		redisSpec.Env = []string{"REDIS_PASSWORD=" + cfg.KV.Password}
		redisSpec.Cmd = []string{"--requirepass", cfg.KV.Password}
	}

	return append(specs, redisSpec)
}

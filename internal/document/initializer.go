// Package document initializes the MongoDB store: schema-validated
// collections, unique indexes, and seed documents for empty collections.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB server error codes tolerated as idempotency conflicts.
const (
	codeNamespaceExists       = 48
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// Config holds the MongoDB connection parameters.
type Config struct {
	Logger   *slog.Logger
	Host     string
	User     string
	Password string
	DBName   string
	// DataDir is the directory whose samples/ subdirectory holds optional
	// YAML seed files.
	DataDir string
	Port    int
}

// URI builds the MongoDB connection string. Credentials are included only
// when both user and password are set, with admin as the auth source.
func (c *Config) URI() string {
	if c.User != "" && c.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d/%s?authSource=admin",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	}
	return fmt.Sprintf("mongodb://%s:%d/%s", c.Host, c.Port, c.DBName)
}

// Initializer applies the idempotent MongoDB setup sequence.
type Initializer struct {
	logger *slog.Logger
	cfg    *Config
}

// NewInitializer creates an Initializer from the given configuration.
func NewInitializer(cfg *Config) (*Initializer, error) {
	if cfg == nil {
		return nil, errors.New("document config cannot be nil")
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
	if cfg.DBName == "" {
		return nil, errors.New("database name cannot be empty")
	}
	return &Initializer{logger: cfg.Logger, cfg: cfg}, nil
}

// Initialize connects to MongoDB, creates the validated collections and
// their indexes, and seeds empty collections. Existing collections and
// indexes are tolerated; any other failure is returned.
func (i *Initializer) Initialize(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(i.cfg.URI()))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			i.logger.Warn("failed to disconnect from mongodb", "error", err)
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(i.cfg.DBName)
	return i.Apply(ctx, db)
}

// Apply creates the validated collections, their indexes and seed data on
// an open database handle.
func (i *Initializer) Apply(ctx context.Context, db *mongo.Database) error {
	for _, coll := range Collections() {
		if err := i.createCollection(ctx, db, coll); err != nil {
			return err
		}
	}

	i.logger.Info("mongodb collections and indexes created")
	return i.seed(ctx, db)
}

func (i *Initializer) createCollection(ctx context.Context, db *mongo.Database, coll Collection) error {
	opts := options.CreateCollection().SetValidator(coll.Validator)
	err := db.CreateCollection(ctx, coll.Name, opts)
	switch {
	case err == nil:
		i.logger.Info("created collection", "collection", coll.Name)
	case hasServerErrorCode(err, codeNamespaceExists):
		i.logger.Debug("collection already exists", "collection", coll.Name)
	default:
		return fmt.Errorf("failed to create collection %s: %w", coll.Name, err)
	}

	if len(coll.Indexes) == 0 {
		return nil
	}
	_, err = db.Collection(coll.Name).Indexes().CreateMany(ctx, coll.Indexes)
	switch {
	case err == nil:
	case hasServerErrorCode(err, codeIndexOptionsConflict, codeIndexKeySpecsConflict):
		i.logger.Debug("indexes already exist", "collection", coll.Name)
	default:
		return fmt.Errorf("failed to create indexes on %s: %w", coll.Name, err)
	}
	return nil
}

// hasServerErrorCode reports whether err carries one of the given MongoDB
// server error codes.
func hasServerErrorCode(err error, codes ...int) bool {
	var srvErr mongo.ServerError
	if !errors.As(err, &srvErr) {
		return false
	}
	for _, code := range codes {
		if srvErr.HasErrorCode(code) {
			return true
		}
	}
	return false
}

package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"
)

// seed loads sample documents into empty collections. Satellites and
// ground stations come from optional YAML files under <DataDir>/samples;
// an admin user is created when the users collection is empty. Collections
// that already hold documents are never re-seeded.
func (i *Initializer) seed(ctx context.Context, db *mongo.Database) error {
	samplesDir := filepath.Join(i.cfg.DataDir, "samples")

	if err := i.seedFromFile(ctx, db.Collection("satellites"),
		filepath.Join(samplesDir, "satellites.yaml")); err != nil {
		return err
	}
	if err := i.seedFromFile(ctx, db.Collection("ground_stations"),
		filepath.Join(samplesDir, "ground_stations.yaml")); err != nil {
		return err
	}
	return i.seedAdminUser(ctx, db.Collection("users"))
}

// seedFromFile inserts the documents from a YAML sample file when the
// collection is empty and the file exists. A missing file is not an error.
func (i *Initializer) seedFromFile(ctx context.Context, coll *mongo.Collection, path string) error {
	count, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to count documents in %s: %w", coll.Name(), err)
	}
	if count > 0 {
		i.logger.Debug("collection already seeded", "collection", coll.Name(), "documents", count)
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		i.logger.Debug("no sample file", "collection", coll.Name(), "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read sample file %s: %w", path, err)
	}

	var docs []map[string]any
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to parse sample file %s: %w", path, err)
	}
	if len(docs) == 0 {
		return nil
	}

	inserts := make([]any, len(docs))
	for n, doc := range docs {
		inserts[n] = doc
	}
	if _, err := coll.InsertMany(ctx, inserts); err != nil {
		return fmt.Errorf("failed to seed %s: %w", coll.Name(), err)
	}

	i.logger.Info("sample data loaded", "collection", coll.Name(), "documents", len(inserts))
	return nil
}

// seedAdminUser creates the default admin account when no users exist.
func (i *Initializer) seedAdminUser(ctx context.Context, users *mongo.Collection) error {
	count, err := users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = users.InsertOne(ctx, bson.M{
		"username":    "admin",
		"email":       "admin@llamaspace.io",
		"first_name":  "Admin",
		"last_name":   "User",
		"role":        "admin",
		"permissions": bson.A{"*"},
		"created_at":  time.Now().UTC(),
		"settings": bson.M{
			"theme":                 "dark",
			"notifications_enabled": true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create default admin user: %w", err)
	}

	i.logger.Info("default admin user created")
	return nil
}

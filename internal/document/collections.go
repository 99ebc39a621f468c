package document

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection describes one schema-validated collection: its name, the
// $jsonSchema validator enforced on inserts and updates, and the indexes
// created on it.
type Collection struct {
	Name      string
	Validator bson.M
	Indexes   []mongo.IndexModel
}

// Collections returns the four collections the initializer creates, in
// application order.
func Collections() []Collection {
	return []Collection{
		{
			Name: "satellites",
			Validator: jsonSchema(bson.M{
				"bsonType": "object",
				"required": bson.A{"satellite_id", "name", "type", "status"},
				"properties": bson.M{
					"satellite_id": bson.M{"bsonType": "string"},
					"name":         bson.M{"bsonType": "string"},
					"type":         bson.M{"bsonType": "string"},
					"status":       bson.M{"bsonType": "string"},
					"launch_date":  bson.M{"bsonType": "date"},
					"mission":      bson.M{"bsonType": "string"},
					"owner":        bson.M{"bsonType": "string"},
					"tle": bson.M{
						"bsonType": "object",
						"properties": bson.M{
							"line1": bson.M{"bsonType": "string"},
							"line2": bson.M{"bsonType": "string"},
							"epoch": bson.M{"bsonType": "date"},
						},
					},
					"subsystems": bson.M{"bsonType": "array"},
					"metadata":   bson.M{"bsonType": "object"},
				},
			}),
			Indexes: []mongo.IndexModel{
				uniqueIndex("satellite_id"),
			},
		},
		{
			Name: "ground_stations",
			Validator: jsonSchema(bson.M{
				"bsonType": "object",
				"required": bson.A{"station_id", "name", "location"},
				"properties": bson.M{
					"station_id": bson.M{"bsonType": "string"},
					"name":       bson.M{"bsonType": "string"},
					"location": bson.M{
						"bsonType": "object",
						"required": bson.A{"latitude", "longitude"},
						"properties": bson.M{
							"latitude":  bson.M{"bsonType": "double"},
							"longitude": bson.M{"bsonType": "double"},
							"altitude":  bson.M{"bsonType": "double"},
						},
					},
					"capabilities": bson.M{"bsonType": "array"},
					"status":       bson.M{"bsonType": "string"},
					"metadata":     bson.M{"bsonType": "object"},
				},
			}),
			Indexes: []mongo.IndexModel{
				uniqueIndex("station_id"),
			},
		},
		{
			Name: "users",
			Validator: jsonSchema(bson.M{
				"bsonType": "object",
				"required": bson.A{"username", "email", "role"},
				"properties": bson.M{
					"username":    bson.M{"bsonType": "string"},
					"email":       bson.M{"bsonType": "string"},
					"first_name":  bson.M{"bsonType": "string"},
					"last_name":   bson.M{"bsonType": "string"},
					"role":        bson.M{"bsonType": "string"},
					"permissions": bson.M{"bsonType": "array"},
					"created_at":  bson.M{"bsonType": "date"},
					"last_login":  bson.M{"bsonType": "date"},
					"settings":    bson.M{"bsonType": "object"},
				},
			}),
			Indexes: []mongo.IndexModel{
				uniqueIndex("username"),
				uniqueIndex("email"),
			},
		},
		{
			Name: "mission_plans",
			Validator: jsonSchema(bson.M{
				"bsonType": "object",
				"required": bson.A{"plan_id", "name", "satellite_id", "status"},
				"properties": bson.M{
					"plan_id":      bson.M{"bsonType": "string"},
					"name":         bson.M{"bsonType": "string"},
					"satellite_id": bson.M{"bsonType": "string"},
					"created_by":   bson.M{"bsonType": "string"},
					"created_at":   bson.M{"bsonType": "date"},
					"status":       bson.M{"bsonType": "string"},
					"start_time":   bson.M{"bsonType": "date"},
					"end_time":     bson.M{"bsonType": "date"},
					"activities":   bson.M{"bsonType": "array"},
					"metadata":     bson.M{"bsonType": "object"},
				},
			}),
			Indexes: []mongo.IndexModel{
				uniqueIndex("plan_id"),
				{Keys: bson.D{{Key: "satellite_id", Value: 1}}},
			},
		},
	}
}

func jsonSchema(schema bson.M) bson.M {
	return bson.M{"$jsonSchema": schema}
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

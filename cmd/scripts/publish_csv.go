package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kleinfit/klein-data-pipeline/pkg/mongodb"
)

// Processed CSV file name -> warehouse collection name.
var publishTargets = map[string]string{
	"auth_data.csv":           "auth_data",
	"subscriptions.csv":       "subscriptions",
	"user_profiles.csv":       "user_profiles",
	"my_gym.csv":              "my_gym",
	"data_cleaning_audit.csv": "audit_log",
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "kleinfit"
	}

	processedDir := "data/processed"
	if len(os.Args) > 1 {
		processedDir = os.Args[1]
	}

	ctx := context.Background()

	client, err := mongodb.NewClient(ctx, mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)

	for name, collection := range publishTargets {
		path := filepath.Join(processedDir, name)
		count, err := publishFile(ctx, db, path, collection)
		if err != nil {
			log.Fatalf("Failed to publish %s: %v", name, err)
		}
		log.Printf("Published %d rows from %s to %s", count, name, collection)
	}

	log.Println("All processed tables published successfully")
}

// publishFile replaces the contents of a collection with the rows of one
// processed CSV file, keyed by the file's header row.
func publishFile(ctx context.Context, db *mongo.Database, path, collection string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse CSV file: %v", err)
	}
	if len(records) < 1 {
		return 0, fmt.Errorf("CSV file has no header row")
	}

	header := records[0]
	docs := make([]interface{}, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(header) {
			return 0, fmt.Errorf("record %d has %d fields, expected %d", i+1, len(record), len(header))
		}
		doc := bson.M{}
		for j, column := range header {
			doc[column] = record[j]
		}
		docs = append(docs, doc)
	}

	coll := db.Collection(collection)
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("failed to clear collection: %v", err)
	}
	if len(docs) > 0 {
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return 0, fmt.Errorf("failed to insert rows: %v", err)
		}
	}
	return len(docs), nil
}

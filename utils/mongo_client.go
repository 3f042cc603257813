package utils

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the process-wide MongoDB client
var MongoClient *mongo.Client

// InitMongoClient connects the MongoDB client from the environment. Change
// streams require the target deployment to be a replica set.
func InitMongoClient() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MongoDB URI is not set")
	}

	clientOptions := options.Client().
		ApplyURI(mongoURI).
		SetMaxPoolSize(GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100)).
		SetMinPoolSize(GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10)).
		SetMaxConnIdleTime(time.Duration(GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second)

	client, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}

	MongoClient = client
}

// PingMongo reports whether the MongoDB deployment is reachable.
func PingMongo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return MongoClient.Ping(ctx, nil)
}

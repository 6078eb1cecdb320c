package storage

import (
	"fmt"
	"log"

	"github.com/johnwmail/clipshare/config"
)

// NewStore creates a storage backend based on the configuration. An empty
// cfg.Backend auto-detects: mongo URL, then redis address, then DynamoDB
// table, then S3 bucket, falling back to the filesystem.
func NewStore(cfg *config.Config) (KVStore, error) {
	backend := cfg.Backend
	if backend == "" {
		switch {
		case cfg.MongoURL != "":
			backend = "mongodb"
		case cfg.RedisAddr != "":
			backend = "redis"
		case cfg.DynamoTable != "":
			backend = "dynamodb"
		case cfg.S3Bucket != "":
			backend = "s3"
		default:
			backend = "filesystem"
		}
	}

	switch backend {
	case "filesystem":
		log.Printf("Using filesystem storage in %s", cfg.DataDir)
		return NewFilesystemStore(cfg.DataDir)
	case "redis":
		log.Printf("Using Redis storage at %s", cfg.RedisAddr)
		return NewRedisStore(cfg.RedisAddr)
	case "mongodb":
		log.Printf("Using MongoDB storage (database %s)", cfg.MongoDB)
		return NewMongoStore(cfg.MongoURL, cfg.MongoDB)
	case "dynamodb":
		log.Printf("Using DynamoDB storage (table %s)", cfg.DynamoTable)
		return NewDynamoStore(cfg.DynamoTable)
	case "s3":
		log.Printf("Using S3 storage (bucket %s)", cfg.S3Bucket)
		return NewS3Store(cfg.S3Bucket, cfg.S3Prefix)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: filesystem, redis, mongodb, dynamodb, s3)", backend)
	}
}

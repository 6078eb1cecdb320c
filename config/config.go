package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the clipshare service
type Config struct {
	Port        int           `json:"port"`
	URL         string        `json:"url"`
	Username    string        `json:"username"`
	Password    string        `json:"-"`
	SessionTTL  time.Duration `json:"session_ttl"`
	Backend     string        `json:"backend"`
	DataDir     string        `json:"data_dir"`
	RedisAddr   string        `json:"redis_addr"`
	MongoURL    string        `json:"mongo_url"`
	MongoDB     string        `json:"mongo_db"`
	DynamoTable string        `json:"dynamo_table"`
	S3Bucket    string        `json:"s3_bucket"`
	S3Prefix    string        `json:"s3_prefix"`
	Version     string        `json:"version"`
	BuildTime   string        `json:"build_time"`
	CommitHash  string        `json:"commit_hash"`
}

// LoadConfig loads configuration from environment variables and CLI flags
func LoadConfig() *Config {
	config := &Config{
		Port:       8080,
		URL:        "",
		Username:   "admin",
		Password:   "",
		SessionTTL: 24 * time.Hour,
		Backend:    "",
		DataDir:    "./data",
		MongoDB:    "clipshare",
	}

	// Parse CLI flags
	flag.IntVar(&config.Port, "port", config.Port, "Port to listen on")
	flag.StringVar(&config.URL, "url", config.URL, "Base URL for share links")
	flag.StringVar(&config.Username, "username", config.Username, "Admin login username")
	flag.StringVar(&config.Password, "password", config.Password, "Admin login password")
	flag.DurationVar(&config.SessionTTL, "session-ttl", config.SessionTTL, "Login session lifetime")
	flag.StringVar(&config.Backend, "backend", config.Backend, "Storage backend (filesystem, redis, mongodb, dynamodb, s3)")
	flag.StringVar(&config.DataDir, "data-dir", config.DataDir, "Data directory for filesystem backend")
	flag.StringVar(&config.RedisAddr, "redis-addr", config.RedisAddr, "Redis address for redis backend")
	flag.StringVar(&config.MongoURL, "mongo-url", config.MongoURL, "MongoDB connection URL")
	flag.StringVar(&config.MongoDB, "mongo-db", config.MongoDB, "MongoDB database name")
	flag.StringVar(&config.DynamoTable, "dynamo-table", config.DynamoTable, "DynamoDB table name")
	flag.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket for Lambda mode")
	flag.StringVar(&config.S3Prefix, "s3-prefix", config.S3Prefix, "S3 key prefix for Lambda mode")
	flag.Parse()

	// Override with environment variables if present
	if val := os.Getenv("CLIPSHARE_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			config.Port = port
		}
	}
	if val := os.Getenv("CLIPSHARE_URL"); val != "" {
		config.URL = val
	}
	if val := os.Getenv("CLIPSHARE_USERNAME"); val != "" {
		config.Username = val
	}
	if val := os.Getenv("CLIPSHARE_PASSWORD"); val != "" {
		config.Password = val
	}
	if val := os.Getenv("CLIPSHARE_SESSION_TTL"); val != "" {
		if ttl, err := time.ParseDuration(val); err == nil {
			config.SessionTTL = ttl
		}
	}
	if val := os.Getenv("CLIPSHARE_BACKEND"); val != "" {
		config.Backend = val
	}
	if val := os.Getenv("CLIPSHARE_DATA_DIR"); val != "" {
		config.DataDir = val
	}
	if val := os.Getenv("CLIPSHARE_REDIS_ADDR"); val != "" {
		config.RedisAddr = val
	}
	if val := os.Getenv("CLIPSHARE_MONGO_URL"); val != "" {
		config.MongoURL = val
	}
	if val := os.Getenv("CLIPSHARE_MONGO_DB"); val != "" {
		config.MongoDB = val
	}
	if val := os.Getenv("CLIPSHARE_DYNAMO_TABLE"); val != "" {
		config.DynamoTable = val
	}
	if val := os.Getenv("CLIPSHARE_S3_BUCKET"); val != "" {
		config.S3Bucket = val
	}
	if val := os.Getenv("CLIPSHARE_S3_PREFIX"); val != "" {
		config.S3Prefix = val
	}

	return config
}

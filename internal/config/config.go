package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDrive    = "drive"
	StorageSupabase = "supabase"
	StorageLocal    = "local"

	StatusMemory   = "memory"
	StatusPostgres = "postgres"
	StatusMongo    = "mongo"
	StatusDynamoDB = "dynamodb"
)

type Config struct {
	// Server
	Port               string
	Environment        string
	StaticDir          string
	CORSAllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// Remote folder store
	StorageProvider   string
	StorageTimeout    time.Duration
	UploadConcurrency int
	ReadinessTimeout  time.Duration

	// Google Drive
	GoogleServiceAccountEmail string
	GooglePrivateKey          string
	GoogleDriveParentFolderID string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string
	SupabaseStoragePrefix string

	// Local filesystem
	LocalStorageDir       string
	LocalStoragePublicURL string

	// Status repository
	StatusStore         string
	DatabaseURL         string
	MongoURI            string
	MongoDBName         string
	AWSRegion           string
	DynamoDBEndpoint    string
	DynamoDBOrdersTable string

	// Events
	RabbitURL      string
	RabbitExchange string

	// Admin
	AdminJWTSecret string

	// Failure handling
	RecordFailedOrders bool
	CleanupOnFailure   bool
}

var defaults = map[string]any{
	"PORT":                    "3000",
	"ENVIRONMENT":             "development",
	"STATIC_DIR":              "public",
	"CORS_ALLOWED_ORIGINS":    "*",
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "text",
	"STORAGE_PROVIDER":        StorageDrive,
	"STORAGE_TIMEOUT":         "0s",
	"UPLOAD_CONCURRENCY":      4,
	"READINESS_TIMEOUT":       "30s",
	"SUPABASE_STORAGE_BUCKET": "orders",
	"SUPABASE_STORAGE_PREFIX": "orders",
	"LOCAL_STORAGE_DIR":       "data/orders",
	"STATUS_STORE":            StatusMemory,
	"MONGO_DB_NAME":           "artistic_unity",
	"AWS_REGION":              "us-east-1",
	"DYNAMODB_ORDERS_TABLE":   "orders",
	"RABBIT_EXCHANGE":         "order_submitted",
	"RECORD_FAILED_ORDERS":    false,
	"CLEANUP_ON_FAILURE":      false,
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a validated Config from v, applying defaults for unset keys.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		StaticDir:          v.GetString("STATIC_DIR"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		StorageProvider:   strings.ToLower(v.GetString("STORAGE_PROVIDER")),
		StorageTimeout:    v.GetDuration("STORAGE_TIMEOUT"),
		UploadConcurrency: v.GetInt("UPLOAD_CONCURRENCY"),
		ReadinessTimeout:  v.GetDuration("READINESS_TIMEOUT"),

		GoogleServiceAccountEmail: v.GetString("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		GooglePrivateKey:          v.GetString("GOOGLE_PRIVATE_KEY"),
		GoogleDriveParentFolderID: v.GetString("GOOGLE_DRIVE_PARENT_FOLDER_ID"),

		SupabaseURL:           v.GetString("SUPABASE_URL"),
		SupabaseServiceKey:    v.GetString("SUPABASE_SERVICE_KEY"),
		SupabaseStorageBucket: v.GetString("SUPABASE_STORAGE_BUCKET"),
		SupabaseStoragePrefix: v.GetString("SUPABASE_STORAGE_PREFIX"),

		LocalStorageDir:       v.GetString("LOCAL_STORAGE_DIR"),
		LocalStoragePublicURL: v.GetString("LOCAL_STORAGE_PUBLIC_URL"),

		StatusStore:         strings.ToLower(v.GetString("STATUS_STORE")),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		MongoURI:            v.GetString("MONGO_URI"),
		MongoDBName:         v.GetString("MONGO_DB_NAME"),
		AWSRegion:           v.GetString("AWS_REGION"),
		DynamoDBEndpoint:    v.GetString("DYNAMODB_ENDPOINT"),
		DynamoDBOrdersTable: v.GetString("DYNAMODB_ORDERS_TABLE"),

		RabbitURL:      v.GetString("RABBIT_URL"),
		RabbitExchange: v.GetString("RABBIT_EXCHANGE"),

		AdminJWTSecret: v.GetString("ADMIN_JWT_SECRET"),

		RecordFailedOrders: v.GetBool("RECORD_FAILED_ORDERS"),
		CleanupOnFailure:   v.GetBool("CLEANUP_ON_FAILURE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.UploadConcurrency < 1 {
		return errors.New("UPLOAD_CONCURRENCY must be at least 1")
	}
	if c.StorageTimeout < 0 {
		return errors.New("STORAGE_TIMEOUT must not be negative")
	}

	switch c.StorageProvider {
	case StorageDrive:
		if c.GoogleServiceAccountEmail == "" {
			return errors.New("GOOGLE_SERVICE_ACCOUNT_EMAIL is required")
		}
		if c.GooglePrivateKey == "" {
			return errors.New("GOOGLE_PRIVATE_KEY is required")
		}
		if c.GoogleDriveParentFolderID == "" {
			return errors.New("GOOGLE_DRIVE_PARENT_FOLDER_ID is required")
		}
	case StorageSupabase:
		if c.SupabaseURL == "" {
			return errors.New("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return errors.New("SUPABASE_SERVICE_KEY is required")
		}
		if c.SupabaseStorageBucket == "" {
			return errors.New("SUPABASE_STORAGE_BUCKET is required")
		}
	case StorageLocal:
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}

	switch c.StatusStore {
	case StatusMemory, StatusDynamoDB:
	case StatusPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case StatusMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required")
		}
	default:
		return fmt.Errorf("unknown STATUS_STORE %q", c.StatusStore)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"artistic-unity-backend/internal/config"
	"artistic-unity-backend/internal/database"
	"artistic-unity-backend/internal/gdrive"
	"artistic-unity-backend/internal/localfs"
	"artistic-unity-backend/internal/repository"
	"artistic-unity-backend/internal/services"
	"artistic-unity-backend/internal/supabase"
)

func newFolderProvider(ctx context.Context, cfg *config.Config) (services.FolderProvider, error) {
	switch cfg.StorageProvider {
	case config.StorageDrive:
		return gdrive.NewProvider(ctx, cfg.GoogleServiceAccountEmail, cfg.GooglePrivateKey, cfg.GoogleDriveParentFolderID)
	case config.StorageSupabase:
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			return nil, err
		}
		return supabase.NewStorageProvider(client, cfg.SupabaseStorageBucket, cfg.SupabaseStoragePrefix), nil
	case config.StorageLocal:
		return localfs.NewProvider(cfg.LocalStorageDir, cfg.LocalStoragePublicURL)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}

// newOrderRepository returns the configured status store and a func that
// releases its connections.
func newOrderRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.OrderRepository, func(), error) {
	noop := func() {}

	switch cfg.StatusStore {
	case config.StatusMemory:
		return repository.NewMemoryOrderRepository(), noop, nil

	case config.StatusPostgres:
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.NewMigrator(db, logger).Run(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		return database.NewOrderRepository(db), func() { db.Close() }, nil

	case config.StatusMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeClient := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("failed to disconnect mongo", "error", err)
			}
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			closeClient()
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		return repository.NewMongoOrderRepository(client.Database(cfg.MongoDBName)), closeClient, nil

	case config.StatusDynamoDB:
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		})
		repo := repository.NewDynamoOrderRepository(client, cfg.DynamoDBOrdersTable)
		if err := repo.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return repo, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown status store %q", cfg.StatusStore)
	}
}

func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	// DynamoDB Local does not validate credentials, but the SDK requires them.
	if cfg.DynamoDBEndpoint != "" && os.Getenv("AWS_ACCESS_KEY_ID") == "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	return awsconfig.LoadDefaultConfig(ctx, loadOpts...)
}

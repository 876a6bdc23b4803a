package database

import (
	"context"
	"fmt"
	"time"

	"sac-pickem-go/logging"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewMongoConnection(config Config) (*MongoDB, error) {
	logger := logging.WithPrefix("MongoDB")

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var uri string
	if config.Username != "" && config.Password != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=%s",
			config.Username, config.Password, config.Host, config.Port, config.Database, config.Database)
		logger.Infof("Connecting with authentication as user: %s", config.Username)
	} else {
		uri = fmt.Sprintf("mongodb://%s:%s/%s", config.Host, config.Port, config.Database)
		logger.Info("Connecting without authentication")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Infof("Connected to %s:%s database=%s", config.Host, config.Port, config.Database)

	return &MongoDB{
		client:   client,
		database: client.Database(config.Database),
	}, nil
}

func (m *MongoDB) Close() error {
	logger := logging.WithPrefix("MongoDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		logger.Errorf("Error disconnecting: %v", err)
		return err
	}
	logger.Info("Connection closed")
	return nil
}

// TestConnection pings the database, for health checks
func (m *MongoDB) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) GetCollection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

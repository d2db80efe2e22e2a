package persistence

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/infrastructure/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	customerCollection = "customers"
	accountCollection  = "accounts"
)

// Database wraps the MongoDB client and the application database
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDatabase connects to MongoDB and verifies the connection
func NewDatabase(cfg *config.MongoConfig) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	return &Database{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is the second line of defence behind the application-level
// uniqueness check: a create racing another create with the same email
// fails here instead of admitting two holders.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	customers := d.db.Collection(customerCollection)
	_, err := customers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "last_name", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("creating customer indexes: %w", err)
	}

	accounts := d.db.Collection(accountCollection)
	_, err = accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating account indexes: %w", err)
	}
	return nil
}

// Ping verifies the connection is still alive
func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Close disconnects the client
func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

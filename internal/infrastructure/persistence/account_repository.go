package persistence

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAccountRepository implements account.Repository on MongoDB
type MongoAccountRepository struct {
	coll *mongo.Collection
}

// NewMongoAccountRepository creates an account repository
func NewMongoAccountRepository(db *Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.db.Collection(accountCollection)}
}

// FindByUsername returns the account with the given username, or nil when absent
func (r *MongoAccountRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	var a account.Account
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding account: %w", err)
	}
	return &a, nil
}

// Insert stores a new account
func (r *MongoAccountRepository) Insert(ctx context.Context, a *account.Account) error {
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.ErrUsernameExists
		}
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}

var _ account.Repository = (*MongoAccountRepository)(nil)

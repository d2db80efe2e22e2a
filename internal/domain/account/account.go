package account

import (
	"context"
)

// Authorities
const (
	RoleCustomer = "ROLE_CUSTOMER"
	RoleAdmin    = "ROLE_ADMIN"
)

// Credentials is the account data supplied when a customer is created
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Account is a credential record, stored independently from customers
type Account struct {
	ID          string   `bson:"_id" json:"id"`
	Username    string   `bson:"username" json:"username"`
	Password    string   `bson:"password" json:"-"`
	Authorities []string `bson:"authorities" json:"authorities"`
}

// HasAuthority reports whether the account carries the given authority
func (a *Account) HasAuthority(authority string) bool {
	for _, granted := range a.Authorities {
		if granted == authority {
			return true
		}
	}
	return false
}

// Repository defines the interface for account persistence
type Repository interface {
	// FindByUsername finds an account by username, (nil, nil) when absent
	FindByUsername(ctx context.Context, username string) (*Account, error)

	// Insert persists a new account
	Insert(ctx context.Context, a *Account) error
}

// Creator provisions a credential record for a new customer
type Creator interface {
	Create(ctx context.Context, creds Credentials) (*Account, error)
}

package account

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service provisions credential records for new customers
type Service struct {
	repo account.Repository
	log  *zap.Logger
}

// NewService creates a new account Service
func NewService(repo account.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create hashes the supplied password, grants the customer role, and
// persists the account. A taken username rejects the operation.
func (s *Service) Create(ctx context.Context, creds account.Credentials) (*account.Account, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, shared.ErrInvalidAccount
	}

	existing, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	acct := &account.Account{
		ID:          uuid.NewString(),
		Username:    creds.Username,
		Password:    string(hash),
		Authorities: []string{account.RoleCustomer},
	}

	if err := s.repo.Insert(ctx, acct); err != nil {
		return nil, err
	}

	s.log.Debug("account created", zap.String("username", acct.Username))
	return acct, nil
}

// Authenticate verifies a username/password pair and returns the account
// on success, or (nil, nil) when the credentials do not match
func (s *Service) Authenticate(ctx context.Context, username, password string) (*account.Account, error) {
	acct, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(password)) != nil {
		return nil, nil
	}
	return acct, nil
}

var _ account.Creator = (*Service)(nil)

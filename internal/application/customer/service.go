package customer

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier delivers a best-effort "customer created" notification.
// Implementations absorb every failure mode; the call never reports one.
type Notifier interface {
	NotifyCreated(ctx context.Context, c *customer.Customer)
}

// Per-call time budgets: point lookups and writes run under the short
// budget, multi-record searches under the long one.
const (
	DefaultShortTimeout = 500 * time.Millisecond
	DefaultLongTimeout  = 2 * time.Second
)

// Service orchestrates customer operations: repository lookups, the
// per-id cache, version checking, email-uniqueness enforcement, account
// provisioning, and the creation notification side effect.
type Service struct {
	repo     customer.Repository
	accounts account.Creator
	cache    customer.Cache
	notifier Notifier
	log      *zap.Logger

	shortTimeout time.Duration
	longTimeout  time.Duration
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithTimeouts overrides the default per-call time budgets
func WithTimeouts(short, long time.Duration) Option {
	return func(s *Service) {
		s.shortTimeout = short
		s.longTimeout = long
	}
}

// NewService creates a new customer Service
func NewService(repo customer.Repository, accounts account.Creator, cache customer.Cache, notifier Notifier, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		accounts:     accounts,
		cache:        cache,
		notifier:     notifier,
		log:          log,
		shortTimeout: DefaultShortTimeout,
		longTimeout:  DefaultLongTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByID returns the customer with the given id, or (nil, nil) when no
// such customer exists. The cache is consulted first; a miss is fetched
// from the repository under the short budget and populated back.
func (s *Service) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	if c, ok := s.cache.Get(ctx, id); ok {
		return c, nil
	}

	c, err := s.fetchByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}

	s.cache.Put(ctx, id, c)
	return c, nil
}

// Find returns the customers matching the given query parameters as a
// lazy stream. Empty parameters stream every customer; any unrecognized
// parameter yields an empty stream without touching storage.
func (s *Service) Find(ctx context.Context, params map[string][]string) (*customer.Stream, error) {
	if len(params) == 0 {
		return s.query(ctx, s.repo.FindAll)
	}

	criteria, err := customer.TranslateCriteria(params)
	if err != nil {
		s.log.Debug("unanswerable query", zap.Any("params", params))
		return customer.Empty(), nil
	}

	return s.query(ctx, func(qctx context.Context) (*customer.Stream, error) {
		return s.repo.FindByCriteria(qctx, criteria)
	})
}

// Create persists a new customer. The supplied customer must carry
// account credentials; a duplicate email rejects the operation before
// any write. On success a best-effort creation notification is sent;
// its failure never surfaces here.
func (s *Service) Create(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	if !c.HasAccount() {
		return nil, shared.ErrInvalidAccount
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.fetchByEmail(ctx, c.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrEmailExists
	}

	acct, err := s.createAccount(ctx, *c.Account)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.ID = uuid.NewString()
	c.Version = 0
	c.Username = acct.Username
	c.CreatedAt = now
	c.UpdatedAt = now
	c.NormalizeEmail()

	ictx, cancel := context.WithTimeout(ctx, s.shortTimeout)
	defer cancel()
	if err := s.repo.Insert(ictx, c); err != nil {
		return nil, s.ioErr(err)
	}

	s.log.Debug("customer created", zap.String("id", c.ID), zap.String("username", c.Username))
	s.notifier.NotifyCreated(ctx, c)
	return c, nil
}

// Update applies the full set of mutable fields from c onto the stored
// customer with the given id, guarded by the version token. An unknown
// id is an empty success. The cache entry for id is evicted regardless
// of outcome.
func (s *Service) Update(ctx context.Context, c *customer.Customer, id, version string) (*customer.Customer, error) {
	defer s.cache.Evict(context.WithoutCancel(ctx), id)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.fetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	if err := checkVersion(version, stored.Version); err != nil {
		return nil, err
	}

	// Only an actual change of address triggers the uniqueness lookup.
	// The stored value is lower-cased, so a re-cased variant of it is
	// not a change, and the case-insensitive lookup must never count
	// the customer itself as the conflicting holder.
	if !strings.EqualFold(c.Email, stored.Email) {
		other, err := s.fetchByEmail(ctx, c.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != stored.ID {
			return nil, shared.ErrEmailExists
		}
	}

	stored.Merge(c)

	uctx, cancel := context.WithTimeout(ctx, s.shortTimeout)
	defer cancel()
	if err := s.repo.Update(uctx, stored); err != nil {
		return nil, s.ioErr(err)
	}

	s.log.Debug("customer updated", zap.String("id", id), zap.Int64("version", stored.Version))
	return stored, nil
}

// DeleteByID removes the customer with the given id. Requires the admin
// role; deleting an unknown id is a no-op success.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	defer s.cache.Evict(context.WithoutCancel(ctx), id)

	stored, err := s.fetchByID(ctx, id)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	dctx, cancel := context.WithTimeout(ctx, s.shortTimeout)
	defer cancel()
	if err := s.repo.DeleteByID(dctx, id); err != nil {
		return s.ioErr(err)
	}

	s.log.Debug("customer deleted", zap.String("id", id))
	return nil
}

// DeleteByEmail removes the customer holding the given email and reports
// the count of removed records. Requires the admin role.
func (s *Service) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	if err := requireAdmin(ctx); err != nil {
		return 0, err
	}

	dctx, cancel := context.WithTimeout(ctx, s.shortTimeout)
	defer cancel()
	count, err := s.repo.DeleteByEmail(dctx, email)
	if err != nil {
		return 0, s.ioErr(err)
	}
	return count, nil
}

func (s *Service) fetchByID(ctx context.Context, id string) (*customer.Customer, error) {
	fctx, cancel := context.WithTimeout(ctx, s.shortTimeout)
	defer cancel()
	c, err := s.repo.FindByID(fctx, id)
	if err != nil {
		return nil, s.ioErr(err)
	}
	return c, nil
}

func (s *Service) fetchByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	fctx, cancel := context.WithTimeout(ctx, s.shortTimeout)
	defer cancel()
	c, err := s.repo.FindByEmail(fctx, email)
	if err != nil {
		return nil, s.ioErr(err)
	}
	return c, nil
}

func (s *Service) createAccount(ctx context.Context, creds account.Credentials) (*account.Account, error) {
	actx, cancel := context.WithTimeout(ctx, s.shortTimeout)
	defer cancel()
	acct, err := s.accounts.Create(actx, creds)
	if err != nil {
		return nil, s.ioErr(err)
	}
	return acct, nil
}

// query runs a multi-record lookup under the long budget; the deadline is
// released when the returned stream ends or is closed
func (s *Service) query(ctx context.Context, find func(context.Context) (*customer.Stream, error)) (*customer.Stream, error) {
	qctx, cancel := context.WithTimeout(ctx, s.longTimeout)
	st, err := find(qctx)
	if err != nil {
		cancel()
		return nil, s.ioErr(err)
	}
	st.BindCancel(cancel)
	return st, nil
}

func (s *Service) ioErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return shared.ErrTimeout
	}
	return err
}

func checkVersion(token string, stored int64) error {
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil || v < stored {
		return shared.ErrInvalidVersion
	}
	return nil
}

func requireAdmin(ctx context.Context) error {
	p, ok := account.PrincipalFrom(ctx)
	if !ok || !p.HasAuthority(account.RoleAdmin) {
		return shared.ErrUnauthorized
	}
	return nil
}

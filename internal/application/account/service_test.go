package account

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockRepository) Insert(ctx context.Context, a *account.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("empty credentials rejected", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, zap.NewNop())

		for _, creds := range []account.Credentials{
			{},
			{Username: "anna.m"},
			{Password: "p4ssw0rd!"},
		} {
			_, err := svc.Create(ctx, creds)
			assert.ErrorIs(t, err, shared.ErrInvalidAccount)
		}
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("taken username rejected", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUsername", ctx, "anna.m").
			Return(&account.Account{ID: "a-1", Username: "anna.m"}, nil)

		_, err := svc.Create(ctx, account.Credentials{Username: "anna.m", Password: "p4ssw0rd!"})
		assert.ErrorIs(t, err, shared.ErrUsernameExists)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("success hashes password and grants customer role", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUsername", ctx, "anna.m").Return(nil, nil)
		repo.On("Insert", ctx, mock.AnythingOfType("*account.Account")).Return(nil)

		acct, err := svc.Create(ctx, account.Credentials{Username: "anna.m", Password: "p4ssw0rd!"})
		require.NoError(t, err)

		assert.NotEmpty(t, acct.ID)
		assert.Equal(t, "anna.m", acct.Username)
		assert.Equal(t, []string{account.RoleCustomer}, acct.Authorities)
		assert.NotEqual(t, "p4ssw0rd!", acct.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte("p4ssw0rd!")))
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("p4ssw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &account.Account{ID: "a-1", Username: "anna.m", Password: string(hash)}

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUsername", ctx, "anna.m").Return(stored, nil)

		acct, err := svc.Authenticate(ctx, "anna.m", "p4ssw0rd!")
		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, "anna.m", acct.Username)
	})

	t.Run("wrong password is an empty result", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUsername", ctx, "anna.m").Return(stored, nil)

		acct, err := svc.Authenticate(ctx, "anna.m", "wrong")
		require.NoError(t, err)
		assert.Nil(t, acct)
	})

	t.Run("unknown username is an empty result", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUsername", ctx, "ghost").Return(nil, nil)

		acct, err := svc.Authenticate(ctx, "ghost", "whatever")
		require.NoError(t, err)
		assert.Nil(t, acct)
	})
}

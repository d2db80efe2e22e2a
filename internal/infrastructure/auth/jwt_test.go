package auth

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(expiration time.Duration) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:     "test-secret",
		Expiration: expiration,
		Issuer:     "customer-service",
	})
}

func testAccount() *account.Account {
	return &account.Account{
		ID:          "a-1",
		Username:    "anna.m",
		Authorities: []string{account.RoleCustomer},
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := testService(time.Minute)

	token, err := svc.GenerateToken(testAccount())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "anna.m", claims.Username)
	assert.Equal(t, []string{account.RoleCustomer}, claims.Authorities)
	assert.Equal(t, "a-1", claims.Subject)
	assert.Equal(t, "customer-service", claims.Issuer)
}

func TestJWTService_ValidateToken(t *testing.T) {
	svc := testService(time.Minute)

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		other := NewJWTService(&config.JWTConfig{Secret: "different", Expiration: time.Minute})
		token, err := other.GenerateToken(testAccount())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := testService(-time.Minute)
		token, err := expired.GenerateToken(testAccount())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

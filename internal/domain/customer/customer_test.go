package customer

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_Validate(t *testing.T) {
	valid := func() *Customer {
		return &Customer{
			LastName: "Mueller",
			Email:    "anna.mueller@example.com",
		}
	}

	t.Run("valid customer passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("empty last name rejected", func(t *testing.T) {
		c := valid()
		c.LastName = ""

		err := c.Validate()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		for _, email := range []string{"", "nope", "a@b", "@example.com", "a b@example.com"} {
			c := valid()
			c.Email = email

			err := c.Validate()
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr, "email %q", email)
			assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
		}
	})
}

func TestCustomer_HasAccount(t *testing.T) {
	c := &Customer{}
	assert.False(t, c.HasAccount())

	c.Account = &account.Credentials{Username: "anna.m"}
	assert.False(t, c.HasAccount())

	c.Account.Password = "p4ssw0rd!"
	assert.True(t, c.HasAccount())
}

func TestCustomer_NormalizeEmail(t *testing.T) {
	c := &Customer{Email: "Anna.Mueller@Example.COM"}
	c.NormalizeEmail()
	assert.Equal(t, "anna.mueller@example.com", c.Email)
}

func TestCustomer_Merge(t *testing.T) {
	birthdate := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	stored := &Customer{
		ID:       "c-1",
		Version:  4,
		LastName: "Old",
		Email:    "old@example.com",
		Username: "anna.m",
	}

	stored.Merge(&Customer{
		LastName:   "New",
		FirstName:  "Anna",
		Email:      "New@Example.COM",
		Category:   7,
		Newsletter: true,
		Birthdate:  &birthdate,
		Homepage:   "https://example.com",
		Interests:  []string{"reading"},
		Address:    Address{Street: "Neue Str. 2", City: "Mannheim", PostalCode: "68159"},
	})

	assert.Equal(t, "c-1", stored.ID)
	assert.Equal(t, int64(4), stored.Version)
	assert.Equal(t, "anna.m", stored.Username)
	assert.Equal(t, "New", stored.LastName)
	assert.Equal(t, "new@example.com", stored.Email)
	assert.Equal(t, 7, stored.Category)
	assert.True(t, stored.Newsletter)
	assert.Equal(t, &birthdate, stored.Birthdate)
	assert.Equal(t, "Mannheim", stored.Address.City)
	assert.False(t, stored.UpdatedAt.IsZero())
}

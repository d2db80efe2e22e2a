package customer

import (
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/shared"
)

// Address is the customer's postal address, embedded in the customer document
type Address struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
}

// Customer is the aggregate root of the customer context.
// The id is assigned by the service at creation time and never changes;
// the version counter is bumped by the store on every successful update.
type Customer struct {
	ID         string     `bson:"_id" json:"id"`
	Version    int64      `bson:"version" json:"version"`
	LastName   string     `bson:"last_name" json:"lastName"`
	FirstName  string     `bson:"first_name" json:"firstName"`
	Email      string     `bson:"email" json:"email"`
	Category   int        `bson:"category" json:"category"`
	Newsletter bool       `bson:"newsletter" json:"newsletter"`
	Birthdate  *time.Time `bson:"birthdate,omitempty" json:"birthdate,omitempty"`
	Homepage   string     `bson:"homepage" json:"homepage"`
	Interests  []string   `bson:"interests,omitempty" json:"interests,omitempty"`
	Address    Address    `bson:"address" json:"address"`
	Username   string     `bson:"username" json:"username"`
	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updatedAt"`

	// Account carries the credentials supplied at creation time.
	// It is provisioned into the account collection, never stored here.
	Account *account.Credentials `bson:"-" json:"account,omitempty"`
}

// HasAccount reports whether creation-time credentials were supplied
func (c *Customer) HasAccount() bool {
	return c.Account != nil && c.Account.Username != "" && c.Account.Password != ""
}

// NormalizeEmail lower-cases the stored email address
func (c *Customer) NormalizeEmail() {
	c.Email = strings.ToLower(c.Email)
}

// Merge overwrites every mutable field of c with the values from other.
// It is a full merge, not a patch: identity, version, and the account
// linkage are the only fields left untouched. The email is lower-cased
// so the stored value keeps its canonical form.
func (c *Customer) Merge(other *Customer) {
	c.LastName = other.LastName
	c.FirstName = other.FirstName
	c.Email = strings.ToLower(other.Email)
	c.Category = other.Category
	c.Newsletter = other.Newsletter
	c.Birthdate = other.Birthdate
	c.Homepage = other.Homepage
	c.Interests = other.Interests
	c.Address = other.Address
	c.UpdatedAt = time.Now()
}

// Validate checks the invariants a customer must satisfy before it is persisted
func (c *Customer) Validate() error {
	if err := validateLastName(c.LastName); err != nil {
		return err
	}
	return validateEmail(c.Email)
}

func validateLastName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Last name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Last name cannot exceed 100 characters")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

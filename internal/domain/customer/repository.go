package customer

import (
	"context"
)

// Repository defines the interface for customer persistence.
// Point lookups return (nil, nil) when no customer matches; absence is
// not an error. Multi-record lookups return a lazy Stream whose producer
// is bound to the passed context.
type Repository interface {
	// FindByID finds a customer by its id
	FindByID(ctx context.Context, id string) (*Customer, error)

	// FindByEmail finds the customer holding the given email address,
	// compared case-insensitively
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindAll streams every stored customer
	FindAll(ctx context.Context) (*Stream, error)

	// FindByCriteria streams the customers matching all given criteria
	FindByCriteria(ctx context.Context, criteria []Criterion) (*Stream, error)

	// FindByLastName streams customers whose last name matches exactly
	FindByLastName(ctx context.Context, lastName string) (*Stream, error)

	// FindByLastNameIgnoreCase streams customers whose last name matches
	// without case distinction
	FindByLastNameIgnoreCase(ctx context.Context, lastName string) (*Stream, error)

	// FindByLastNameContaining streams customers whose last name contains
	// the given substring, case-insensitively
	FindByLastNameContaining(ctx context.Context, part string) (*Stream, error)

	// FindByLastNamePrefix streams customers whose last name starts with
	// the given prefix, case-insensitively
	FindByLastNamePrefix(ctx context.Context, prefix string) (*Stream, error)

	// FindByPostalCode streams customers with the given postal code
	FindByPostalCode(ctx context.Context, postalCode string) (*Stream, error)

	// FindByEmailPrefix streams customers whose email starts with the
	// given prefix, case-insensitively
	FindByEmailPrefix(ctx context.Context, prefix string) (*Stream, error)

	// Insert persists a new customer with version 0.
	// A duplicate email surfaces as shared.ErrEmailExists.
	Insert(ctx context.Context, c *Customer) error

	// Update persists the customer's mutable fields guarded by its current
	// version; the store increments the version on success and the new
	// value is written back into c. A concurrent bump since the read
	// surfaces as shared.ErrInvalidVersion.
	Update(ctx context.Context, c *Customer) error

	// DeleteByID removes the customer with the given id; removing an
	// unknown id is a no-op
	DeleteByID(ctx context.Context, id string) error

	// DeleteByEmail removes the customer holding the given email and
	// reports how many records were removed
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

// Cache holds customers keyed by id. Implementations must tolerate
// concurrent Get/Put/Evict. A Get miss is (nil, false), never an error:
// a broken cache degrades to a repository fetch.
type Cache interface {
	Get(ctx context.Context, id string) (*Customer, bool)
	Put(ctx context.Context, id string, c *Customer)
	Evict(ctx context.Context, id string)
}

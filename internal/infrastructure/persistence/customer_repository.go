package persistence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCustomerRepository implements customer.Repository on MongoDB
type MongoCustomerRepository struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepository creates a customer repository
func NewMongoCustomerRepository(db *Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{coll: db.db.Collection(customerCollection)}
}

func (r *MongoCustomerRepository) findOne(ctx context.Context, filter bson.M) (*customer.Customer, error) {
	var c customer.Customer
	err := r.coll.FindOne(ctx, filter).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding customer: %w", err)
	}
	return &c, nil
}

// findStream runs the query eagerly and feeds the results through a stream
// so callers consume them lazily.
func (r *MongoCustomerRepository) findStream(ctx context.Context, filter bson.M) (*customer.Stream, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	return customer.Produce(ctx, func(pctx context.Context, emit func(customer.Customer) bool) error {
		defer cur.Close(context.WithoutCancel(ctx))
		for cur.Next(pctx) {
			var c customer.Customer
			if err := cur.Decode(&c); err != nil {
				return fmt.Errorf("decoding customer: %w", err)
			}
			if !emit(c) {
				return nil
			}
		}
		return cur.Err()
	}), nil
}

// FindByID returns the customer with the given id, or nil when absent
func (r *MongoCustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail looks a customer up by email, ignoring case
func (r *MongoCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

// FindAll streams every customer
func (r *MongoCustomerRepository) FindAll(ctx context.Context) (*customer.Stream, error) {
	return r.findStream(ctx, bson.M{})
}

// FindByCriteria streams the customers matching all given criteria
func (r *MongoCustomerRepository) FindByCriteria(ctx context.Context, criteria []customer.Criterion) (*customer.Stream, error) {
	filter, err := criteriaFilter(criteria)
	if err != nil {
		return nil, err
	}
	return r.findStream(ctx, filter)
}

// FindByLastName streams customers with exactly the given last name
func (r *MongoCustomerRepository) FindByLastName(ctx context.Context, lastName string) (*customer.Stream, error) {
	return r.findStream(ctx, lastNameFilter(lastName))
}

// FindByLastNameIgnoreCase streams customers whose last name matches ignoring case
func (r *MongoCustomerRepository) FindByLastNameIgnoreCase(ctx context.Context, lastName string) (*customer.Stream, error) {
	return r.findStream(ctx, lastNameIgnoreCaseFilter(lastName))
}

// FindByLastNameContaining streams customers whose last name contains the fragment
func (r *MongoCustomerRepository) FindByLastNameContaining(ctx context.Context, fragment string) (*customer.Stream, error) {
	return r.findStream(ctx, lastNameContainingFilter(fragment))
}

// FindByLastNamePrefix streams customers whose last name starts with the prefix
func (r *MongoCustomerRepository) FindByLastNamePrefix(ctx context.Context, prefix string) (*customer.Stream, error) {
	return r.findStream(ctx, lastNamePrefixFilter(prefix))
}

// FindByPostalCode streams customers living in the given postal code
func (r *MongoCustomerRepository) FindByPostalCode(ctx context.Context, postalCode string) (*customer.Stream, error) {
	return r.findStream(ctx, postalCodeFilter(postalCode))
}

// FindByEmailPrefix streams customers whose email starts with the prefix
func (r *MongoCustomerRepository) FindByEmailPrefix(ctx context.Context, prefix string) (*customer.Stream, error) {
	return r.findStream(ctx, emailPrefixFilter(prefix))
}

func lastNameFilter(lastName string) bson.M {
	return bson.M{"last_name": lastName}
}

func lastNameIgnoreCaseFilter(lastName string) bson.M {
	return bson.M{"last_name": exactIgnoreCase(lastName)}
}

func lastNameContainingFilter(fragment string) bson.M {
	return bson.M{"last_name": containsIgnoreCase(fragment)}
}

func lastNamePrefixFilter(prefix string) bson.M {
	return bson.M{"last_name": prefixIgnoreCase(prefix)}
}

func postalCodeFilter(postalCode string) bson.M {
	return bson.M{"address.postal_code": postalCode}
}

func emailPrefixFilter(prefix string) bson.M {
	return bson.M{"email": prefixIgnoreCase(prefix)}
}

// Insert stores a new customer with version 0
func (r *MongoCustomerRepository) Insert(ctx context.Context, c *customer.Customer) error {
	c.Version = 0
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.ErrEmailExists
		}
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of the customer carrying the expected
// version and increments the version. A missing match means a concurrent
// writer got there first.
func (r *MongoCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	filter := bson.M{"_id": c.ID, "version": c.Version}
	update := bson.M{
		"$set": bson.M{
			"last_name":  c.LastName,
			"first_name": c.FirstName,
			"email":      c.Email,
			"category":   c.Category,
			"newsletter": c.Newsletter,
			"birthdate":  c.Birthdate,
			"homepage":   c.Homepage,
			"interests":  c.Interests,
			"address":    c.Address,
			"updated_at": c.UpdatedAt,
		},
		"$inc": bson.M{"version": int64(1)},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(c)
	if err == mongo.ErrNoDocuments {
		return shared.ErrInvalidVersion
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.ErrEmailExists
		}
		return fmt.Errorf("updating customer: %w", err)
	}
	return nil
}

// DeleteByID removes the customer with the given id, a no-op when absent
func (r *MongoCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}
	return nil
}

// DeleteByEmail removes all customers with the given email and reports how many
func (r *MongoCustomerRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"email": strings.ToLower(email)})
	if err != nil {
		return 0, fmt.Errorf("deleting customers by email: %w", err)
	}
	return res.DeletedCount, nil
}

// criteriaFilter translates domain criteria into a MongoDB filter. Each
// criterion becomes its own clause joined under $and, so repeated
// criteria on the same field conjoin instead of overwriting each other.
func criteriaFilter(criteria []customer.Criterion) (bson.M, error) {
	clauses := make([]bson.M, 0, len(criteria))
	for _, cr := range criteria {
		switch cr.Op {
		case customer.OpEquals:
			v, err := criterionValue(cr)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, bson.M{cr.Field: v})
		case customer.OpEqualsIgnoreCase:
			clauses = append(clauses, bson.M{cr.Field: exactIgnoreCase(cr.Value)})
		case customer.OpContains:
			clauses = append(clauses, bson.M{cr.Field: containsIgnoreCase(cr.Value)})
		case customer.OpPrefix:
			clauses = append(clauses, bson.M{cr.Field: prefixIgnoreCase(cr.Value)})
		default:
			return nil, shared.ErrUnknownCriterion
		}
	}

	switch len(clauses) {
	case 0:
		return bson.M{}, nil
	case 1:
		return clauses[0], nil
	default:
		return bson.M{"$and": clauses}, nil
	}
}

// criterionValue converts the raw query value into the stored type
func criterionValue(cr customer.Criterion) (any, error) {
	switch cr.Field {
	case customer.FieldCategory:
		n, err := strconv.Atoi(cr.Value)
		if err != nil {
			return nil, shared.ErrUnknownCriterion
		}
		return n, nil
	case customer.FieldNewsletter:
		b, err := strconv.ParseBool(cr.Value)
		if err != nil {
			return nil, shared.ErrUnknownCriterion
		}
		return b, nil
	default:
		return cr.Value, nil
	}
}

func exactIgnoreCase(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func containsIgnoreCase(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func prefixIgnoreCase(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s), Options: "i"}
}

var _ customer.Repository = (*MongoCustomerRepository)(nil)

package customer

import (
	"github.com/crm/backend/internal/domain/shared"
)

// Op is the match semantic of a single criterion
type Op int

const (
	// OpEquals matches the field value exactly
	OpEquals Op = iota
	// OpEqualsIgnoreCase matches the field value without case distinction
	OpEqualsIgnoreCase
	// OpContains matches when the field contains the value, case-insensitively
	OpContains
	// OpPrefix matches when the field starts with the value, case-insensitively
	OpPrefix
)

// Criterion is one store-agnostic filter clause; the persistence adapter
// lowers it to a native filter expression
type Criterion struct {
	Field string
	Op    Op
	Value string
}

// Queryable fields
const (
	FieldLastName   = "last_name"
	FieldEmail      = "email"
	FieldPostalCode = "address.postal_code"
	FieldHomepage   = "homepage"
	FieldCategory   = "category"
	FieldInterest   = "interests"
	FieldNewsletter = "newsletter"
)

// TranslateCriteria turns a multi-valued query-parameter map into filter
// criteria. Any unrecognized parameter name yields ErrUnknownCriterion:
// callers must treat the whole query as unanswerable rather than silently
// dropping the unknown clause and over-matching.
func TranslateCriteria(params map[string][]string) ([]Criterion, error) {
	criteria := make([]Criterion, 0, len(params))
	for name, values := range params {
		for _, value := range values {
			c, ok := translateParam(name, value)
			if !ok {
				return nil, shared.ErrUnknownCriterion
			}
			criteria = append(criteria, c)
		}
	}
	return criteria, nil
}

func translateParam(name, value string) (Criterion, bool) {
	switch name {
	case "lastname", "lastName":
		return Criterion{Field: FieldLastName, Op: OpContains, Value: value}, true
	case "lastnamePrefix":
		return Criterion{Field: FieldLastName, Op: OpPrefix, Value: value}, true
	case "email":
		return Criterion{Field: FieldEmail, Op: OpEqualsIgnoreCase, Value: value}, true
	case "emailPrefix":
		return Criterion{Field: FieldEmail, Op: OpPrefix, Value: value}, true
	case "postalCode", "plz":
		return Criterion{Field: FieldPostalCode, Op: OpEquals, Value: value}, true
	case "homepage":
		return Criterion{Field: FieldHomepage, Op: OpContains, Value: value}, true
	case "category":
		return Criterion{Field: FieldCategory, Op: OpEquals, Value: value}, true
	case "interest":
		return Criterion{Field: FieldInterest, Op: OpEquals, Value: value}, true
	case "newsletter":
		return Criterion{Field: FieldNewsletter, Op: OpEquals, Value: value}, true
	default:
		return Criterion{}, false
	}
}

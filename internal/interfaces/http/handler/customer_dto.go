package handler

import (
	"time"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/customer"
)

// AddressRequest is the postal address payload
type AddressRequest struct {
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required,postalcode"`
}

// CredentialsRequest carries account credentials supplied at creation
type CredentialsRequest struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Password string `json:"password" binding:"required,min=8"`
}

// CreateCustomerRequest is the payload for creating a customer
type CreateCustomerRequest struct {
	LastName   string              `json:"lastName" binding:"required,max=100"`
	FirstName  string              `json:"firstName"`
	Email      string              `json:"email" binding:"required,email"`
	Category   int                 `json:"category" binding:"min=0,max=9"`
	Newsletter bool                `json:"newsletter"`
	Birthdate  *time.Time          `json:"birthdate"`
	Homepage   string              `json:"homepage" binding:"omitempty,url"`
	Interests  []string            `json:"interests"`
	Address    AddressRequest      `json:"address" binding:"required"`
	Account    *CredentialsRequest `json:"account"`
}

// UpdateCustomerRequest is the payload for replacing a customer's data
type UpdateCustomerRequest struct {
	LastName   string         `json:"lastName" binding:"required,max=100"`
	FirstName  string         `json:"firstName"`
	Email      string         `json:"email" binding:"required,email"`
	Category   int            `json:"category" binding:"min=0,max=9"`
	Newsletter bool           `json:"newsletter"`
	Birthdate  *time.Time     `json:"birthdate"`
	Homepage   string         `json:"homepage" binding:"omitempty,url"`
	Interests  []string       `json:"interests"`
	Address    AddressRequest `json:"address" binding:"required"`
}

// AddressResponse is the postal address in responses
type AddressResponse struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// CustomerResponse is the customer representation returned by the API
type CustomerResponse struct {
	ID         string          `json:"id"`
	LastName   string          `json:"lastName"`
	FirstName  string          `json:"firstName"`
	Email      string          `json:"email"`
	Category   int             `json:"category"`
	Newsletter bool            `json:"newsletter"`
	Birthdate  *time.Time      `json:"birthdate,omitempty"`
	Homepage   string          `json:"homepage,omitempty"`
	Interests  []string        `json:"interests,omitempty"`
	Address    AddressResponse `json:"address"`
	Username   string          `json:"username,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (r *CreateCustomerRequest) toCustomer() *customer.Customer {
	c := &customer.Customer{
		LastName:   r.LastName,
		FirstName:  r.FirstName,
		Email:      r.Email,
		Category:   r.Category,
		Newsletter: r.Newsletter,
		Birthdate:  r.Birthdate,
		Homepage:   r.Homepage,
		Interests:  r.Interests,
		Address: customer.Address{
			Street:     r.Address.Street,
			City:       r.Address.City,
			PostalCode: r.Address.PostalCode,
		},
	}
	if r.Account != nil {
		c.Account = &account.Credentials{
			Username: r.Account.Username,
			Password: r.Account.Password,
		}
	}
	return c
}

func (r *UpdateCustomerRequest) toCustomer() *customer.Customer {
	return &customer.Customer{
		LastName:   r.LastName,
		FirstName:  r.FirstName,
		Email:      r.Email,
		Category:   r.Category,
		Newsletter: r.Newsletter,
		Birthdate:  r.Birthdate,
		Homepage:   r.Homepage,
		Interests:  r.Interests,
		Address: customer.Address{
			Street:     r.Address.Street,
			City:       r.Address.City,
			PostalCode: r.Address.PostalCode,
		},
	}
}

func toCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		Email:      c.Email,
		Category:   c.Category,
		Newsletter: c.Newsletter,
		Birthdate:  c.Birthdate,
		Homepage:   c.Homepage,
		Interests:  c.Interests,
		Address: AddressResponse{
			Street:     c.Address.Street,
			City:       c.Address.City,
			PostalCode: c.Address.PostalCode,
		},
		Username:  c.Username,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCustomerResponses(customers []customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, toCustomerResponse(&customers[i]))
	}
	return responses
}

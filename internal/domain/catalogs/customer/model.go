// Package customer provides the Customer catalog.
// Customers are the receiving party of quotations, sales orders,
// deliveries and invoices.
package customer

import (
	"context"
	"regexp"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Customer represents a buying business partner.
type Customer struct {
	entity.Catalog

	// Email is the primary contact email, used for document sends
	Email *string `db:"email" json:"email,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// BillingAddress is copied onto documents at creation time
	BillingAddress *string `db:"billing_address" json:"billingAddress,omitempty"`

	// ShippingAddress is copied onto delivery documents
	ShippingAddress *string `db:"shipping_address" json:"shippingAddress,omitempty"`

	// TaxID is the customer's tax registration number
	TaxID *string `db:"tax_id" json:"taxId,omitempty"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name string) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

// Package supplier provides the Supplier catalog.
// Suppliers are the issuing party of purchase orders and stock receipts.
package supplier

import (
	"context"
	"regexp"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Supplier represents a selling business partner.
type Supplier struct {
	entity.Catalog

	Email         *string `db:"email" json:"email,omitempty"`
	Phone         *string `db:"phone" json:"phone,omitempty"`
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Address is the supplier's dispatch address
	Address *string `db:"address" json:"address,omitempty"`

	// TaxID is the supplier's tax registration number
	TaxID *string `db:"tax_id" json:"taxId,omitempty"`

	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.Email != nil && *s.Email != "" && !emailRE.MatchString(*s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

package entity

import (
	"context"
	"time"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
)

// Document is the base type for business transactions such as
// quotations, orders and invoices.
type Document struct {
	BaseDocument

	// Number is assigned exactly once, at first successful save, and
	// is unique within document type and numbering period.
	Number string `db:"number" json:"number"`

	// Date is the business date, distinct from CreatedAt.
	Date time.Time `db:"date" json:"date"`

	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument returns a Document with a fresh id dated now.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate checks the document invariants.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// AssignNumber sets the document number. Reassignment is a conflict.
func (d *Document) AssignNumber(number string) error {
	if d.Number != "" {
		return apperror.NewConflict("document number is already assigned").
			WithDetail("number", d.Number)
	}
	d.Number = number
	return nil
}

// GetID returns the document id.
func (d *Document) GetID() id.ID {
	return d.ID
}

package entity

import (
	"context"

	"orderflow/internal/core/apperror"
)

// Catalog is the common shape of reference data rows such as
// customers, suppliers and products.
type Catalog struct {
	BaseCatalog

	// Code is the human-readable identifier, unique per catalog.
	Code string `db:"code" json:"code"`

	Name string `db:"name" json:"name"`
}

// NewCatalog returns a Catalog with a fresh id.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Code:        code,
		Name:        name,
	}
}

// Validate checks the catalog invariants. Code may be empty here; the
// service assigns one from the numerator before saving.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

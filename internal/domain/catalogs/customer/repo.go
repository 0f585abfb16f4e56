package customer

import (
	"context"

	"orderflow/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByEmail retrieves customer by email.
	FindByEmail(ctx context.Context, email string) (*Customer, error)
}

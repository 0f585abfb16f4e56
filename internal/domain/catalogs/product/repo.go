package product

import (
	"context"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetMany retrieves products by IDs in one round trip.
	// Used by conversion and pricing defaults.
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error)
}

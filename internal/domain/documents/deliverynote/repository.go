package deliverynote

import (
	"context"
	"time"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// Repository defines operations for delivery note documents.
type Repository interface {
	Create(ctx context.Context, doc *DeliveryNote) error
	GetByID(ctx context.Context, docID id.ID) (*DeliveryNote, error)
	GetByNumber(ctx context.Context, number string) (*DeliveryNote, error)
	Update(ctx context.Context, doc *DeliveryNote) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Item, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Item) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*DeliveryNote], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*DeliveryNote, error)
}

// ListFilter for filtering delivery notes.
type ListFilter struct {
	domain.ListFilter

	CustomerID   *id.ID
	SalesOrderID *id.ID
	DateFrom     *time.Time
	DateTo       *time.Time
}

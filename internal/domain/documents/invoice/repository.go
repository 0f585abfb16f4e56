package invoice

import (
	"context"
	"time"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// Repository defines operations for invoice documents.
type Repository interface {
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Item, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Item) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	CustomerID    *id.ID
	PaymentStatus *string
	DueBefore     *time.Time
	DateFrom      *time.Time
	DateTo        *time.Time
}

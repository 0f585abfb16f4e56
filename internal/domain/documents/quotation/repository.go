package quotation

import (
	"context"
	"time"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// Repository defines operations for quotation documents.
type Repository interface {
	Create(ctx context.Context, doc *Quotation) error
	GetByID(ctx context.Context, docID id.ID) (*Quotation, error)
	GetByNumber(ctx context.Context, number string) (*Quotation, error)
	Update(ctx context.Context, doc *Quotation) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Item, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Item) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quotation], error)

	// GetForUpdate retrieves the document with a row lock for actions.
	GetForUpdate(ctx context.Context, docID id.ID) (*Quotation, error)
}

// ListFilter for filtering quotations.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}

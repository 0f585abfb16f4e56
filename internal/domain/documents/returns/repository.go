package returns

import (
	"context"
	"time"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// InvoiceReturnRepository defines operations for invoice returns.
type InvoiceReturnRepository interface {
	Create(ctx context.Context, doc *InvoiceReturn) error
	GetByID(ctx context.Context, docID id.ID) (*InvoiceReturn, error)
	GetByNumber(ctx context.Context, number string) (*InvoiceReturn, error)
	Update(ctx context.Context, doc *InvoiceReturn) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]InvoiceReturnItem, error)
	SaveLines(ctx context.Context, docID id.ID, lines []InvoiceReturnItem) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*InvoiceReturn], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*InvoiceReturn, error)
}

// DeliveryReturnRepository defines operations for delivery note returns.
type DeliveryReturnRepository interface {
	Create(ctx context.Context, doc *DeliveryNoteReturn) error
	GetByID(ctx context.Context, docID id.ID) (*DeliveryNoteReturn, error)
	GetByNumber(ctx context.Context, number string) (*DeliveryNoteReturn, error)
	Update(ctx context.Context, doc *DeliveryNoteReturn) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]DeliveryReturnItem, error)
	SaveLines(ctx context.Context, docID id.ID, lines []DeliveryReturnItem) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*DeliveryNoteReturn], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*DeliveryNoteReturn, error)
}

// ListFilter for filtering returns.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	SourceID   *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}

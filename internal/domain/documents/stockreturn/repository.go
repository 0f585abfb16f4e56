package stockreturn

import (
	"context"
	"time"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// Repository defines operations for stock return documents.
type Repository interface {
	Create(ctx context.Context, doc *StockReturn) error
	GetByID(ctx context.Context, docID id.ID) (*StockReturn, error)
	GetByNumber(ctx context.Context, number string) (*StockReturn, error)
	Update(ctx context.Context, doc *StockReturn) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Item, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Item) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockReturn], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*StockReturn, error)
}

// ListFilter for filtering stock returns.
type ListFilter struct {
	domain.ListFilter

	SupplierID     *id.ID
	StockReceiptID *id.ID
	DateFrom       *time.Time
	DateTo         *time.Time
}

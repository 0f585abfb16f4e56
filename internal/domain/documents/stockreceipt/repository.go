package stockreceipt

import (
	"context"
	"time"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// Repository defines operations for stock receipt documents and their
// identity ledgers.
type Repository interface {
	Create(ctx context.Context, doc *StockReceipt) error
	GetByID(ctx context.Context, docID id.ID) (*StockReceipt, error)
	GetByNumber(ctx context.Context, number string) (*StockReceipt, error)
	Update(ctx context.Context, doc *StockReceipt) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Item, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Item) error
	GetItem(ctx context.Context, itemID id.ID) (*Item, error)

	// Serial ledger
	SaveSerials(ctx context.Context, itemID id.ID, serials []SerialNumber) error
	GetSerials(ctx context.Context, itemID id.ID) ([]SerialNumber, error)
	MarkSerialsClaimed(ctx context.Context, serialIDs []id.ID, claimedBy string, claimRef id.ID) error
	ReleaseSerialClaims(ctx context.Context, claimRef id.ID) error

	// Batch ledger
	SaveBatches(ctx context.Context, itemID id.ID, batches []BatchNumber) error
	GetBatches(ctx context.Context, itemID id.ID) ([]BatchNumber, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockReceipt], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*StockReceipt, error)
}

// ListFilter for filtering stock receipts.
type ListFilter struct {
	domain.ListFilter

	SupplierID      *id.ID
	PurchaseOrderID *id.ID
	DateFrom        *time.Time
	DateTo          *time.Time
}

package document_repo

import (
	"context"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/purchaseorder"
	"orderflow/internal/infrastructure/storage/postgres"
)

// PurchaseOrderRepo persists purchase orders and their items.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[*purchaseorder.PurchaseOrder]
	lines *LineStore[purchaseorder.Item]
}

var _ purchaseorder.Repository = (*PurchaseOrderRepo)(nil)

// NewPurchaseOrderRepo creates a purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"purchase_orders",
			postgres.ExtractDBColumns[purchaseorder.PurchaseOrder](),
			func() *purchaseorder.PurchaseOrder { return &purchaseorder.PurchaseOrder{} },
		),
		lines: NewLineStore[purchaseorder.Item](
			txManager,
			"purchase_order_items",
			"purchase_order_id",
			postgres.ExtractDBColumns[purchaseorder.Item](),
		),
	}
}

// GetLines loads the items of a purchase order.
func (r *PurchaseOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]purchaseorder.Item, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a purchase order.
func (r *PurchaseOrderRepo) SaveLines(ctx context.Context, docID id.ID, items []purchaseorder.Item) error {
	return r.lines.Replace(ctx, docID, items)
}

// List retrieves purchase orders with filtering.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter purchaseorder.ListFilter) (domain.ListResult[*purchaseorder.PurchaseOrder], error) {
	preds := eqPred("supplier_id", filter.SupplierID)
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

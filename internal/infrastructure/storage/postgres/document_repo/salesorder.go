package document_repo

import (
	"context"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/salesorder"
	"orderflow/internal/infrastructure/storage/postgres"
)

// SalesOrderRepo persists sales orders and their items.
type SalesOrderRepo struct {
	*BaseDocumentRepo[*salesorder.SalesOrder]
	lines *LineStore[salesorder.Item]
}

var _ salesorder.Repository = (*SalesOrderRepo)(nil)

// NewSalesOrderRepo creates a sales order repository.
func NewSalesOrderRepo(txManager *postgres.TxManager) *SalesOrderRepo {
	return &SalesOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"sales_orders",
			postgres.ExtractDBColumns[salesorder.SalesOrder](),
			func() *salesorder.SalesOrder { return &salesorder.SalesOrder{} },
		),
		lines: NewLineStore[salesorder.Item](
			txManager,
			"sales_order_items",
			"sales_order_id",
			postgres.ExtractDBColumns[salesorder.Item](),
		),
	}
}

// GetLines loads the items of a sales order.
func (r *SalesOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]salesorder.Item, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a sales order.
func (r *SalesOrderRepo) SaveLines(ctx context.Context, docID id.ID, items []salesorder.Item) error {
	return r.lines.Replace(ctx, docID, items)
}

// List retrieves sales orders with filtering.
func (r *SalesOrderRepo) List(ctx context.Context, filter salesorder.ListFilter) (domain.ListResult[*salesorder.SalesOrder], error) {
	preds := eqPred("customer_id", filter.CustomerID)
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

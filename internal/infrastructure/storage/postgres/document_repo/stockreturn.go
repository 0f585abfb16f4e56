package document_repo

import (
	"context"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/stockreturn"
	"orderflow/internal/infrastructure/storage/postgres"
)

// StockReturnRepo persists stock returns and their items.
type StockReturnRepo struct {
	*BaseDocumentRepo[*stockreturn.StockReturn]
	lines *LineStore[stockreturn.Item]
}

var _ stockreturn.Repository = (*StockReturnRepo)(nil)

// NewStockReturnRepo creates a stock return repository.
func NewStockReturnRepo(txManager *postgres.TxManager) *StockReturnRepo {
	return &StockReturnRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"stock_returns",
			postgres.ExtractDBColumns[stockreturn.StockReturn](),
			func() *stockreturn.StockReturn { return &stockreturn.StockReturn{} },
		),
		lines: NewLineStore[stockreturn.Item](
			txManager,
			"stock_return_items",
			"stock_return_id",
			postgres.ExtractDBColumns[stockreturn.Item](),
		),
	}
}

// GetLines loads the items of a stock return.
func (r *StockReturnRepo) GetLines(ctx context.Context, docID id.ID) ([]stockreturn.Item, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a stock return.
func (r *StockReturnRepo) SaveLines(ctx context.Context, docID id.ID, items []stockreturn.Item) error {
	return r.lines.Replace(ctx, docID, items)
}

// List retrieves stock returns with filtering.
func (r *StockReturnRepo) List(ctx context.Context, filter stockreturn.ListFilter) (domain.ListResult[*stockreturn.StockReturn], error) {
	preds := eqPred("supplier_id", filter.SupplierID)
	preds = append(preds, eqPred("stock_receipt_id", filter.StockReceiptID)...)
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

package document_repo

import (
	"context"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/quotation"
	"orderflow/internal/infrastructure/storage/postgres"
)

// QuotationRepo persists quotations and their items.
type QuotationRepo struct {
	*BaseDocumentRepo[*quotation.Quotation]
	lines *LineStore[quotation.Item]
}

var _ quotation.Repository = (*QuotationRepo)(nil)

// NewQuotationRepo creates a quotation repository.
func NewQuotationRepo(txManager *postgres.TxManager) *QuotationRepo {
	return &QuotationRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"quotations",
			postgres.ExtractDBColumns[quotation.Quotation](),
			func() *quotation.Quotation { return &quotation.Quotation{} },
		),
		lines: NewLineStore[quotation.Item](
			txManager,
			"quotation_items",
			"quotation_id",
			postgres.ExtractDBColumns[quotation.Item](),
		),
	}
}

// GetLines loads the items of a quotation.
func (r *QuotationRepo) GetLines(ctx context.Context, docID id.ID) ([]quotation.Item, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a quotation.
func (r *QuotationRepo) SaveLines(ctx context.Context, docID id.ID, items []quotation.Item) error {
	return r.lines.Replace(ctx, docID, items)
}

// List retrieves quotations with filtering.
func (r *QuotationRepo) List(ctx context.Context, filter quotation.ListFilter) (domain.ListResult[*quotation.Quotation], error) {
	preds := eqPred("customer_id", filter.CustomerID)
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

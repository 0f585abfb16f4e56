package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/invoice"
	"orderflow/internal/infrastructure/storage/postgres"
)

// InvoiceRepo persists invoices and their items.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
	lines *LineStore[invoice.Item]
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates an invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"invoices",
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
		lines: NewLineStore[invoice.Item](
			txManager,
			"invoice_items",
			"invoice_id",
			postgres.ExtractDBColumns[invoice.Item](),
		),
	}
}

// GetLines loads the items of an invoice.
func (r *InvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Item, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of an invoice.
func (r *InvoiceRepo) SaveLines(ctx context.Context, docID id.ID, items []invoice.Item) error {
	return r.lines.Replace(ctx, docID, items)
}

// List retrieves invoices with filtering.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	preds := eqPred("customer_id", filter.CustomerID)
	if filter.PaymentStatus != nil {
		preds = append(preds, squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}
	if filter.DueBefore != nil {
		preds = append(preds, squirrel.Lt{"due_date": *filter.DueBefore})
	}
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

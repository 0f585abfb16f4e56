package document_repo

import (
	"context"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/returns"
	"orderflow/internal/infrastructure/storage/postgres"
)

// InvoiceReturnRepo persists invoice returns and their items.
type InvoiceReturnRepo struct {
	*BaseDocumentRepo[*returns.InvoiceReturn]
	lines *LineStore[returns.InvoiceReturnItem]
}

var _ returns.InvoiceReturnRepository = (*InvoiceReturnRepo)(nil)

// NewInvoiceReturnRepo creates an invoice return repository.
func NewInvoiceReturnRepo(txManager *postgres.TxManager) *InvoiceReturnRepo {
	return &InvoiceReturnRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"invoice_returns",
			postgres.ExtractDBColumns[returns.InvoiceReturn](),
			func() *returns.InvoiceReturn { return &returns.InvoiceReturn{} },
		),
		lines: NewLineStore[returns.InvoiceReturnItem](
			txManager,
			"invoice_return_items",
			"invoice_return_id",
			postgres.ExtractDBColumns[returns.InvoiceReturnItem](),
		),
	}
}

// GetLines loads the items of an invoice return.
func (r *InvoiceReturnRepo) GetLines(ctx context.Context, docID id.ID) ([]returns.InvoiceReturnItem, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of an invoice return.
func (r *InvoiceReturnRepo) SaveLines(ctx context.Context, docID id.ID, items []returns.InvoiceReturnItem) error {
	return r.lines.Replace(ctx, docID, items)
}

// List retrieves invoice returns with filtering.
func (r *InvoiceReturnRepo) List(ctx context.Context, filter returns.ListFilter) (domain.ListResult[*returns.InvoiceReturn], error) {
	preds := eqPred("customer_id", filter.CustomerID)
	preds = append(preds, eqPred("invoice_id", filter.SourceID)...)
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

// DeliveryReturnRepo persists delivery note returns and their items.
type DeliveryReturnRepo struct {
	*BaseDocumentRepo[*returns.DeliveryNoteReturn]
	lines *LineStore[returns.DeliveryReturnItem]
}

var _ returns.DeliveryReturnRepository = (*DeliveryReturnRepo)(nil)

// NewDeliveryReturnRepo creates a delivery note return repository.
func NewDeliveryReturnRepo(txManager *postgres.TxManager) *DeliveryReturnRepo {
	return &DeliveryReturnRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"delivery_note_returns",
			postgres.ExtractDBColumns[returns.DeliveryNoteReturn](),
			func() *returns.DeliveryNoteReturn { return &returns.DeliveryNoteReturn{} },
		),
		lines: NewLineStore[returns.DeliveryReturnItem](
			txManager,
			"delivery_note_return_items",
			"delivery_note_return_id",
			postgres.ExtractDBColumns[returns.DeliveryReturnItem](),
		),
	}
}

// GetLines loads the items of a delivery note return.
func (r *DeliveryReturnRepo) GetLines(ctx context.Context, docID id.ID) ([]returns.DeliveryReturnItem, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a delivery note return.
func (r *DeliveryReturnRepo) SaveLines(ctx context.Context, docID id.ID, items []returns.DeliveryReturnItem) error {
	return r.lines.Replace(ctx, docID, items)
}

// List retrieves delivery note returns with filtering.
func (r *DeliveryReturnRepo) List(ctx context.Context, filter returns.ListFilter) (domain.ListResult[*returns.DeliveryNoteReturn], error) {
	preds := eqPred("customer_id", filter.CustomerID)
	preds = append(preds, eqPred("delivery_note_id", filter.SourceID)...)
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

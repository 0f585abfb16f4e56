package document_repo

import (
	"context"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/deliverynote"
	"orderflow/internal/infrastructure/storage/postgres"
)

// DeliveryNoteRepo persists delivery notes and their items.
type DeliveryNoteRepo struct {
	*BaseDocumentRepo[*deliverynote.DeliveryNote]
	lines *LineStore[deliverynote.Item]
}

var _ deliverynote.Repository = (*DeliveryNoteRepo)(nil)

// NewDeliveryNoteRepo creates a delivery note repository.
func NewDeliveryNoteRepo(txManager *postgres.TxManager) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"delivery_notes",
			postgres.ExtractDBColumns[deliverynote.DeliveryNote](),
			func() *deliverynote.DeliveryNote { return &deliverynote.DeliveryNote{} },
		),
		lines: NewLineStore[deliverynote.Item](
			txManager,
			"delivery_note_items",
			"delivery_note_id",
			postgres.ExtractDBColumns[deliverynote.Item](),
		),
	}
}

// GetLines loads the items of a delivery note.
func (r *DeliveryNoteRepo) GetLines(ctx context.Context, docID id.ID) ([]deliverynote.Item, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a delivery note.
func (r *DeliveryNoteRepo) SaveLines(ctx context.Context, docID id.ID, items []deliverynote.Item) error {
	return r.lines.Replace(ctx, docID, items)
}

// List retrieves delivery notes with filtering.
func (r *DeliveryNoteRepo) List(ctx context.Context, filter deliverynote.ListFilter) (domain.ListResult[*deliverynote.DeliveryNote], error) {
	preds := eqPred("customer_id", filter.CustomerID)
	preds = append(preds, eqPred("sales_order_id", filter.SalesOrderID)...)
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

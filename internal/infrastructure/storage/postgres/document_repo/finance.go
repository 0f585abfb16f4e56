package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/finance"
	"orderflow/internal/infrastructure/storage/postgres"
)

// CreditNoteRepo persists credit notes, their items and the refund
// settlement record.
type CreditNoteRepo struct {
	*BaseDocumentRepo[*finance.CreditNote]
	lines *LineStore[finance.NoteItem]

	txManager *postgres.TxManager
}

var _ finance.CreditNoteRepository = (*CreditNoteRepo)(nil)

// NewCreditNoteRepo creates a credit note repository.
func NewCreditNoteRepo(txManager *postgres.TxManager) *CreditNoteRepo {
	return &CreditNoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"credit_notes",
			postgres.ExtractDBColumns[finance.CreditNote](),
			func() *finance.CreditNote { return &finance.CreditNote{} },
		),
		lines: NewLineStore[finance.NoteItem](
			txManager,
			"credit_note_items",
			"credit_note_id",
			postgres.ExtractDBColumns[finance.NoteItem](),
		),
		txManager: txManager,
	}
}

// GetLines loads the items of a credit note.
func (r *CreditNoteRepo) GetLines(ctx context.Context, docID id.ID) ([]finance.NoteItem, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a credit note.
func (r *CreditNoteRepo) SaveLines(ctx context.Context, docID id.ID, items []finance.NoteItem) error {
	return r.lines.Replace(ctx, docID, items)
}

// GetRefund loads the refund record of a credit note.
func (r *CreditNoteRepo) GetRefund(ctx context.Context, docID id.ID) (*finance.Refund, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[finance.Refund]()...).
		From("credit_note_refunds").
		Where(squirrel.Eq{"credit_note_id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	refund := &finance.Refund{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), refund, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("credit_note_refunds", docID.String())
		}
		return nil, fmt.Errorf("get refund: %w", err)
	}
	return refund, nil
}

// SaveRefund replaces the refund record of a credit note. The record
// is one-to-one with the document, keyed by credit_note_id.
func (r *CreditNoteRepo) SaveRefund(ctx context.Context, refund *finance.Refund) error {
	return saveSettlement(ctx, r.txManager, "credit_note_refunds", "credit_note_id", refund.CreditNoteID, refund)
}

// List retrieves credit notes with filtering.
func (r *CreditNoteRepo) List(ctx context.Context, filter finance.ListFilter) (domain.ListResult[*finance.CreditNote], error) {
	preds := eqPred("customer_id", filter.PartyID)
	preds = append(preds, eqPred("invoice_id", filter.SourceID)...)
	if filter.PaymentStatus != "" {
		preds = append(preds, squirrel.Eq{"payment_status": filter.PaymentStatus})
	}
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

// DebitNoteRepo persists debit notes, their items and the recovery
// settlement record.
type DebitNoteRepo struct {
	*BaseDocumentRepo[*finance.DebitNote]
	lines *LineStore[finance.NoteItem]

	txManager *postgres.TxManager
}

var _ finance.DebitNoteRepository = (*DebitNoteRepo)(nil)

// NewDebitNoteRepo creates a debit note repository.
func NewDebitNoteRepo(txManager *postgres.TxManager) *DebitNoteRepo {
	return &DebitNoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"debit_notes",
			postgres.ExtractDBColumns[finance.DebitNote](),
			func() *finance.DebitNote { return &finance.DebitNote{} },
		),
		lines: NewLineStore[finance.NoteItem](
			txManager,
			"debit_note_items",
			"debit_note_id",
			postgres.ExtractDBColumns[finance.NoteItem](),
		),
		txManager: txManager,
	}
}

// GetLines loads the items of a debit note.
func (r *DebitNoteRepo) GetLines(ctx context.Context, docID id.ID) ([]finance.NoteItem, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a debit note.
func (r *DebitNoteRepo) SaveLines(ctx context.Context, docID id.ID, items []finance.NoteItem) error {
	return r.lines.Replace(ctx, docID, items)
}

// GetRecover loads the recovery record of a debit note.
func (r *DebitNoteRepo) GetRecover(ctx context.Context, docID id.ID) (*finance.Recover, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[finance.Recover]()...).
		From("debit_note_recoveries").
		Where(squirrel.Eq{"debit_note_id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	recover := &finance.Recover{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), recover, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("debit_note_recoveries", docID.String())
		}
		return nil, fmt.Errorf("get recover: %w", err)
	}
	return recover, nil
}

// SaveRecover replaces the recovery record of a debit note.
func (r *DebitNoteRepo) SaveRecover(ctx context.Context, recover *finance.Recover) error {
	return saveSettlement(ctx, r.txManager, "debit_note_recoveries", "debit_note_id", recover.DebitNoteID, recover)
}

// List retrieves debit notes with filtering.
func (r *DebitNoteRepo) List(ctx context.Context, filter finance.ListFilter) (domain.ListResult[*finance.DebitNote], error) {
	preds := eqPred("supplier_id", filter.PartyID)
	preds = append(preds, eqPred("purchase_order_id", filter.SourceID)...)
	if filter.PaymentStatus != "" {
		preds = append(preds, squirrel.Eq{"payment_status": filter.PaymentStatus})
	}
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

// saveSettlement deletes and reinserts a one-to-one settlement row
// keyed by its document column.
func saveSettlement[S any](ctx context.Context, txManager *postgres.TxManager, table, docCol string, docID id.ID, record S) error {
	querier := txManager.GetQuerier(ctx)
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	delQ := builder.
		Delete(table).
		Where(squirrel.Eq{docCol: docID})
	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}

	data := postgres.StructToMap(record)
	cols := postgres.ExtractDBColumns[S]()
	filtered := make(map[string]any, len(cols))
	for _, col := range cols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	insQ := builder.
		Insert(table).
		SetMap(filtered)
	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/domain"
	"orderflow/internal/domain/documents/stockreceipt"
	"orderflow/internal/infrastructure/storage/postgres"
)

// StockReceiptRepo persists stock receipts, their items and the
// serial/batch identity ledgers.
type StockReceiptRepo struct {
	*BaseDocumentRepo[*stockreceipt.StockReceipt]
	lines *LineStore[stockreceipt.Item]

	txManager *postgres.TxManager
}

var _ stockreceipt.Repository = (*StockReceiptRepo)(nil)

// NewStockReceiptRepo creates a stock receipt repository.
func NewStockReceiptRepo(txManager *postgres.TxManager) *StockReceiptRepo {
	return &StockReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"stock_receipts",
			postgres.ExtractDBColumns[stockreceipt.StockReceipt](),
			func() *stockreceipt.StockReceipt { return &stockreceipt.StockReceipt{} },
		),
		lines: NewLineStore[stockreceipt.Item](
			txManager,
			"stock_receipt_items",
			"stock_receipt_id",
			postgres.ExtractDBColumns[stockreceipt.Item](),
		),
		txManager: txManager,
	}
}

// GetLines loads the items of a stock receipt.
func (r *StockReceiptRepo) GetLines(ctx context.Context, docID id.ID) ([]stockreceipt.Item, error) {
	return r.lines.Get(ctx, docID)
}

// SaveLines bulk-replaces the items of a stock receipt.
func (r *StockReceiptRepo) SaveLines(ctx context.Context, docID id.ID, items []stockreceipt.Item) error {
	return r.lines.Replace(ctx, docID, items)
}

// GetItem loads a single receipt item by its line id.
func (r *StockReceiptRepo) GetItem(ctx context.Context, itemID id.ID) (*stockreceipt.Item, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[stockreceipt.Item]()...).
		From("stock_receipt_items").
		Where(squirrel.Eq{"line_id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	item := &stockreceipt.Item{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock_receipt_items", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// SaveSerials bulk-replaces the serial ledger of a receipt item. Rows
// without an id get one assigned so claims can reference them.
func (r *StockReceiptRepo) SaveSerials(ctx context.Context, itemID id.ID, serials []stockreceipt.SerialNumber) error {
	querier := r.txManager.GetQuerier(ctx)

	delQ := r.Builder().
		Delete("serial_numbers").
		Where(squirrel.Eq{"receipt_item_id": itemID})
	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete serial_numbers: %w", err)
	}

	for i := range serials {
		s := &serials[i]
		if id.IsNil(s.ID) {
			s.ID = id.New()
		}
		s.ReceiptItemID = itemID

		insQ := r.Builder().
			Insert("serial_numbers").
			Columns("id", "receipt_item_id", "product_id", "serial", "claimed_by", "claim_ref").
			Values(s.ID, s.ReceiptItemID, s.ProductID, s.Serial, s.ClaimedBy, s.ClaimRef)
		sql, args, err := insQ.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert serial_numbers: %w", err)
		}
	}
	return nil
}

// GetSerials loads the serial ledger of a receipt item.
func (r *StockReceiptRepo) GetSerials(ctx context.Context, itemID id.ID) ([]stockreceipt.SerialNumber, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[stockreceipt.SerialNumber]()...).
		From("serial_numbers").
		Where(squirrel.Eq{"receipt_item_id": itemID}).
		OrderBy("serial")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var serials []stockreceipt.SerialNumber
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &serials, sql, args...); err != nil {
		return nil, fmt.Errorf("select serial_numbers: %w", err)
	}
	return serials, nil
}

// MarkSerialsClaimed stamps the claim on the given serial rows. Rows
// already claimed are not overwritten.
func (r *StockReceiptRepo) MarkSerialsClaimed(ctx context.Context, serialIDs []id.ID, claimedBy string, claimRef id.ID) error {
	if len(serialIDs) == 0 {
		return nil
	}

	q := r.Builder().
		Update("serial_numbers").
		Set("claimed_by", claimedBy).
		Set("claim_ref", claimRef).
		Where(squirrel.Eq{"id": serialIDs}).
		Where(squirrel.Eq{"claim_ref": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark serials claimed: %w", err)
	}
	if result.RowsAffected() != int64(len(serialIDs)) {
		return apperror.NewConflict("serial is already claimed").
			WithDetail("claimRef", claimRef.String())
	}
	return nil
}

// ReleaseSerialClaims clears every claim held by the given line.
func (r *StockReceiptRepo) ReleaseSerialClaims(ctx context.Context, claimRef id.ID) error {
	q := r.Builder().
		Update("serial_numbers").
		Set("claimed_by", nil).
		Set("claim_ref", nil).
		Where(squirrel.Eq{"claim_ref": claimRef})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("release serial claims: %w", err)
	}
	return nil
}

// SaveBatches bulk-replaces the batch ledger of a receipt item, batch
// serials included.
func (r *StockReceiptRepo) SaveBatches(ctx context.Context, itemID id.ID, batches []stockreceipt.BatchNumber) error {
	querier := r.txManager.GetQuerier(ctx)

	// Batch serials go first, they reference the batch rows.
	delSerials := r.Builder().
		Delete("batch_serial_numbers").
		Where(squirrel.Expr(
			"batch_id IN (SELECT id FROM batch_numbers WHERE receipt_item_id = ?)", itemID))
	sql, args, err := delSerials.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete batch_serial_numbers: %w", err)
	}

	delBatches := r.Builder().
		Delete("batch_numbers").
		Where(squirrel.Eq{"receipt_item_id": itemID})
	sql, args, err = delBatches.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete batch_numbers: %w", err)
	}

	for i := range batches {
		b := &batches[i]
		if id.IsNil(b.ID) {
			b.ID = id.New()
		}
		b.ReceiptItemID = itemID

		insQ := r.Builder().
			Insert("batch_numbers").
			Columns("id", "receipt_item_id", "batch_no", "quantity", "mfg_date", "expiry_date").
			Values(b.ID, b.ReceiptItemID, b.BatchNo, b.Quantity, b.MfgDate, b.ExpiryDate)
		sql, args, err := insQ.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert batch_numbers: %w", err)
		}

		for j := range b.Serials {
			bs := &b.Serials[j]
			if id.IsNil(bs.ID) {
				bs.ID = id.New()
			}
			bs.BatchID = b.ID

			insBS := r.Builder().
				Insert("batch_serial_numbers").
				Columns("id", "batch_id", "serial").
				Values(bs.ID, bs.BatchID, bs.Serial)
			sql, args, err := insBS.ToSql()
			if err != nil {
				return fmt.Errorf("build insert: %w", err)
			}
			if _, err := querier.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("insert batch_serial_numbers: %w", err)
			}
		}
	}
	return nil
}

// GetBatches loads the batch ledger of a receipt item with batch
// serials attached.
func (r *StockReceiptRepo) GetBatches(ctx context.Context, itemID id.ID) ([]stockreceipt.BatchNumber, error) {
	querier := r.txManager.GetQuerier(ctx)

	q := r.Builder().
		Select(postgres.ExtractDBColumns[stockreceipt.BatchNumber]()...).
		From("batch_numbers").
		Where(squirrel.Eq{"receipt_item_id": itemID}).
		OrderBy("batch_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []stockreceipt.BatchNumber
	if err := pgxscan.Select(ctx, querier, &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("select batch_numbers: %w", err)
	}

	for i := range batches {
		sq := r.Builder().
			Select(postgres.ExtractDBColumns[stockreceipt.BatchSerialNumber]()...).
			From("batch_serial_numbers").
			Where(squirrel.Eq{"batch_id": batches[i].ID}).
			OrderBy("serial")

		sql, args, err := sq.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build query: %w", err)
		}

		var serials []stockreceipt.BatchSerialNumber
		if err := pgxscan.Select(ctx, querier, &serials, sql, args...); err != nil {
			return nil, fmt.Errorf("select batch_serial_numbers: %w", err)
		}
		batches[i].Serials = serials
	}
	return batches, nil
}

// List retrieves stock receipts with filtering.
func (r *StockReceiptRepo) List(ctx context.Context, filter stockreceipt.ListFilter) (domain.ListResult[*stockreceipt.StockReceipt], error) {
	preds := eqPred("supplier_id", filter.SupplierID)
	preds = append(preds, eqPred("purchase_order_id", filter.PurchaseOrderID)...)
	preds = append(preds, datePreds(filter.DateFrom, filter.DateTo)...)
	return r.ListWhere(ctx, filter.ListFilter, preds...)
}

// Package stockreceipt provides the StockReceipt (GRN) document and the
// serial/batch identity ledgers attached to its items.
package stockreceipt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
	"orderflow/internal/core/id"
	"orderflow/internal/core/status"
	"orderflow/internal/core/types"
	"orderflow/internal/domain/catalogs/product"
	"orderflow/internal/domain/pricing"
)

// DocType identifies stock receipts in activity records.
const DocType = "stock_receipt"

// Statuses.
const (
	StatusDraft     status.State = "Draft"
	StatusSubmitted status.State = "Submitted"
	StatusReturned  status.State = "Returned"
	StatusCancelled status.State = "Cancelled"
)

// Actions. mark_returned is applied by the stock return flow.
const (
	ActionSubmit       status.Action = "submit"
	ActionMarkReturned status.Action = "mark_returned"
	ActionCancel       status.Action = "cancel"
)

// Machine is the stock receipt state machine.
var Machine = status.NewMachine(DocType, StatusDraft).
	Allow(ActionSubmit, StatusSubmitted, StatusDraft).
	Allow(ActionMarkReturned, StatusReturned, StatusSubmitted).
	Allow(ActionCancel, StatusCancelled, StatusDraft, StatusSubmitted).
	MarkTerminal(StatusReturned, StatusCancelled)

// StockReceipt represents a goods receipt note from a supplier.
type StockReceipt struct {
	entity.Document

	SupplierID id.ID  `db:"supplier_id" json:"supplierId"`
	Status     string `db:"status" json:"status"`

	// PurchaseOrderID links the receipt to the order being fulfilled
	PurchaseOrderID *id.ID `db:"purchase_order_id" json:"purchaseOrderId,omitempty"`

	// Supplier's delivery reference
	SupplierRef string `db:"supplier_ref" json:"supplierRef,omitempty"`

	Currency string `db:"currency" json:"currency"`

	Items []Item `db:"-" json:"items"`
}

// Item is a stock receipt line. Rejected quantity defaults to
// received minus accepted, floored at zero.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID  `db:"product_id" json:"productId"`
	UOM       string `db:"uom" json:"uom"`

	QtyReceived decimal.Decimal `db:"qty_received" json:"qtyReceived"`
	QtyAccepted decimal.Decimal `db:"qty_accepted" json:"qtyAccepted"`
	QtyRejected decimal.Decimal `db:"qty_rejected" json:"qtyRejected"`

	UnitPrice   types.Money   `db:"unit_price" json:"unitPrice"`
	DiscountPct types.Percent `db:"discount_pct" json:"discountPct"`
	TaxPct      types.Percent `db:"tax_pct" json:"taxPct"`
	Total       types.Money   `db:"total" json:"total"`

	// StockDim selects serial or batch tracking for this line
	StockDim product.StockDim `db:"stock_dim" json:"stockDim"`

	// Identity ledgers, persisted in their own tables
	Serials []SerialNumber `db:"-" json:"serials,omitempty"`
	Batches []BatchNumber  `db:"-" json:"batches,omitempty"`
}

// SerialNumber is one tracked unit received on an item. Claimed rows
// reference the claiming line (delivery note or return item).
type SerialNumber struct {
	ID            id.ID  `db:"id" json:"id"`
	ReceiptItemID id.ID  `db:"receipt_item_id" json:"receiptItemId"`
	ProductID     id.ID  `db:"product_id" json:"productId"`
	Serial        string `db:"serial" json:"serial"`

	ClaimedBy *string `db:"claimed_by" json:"claimedBy,omitempty"`
	ClaimRef  *id.ID  `db:"claim_ref" json:"claimRef,omitempty"`
}

// BatchNumber groups received units into a batch with manufacture and
// expiry dates, optionally exploded into batch serials.
type BatchNumber struct {
	ID            id.ID           `db:"id" json:"id"`
	ReceiptItemID id.ID           `db:"receipt_item_id" json:"receiptItemId"`
	BatchNo       string          `db:"batch_no" json:"batchNo"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	MfgDate       *time.Time      `db:"mfg_date" json:"mfgDate,omitempty"`
	ExpiryDate    *time.Time      `db:"expiry_date" json:"expiryDate,omitempty"`

	Serials []BatchSerialNumber `db:"-" json:"serials,omitempty"`
}

// BatchSerialNumber is one unit inside a batch.
type BatchSerialNumber struct {
	ID      id.ID  `db:"id" json:"id"`
	BatchID id.ID  `db:"batch_id" json:"batchId"`
	Serial  string `db:"serial" json:"serial"`
}

// New creates a stock receipt in Draft.
func New(supplierID id.ID) *StockReceipt {
	return &StockReceipt{
		Document:   entity.NewDocument(),
		SupplierID: supplierID,
		Status:     string(StatusDraft),
		Currency:   "USD",
		Items:      make([]Item, 0),
	}
}

// Normalize fills derived item fields: line numbers, default rejected
// quantity and line totals.
func (r *StockReceipt) Normalize() error {
	for i := range r.Items {
		item := &r.Items[i]
		item.LineNo = i + 1

		if item.QtyRejected.IsZero() {
			rejected := item.QtyReceived.Sub(item.QtyAccepted)
			if rejected.IsNegative() {
				rejected = decimal.Zero
			}
			item.QtyRejected = rejected
		}

		total, err := pricing.LineTotal(item.QtyAccepted, item.UnitPrice, item.DiscountPct, item.TaxPct)
		if err != nil {
			return err
		}
		item.Total = total
	}
	return nil
}

// Validate implements entity.Validatable.
func (r *StockReceipt) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range r.Items {
		lineNo := i + 1
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", lineNo)
		}
		if item.QtyReceived.LessThanOrEqual(decimal.Zero) {
			return apperror.NewValidation("received quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", lineNo)
		}
		if item.QtyAccepted.IsNegative() || item.QtyAccepted.GreaterThan(item.QtyReceived) {
			return apperror.NewValidation("accepted quantity must be between 0 and received quantity").
				WithDetail("field", "items").
				WithDetail("lineNo", lineNo)
		}

		switch item.StockDim {
		case product.DimNone:
			if len(item.Serials) > 0 || len(item.Batches) > 0 {
				return apperror.NewValidation("untracked item cannot carry serials or batches").
					WithDetail("field", "items").
					WithDetail("lineNo", lineNo)
			}
		case product.DimSerial:
			if len(item.Batches) > 0 {
				return apperror.NewValidation("serial-tracked item cannot carry batches").
					WithDetail("field", "items").
					WithDetail("lineNo", lineNo)
			}
		case product.DimBatch:
			if len(item.Serials) > 0 {
				return apperror.NewValidation("batch-tracked item cannot carry loose serials").
					WithDetail("field", "items").
					WithDetail("lineNo", lineNo)
			}
		default:
			return apperror.NewValidation("invalid stock dimension").
				WithDetail("field", "items").
				WithDetail("lineNo", lineNo).
				WithDetail("value", string(item.StockDim))
		}
	}

	return nil
}

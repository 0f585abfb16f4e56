// Package stockreturn provides the StockReturn (SRN) document.
// A stock return sends rejected goods from a stock receipt back to the
// supplier; returned quantities are bounded by the rejected quantity of
// the source receipt item.
package stockreturn

import (
	"context"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
	"orderflow/internal/core/id"
	"orderflow/internal/core/status"
	"orderflow/internal/core/types"
	"orderflow/internal/domain/pricing"
)

// DocType identifies stock returns in activity records.
const DocType = "stock_return"

// Statuses.
const (
	StatusDraft     status.State = "Draft"
	StatusSubmitted status.State = "Submitted"
	StatusCancelled status.State = "Cancelled"
)

// Actions.
const (
	ActionSaveDraft status.Action = "save_draft"
	ActionSubmit    status.Action = "submit"
	ActionCancel    status.Action = "cancel"
)

// Machine is the stock return state machine.
var Machine = status.NewMachine(DocType, StatusDraft).
	Allow(ActionSaveDraft, StatusDraft, StatusDraft).
	Allow(ActionSubmit, StatusSubmitted, StatusDraft).
	Allow(ActionCancel, StatusCancelled, StatusDraft, StatusSubmitted).
	MarkTerminal(StatusCancelled)

// StockReturn represents a return of received goods to the supplier.
type StockReturn struct {
	entity.Document

	SupplierID id.ID  `db:"supplier_id" json:"supplierId"`
	Status     string `db:"status" json:"status"`

	PurchaseOrderID *id.ID `db:"purchase_order_id" json:"purchaseOrderId,omitempty"`
	StockReceiptID  id.ID  `db:"stock_receipt_id" json:"stockReceiptId"`

	Currency string `db:"currency" json:"currency"`

	// Roll-up inputs and stored totals
	GlobalDiscountPct types.Percent `db:"global_discount_pct" json:"globalDiscountPct"`
	RoundingAdj       types.Money   `db:"rounding_adj" json:"roundingAdj"`
	Subtotal          types.Money   `db:"subtotal" json:"subtotal"`
	DiscountAmount    types.Money   `db:"discount_amount" json:"discountAmount"`
	AmountToRecover   types.Money   `db:"amount_to_recover" json:"amountToRecover"`

	Items []Item `db:"-" json:"items"`
}

// Item is a stock return line. Product, UOM and pricing default from
// the source receipt item when omitted.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ReceiptItemID id.ID  `db:"receipt_item_id" json:"receiptItemId"`
	ProductID     id.ID  `db:"product_id" json:"productId"`
	UOM           string `db:"uom" json:"uom"`

	QtyReturned decimal.Decimal `db:"qty_returned" json:"qtyReturned"`

	UnitPrice   types.Money   `db:"unit_price" json:"unitPrice"`
	DiscountPct types.Percent `db:"discount_pct" json:"discountPct"`
	TaxPct      types.Percent `db:"tax_pct" json:"taxPct"`
	Total       types.Money   `db:"total" json:"total"`

	// SerialIDs claim specific serials back from the receipt ledger
	SerialIDs []id.ID `db:"-" json:"serialIds,omitempty"`
}

// New creates a stock return in Draft.
func New(supplierID, stockReceiptID id.ID) *StockReturn {
	return &StockReturn{
		Document:       entity.NewDocument(),
		SupplierID:     supplierID,
		StockReceiptID: stockReceiptID,
		Status:         string(StatusDraft),
		Currency:       "USD",
		Items:          make([]Item, 0),
	}
}

// Recalculate recomputes item totals and the return roll-up.
func (r *StockReturn) Recalculate() error {
	itemTotals := make([]types.Money, 0, len(r.Items))
	for i := range r.Items {
		total, err := pricing.LineTotal(r.Items[i].QtyReturned, r.Items[i].UnitPrice, r.Items[i].DiscountPct, r.Items[i].TaxPct)
		if err != nil {
			return err
		}
		r.Items[i].LineNo = i + 1
		r.Items[i].Total = total
		itemTotals = append(itemTotals, total)
	}

	sum, err := pricing.SummarizeReturn(itemTotals, r.GlobalDiscountPct, r.RoundingAdj)
	if err != nil {
		return err
	}
	r.Subtotal = sum.Subtotal
	r.DiscountAmount = sum.DiscountAmount
	r.AmountToRecover = sum.AmountToRefund
	return nil
}

// Validate implements entity.Validatable.
func (r *StockReturn) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if id.IsNil(r.StockReceiptID) {
		return apperror.NewValidation("stock receipt is required").
			WithDetail("field", "stockReceiptId")
	}

	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range r.Items {
		lineNo := i + 1
		if id.IsNil(item.ReceiptItemID) {
			return apperror.NewValidation("receipt item is required").
				WithDetail("field", "items").
				WithDetail("lineNo", lineNo)
		}
		if item.QtyReturned.LessThanOrEqual(decimal.Zero) {
			return apperror.NewValidation("returned quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", lineNo)
		}
	}

	return nil
}

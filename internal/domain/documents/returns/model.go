// Package returns provides the InvoiceReturn and DeliveryNoteReturn
// documents. They mirror the forward sales chain: an invoice return
// takes billed goods back, a delivery note return records the physical
// flow and flips the source delivery note to Returned.
package returns

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

// Document type identifiers for activity records.
const (
	InvoiceReturnDocType  = "invoice_return"
	DeliveryReturnDocType = "delivery_note_return"
)

// Statuses, shared by both return types.
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

func returnMachine(docType string) *status.Machine {
	return status.NewMachine(docType, StatusDraft).
		Allow(ActionSaveDraft, StatusDraft, StatusDraft).
		Allow(ActionSubmit, StatusSubmitted, StatusDraft).
		Allow(ActionCancel, StatusCancelled, StatusDraft, StatusSubmitted).
		MarkTerminal(StatusCancelled)
}

// InvoiceReturnMachine and DeliveryReturnMachine share the same shape.
var (
	InvoiceReturnMachine  = returnMachine(InvoiceReturnDocType)
	DeliveryReturnMachine = returnMachine(DeliveryReturnDocType)
)

// InvoiceReturn takes billed goods back against a specific invoice.
type InvoiceReturn struct {
	entity.Document

	CustomerID id.ID  `db:"customer_id" json:"customerId"`
	InvoiceID  id.ID  `db:"invoice_id" json:"invoiceId"`
	Status     string `db:"status" json:"status"`

	Currency string `db:"currency" json:"currency"`

	// Roll-up inputs and the stored InvoiceReturnSummary
	GlobalDiscountPct types.Percent `db:"global_discount_pct" json:"globalDiscountPct"`
	RoundingAdj       types.Money   `db:"rounding_adj" json:"roundingAdj"`
	Subtotal          types.Money   `db:"subtotal" json:"subtotal"`
	DiscountAmount    types.Money   `db:"discount_amount" json:"discountAmount"`
	AmountToRefund    types.Money   `db:"amount_to_refund" json:"amountToRefund"`

	Items []InvoiceReturnItem `db:"-" json:"items"`
}

// InvoiceReturnItem is one returned invoice line.
type InvoiceReturnItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// InvoiceItemID is the billed line this return draws from
	InvoiceItemID id.ID `db:"invoice_item_id" json:"invoiceItemId"`
	ProductID     id.ID `db:"product_id" json:"productId"`

	QtyReturned decimal.Decimal `db:"qty_returned" json:"qtyReturned"`

	UnitPrice   types.Money   `db:"unit_price" json:"unitPrice"`
	DiscountPct types.Percent `db:"discount_pct" json:"discountPct"`
	TaxPct      types.Percent `db:"tax_pct" json:"taxPct"`
	Total       types.Money   `db:"total" json:"total"`
}

// NewInvoiceReturn creates an invoice return in Draft.
func NewInvoiceReturn(customerID, invoiceID id.ID) *InvoiceReturn {
	return &InvoiceReturn{
		Document:   entity.NewDocument(),
		CustomerID: customerID,
		InvoiceID:  invoiceID,
		Status:     string(StatusDraft),
		Currency:   "USD",
		Items:      make([]InvoiceReturnItem, 0),
	}
}

// Recalculate recomputes item totals and the refund roll-up.
func (r *InvoiceReturn) Recalculate() error {
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
	r.AmountToRefund = sum.AmountToRefund
	return nil
}

// Validate implements entity.Validatable.
func (r *InvoiceReturn) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if id.IsNil(r.InvoiceID) {
		return apperror.NewValidation("invoice is required").
			WithDetail("field", "invoiceId")
	}

	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range r.Items {
		lineNo := i + 1
		if id.IsNil(item.InvoiceItemID) {
			return apperror.NewValidation("invoice item is required").
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

// DeliveryNoteReturn records goods physically coming back against a
// delivery note, usually spawned from a submitted invoice return.
type DeliveryNoteReturn struct {
	entity.Document

	CustomerID     id.ID  `db:"customer_id" json:"customerId"`
	DeliveryNoteID id.ID  `db:"delivery_note_id" json:"deliveryNoteId"`
	Status         string `db:"status" json:"status"`

	// InvoiceReturnID links back to the financial return when converted
	InvoiceReturnID *id.ID `db:"invoice_return_id" json:"invoiceReturnId,omitempty"`

	Items []DeliveryReturnItem `db:"-" json:"items"`
}

// DeliveryReturnItem is one physically returned line.
type DeliveryReturnItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID           `db:"product_id" json:"productId"`
	QtyReturned decimal.Decimal `db:"qty_returned" json:"qtyReturned"`
}

// NewDeliveryNoteReturn creates a delivery note return in Draft.
func NewDeliveryNoteReturn(customerID, deliveryNoteID id.ID) *DeliveryNoteReturn {
	return &DeliveryNoteReturn{
		Document:       entity.NewDocument(),
		CustomerID:     customerID,
		DeliveryNoteID: deliveryNoteID,
		Status:         string(StatusDraft),
		Items:          make([]DeliveryReturnItem, 0),
	}
}

// Validate implements entity.Validatable.
func (r *DeliveryNoteReturn) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if id.IsNil(r.DeliveryNoteID) {
		return apperror.NewValidation("delivery note is required").
			WithDetail("field", "deliveryNoteId")
	}

	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range r.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.QtyReturned.LessThanOrEqual(decimal.Zero) {
			return apperror.NewValidation("returned quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// Package invoice provides the Invoice document.
// The invoice carries a one-to-one OrderSummary roll-up and an
// independent payment status next to the invoice status.
package invoice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
	"orderflow/internal/core/id"
	"orderflow/internal/core/status"
	"orderflow/internal/core/types"
	"orderflow/internal/domain/pricing"
)

// DocType identifies invoices in activity records.
const DocType = "invoice"

// Invoice statuses.
const (
	StatusDraft     status.State = "Draft"
	StatusSent      status.State = "Sent"
	StatusPaid      status.State = "Paid"
	StatusOverdue   status.State = "Overdue"
	StatusCancelled status.State = "Cancelled"
)

// Payment statuses, independent of the invoice status.
const (
	PaymentUnpaid  = "Unpaid"
	PaymentPartial = "Partial"
	PaymentPaid    = "Paid"
)

// Actions. cancel_invoice is a hard delete handled by the service.
const (
	ActionSaveDraft   status.Action = "save_draft"
	ActionSendInvoice status.Action = "send_invoice"
	ActionMarkOverdue status.Action = "mark_overdue"
	ActionMarkAsPaid  status.Action = "mark_as_paid"
	ActionCancel      status.Action = "cancel"
)

// Machine is the invoice state machine. mark_as_paid also flips the
// payment status, which the service handles alongside the transition.
var Machine = status.NewMachine(DocType, StatusDraft).
	Allow(ActionSaveDraft, StatusDraft, StatusDraft).
	Allow(ActionSendInvoice, StatusSent, StatusDraft).
	Allow(ActionMarkOverdue, StatusOverdue, StatusSent).
	Allow(ActionMarkAsPaid, StatusPaid, StatusSent, StatusOverdue).
	Allow(ActionCancel, StatusCancelled, StatusDraft, StatusSent, StatusOverdue).
	MarkTerminal(StatusPaid, StatusCancelled)

// Invoice represents a customer invoice.
type Invoice struct {
	entity.Document

	CustomerID    id.ID  `db:"customer_id" json:"customerId"`
	Status        string `db:"status" json:"status"`
	PaymentStatus string `db:"payment_status" json:"paymentStatus"`

	DueDate      time.Time `db:"due_date" json:"dueDate"`
	Currency     string    `db:"currency" json:"currency"`
	PaymentTerms string    `db:"payment_terms" json:"paymentTerms,omitempty"`

	BillingAddress  string `db:"billing_address" json:"billingAddress,omitempty"`
	ShippingAddress string `db:"shipping_address" json:"shippingAddress,omitempty"`

	// Source references when the invoice was spawned by conversion
	SalesOrderID   *id.ID `db:"sales_order_id" json:"salesOrderId,omitempty"`
	DeliveryNoteID *id.ID `db:"delivery_note_id" json:"deliveryNoteId,omitempty"`

	// Summary inputs
	GlobalDiscountPct types.Percent `db:"global_discount_pct" json:"globalDiscountPct"`
	ShippingCharges   types.Money   `db:"shipping_charges" json:"shippingCharges"`
	RoundingAdj       types.Money   `db:"rounding_adj" json:"roundingAdj"`
	CreditApplied     types.Money   `db:"credit_applied" json:"creditApplied"`
	AmountPaid        types.Money   `db:"amount_paid" json:"amountPaid"`

	// OrderSummary roll-up, recomputed from the live item set
	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	TaxAmount      types.Money `db:"tax_amount" json:"taxAmount"`
	GrandTotal     types.Money `db:"grand_total" json:"grandTotal"`
	BalanceDue     types.Money `db:"balance_due" json:"balanceDue"`

	Items []Item `db:"-" json:"items"`
}

// Item is an invoice line.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   types.Money     `db:"unit_price" json:"unitPrice"`
	DiscountPct types.Percent   `db:"discount_pct" json:"discountPct"`
	TaxPct      types.Percent   `db:"tax_pct" json:"taxPct"`

	Total types.Money `db:"total" json:"total"`

	// ReturnedQty tracks quantity already taken back via invoice returns
	ReturnedQty decimal.Decimal `db:"returned_qty" json:"returnedQty"`
}

// New creates an invoice in Draft with Net 30 terms.
func New(customerID id.ID) *Invoice {
	now := time.Now().UTC()
	return &Invoice{
		Document:      entity.NewDocument(),
		CustomerID:    customerID,
		Status:        string(StatusDraft),
		PaymentStatus: PaymentUnpaid,
		DueDate:       now.AddDate(0, 0, 30),
		Currency:      "USD",
		PaymentTerms:  "Net 30",
		Items:         make([]Item, 0),
	}
}

// Recalculate recomputes item totals and the OrderSummary roll-up.
func (inv *Invoice) Recalculate() error {
	lines := make([]pricing.Line, 0, len(inv.Items))
	for i := range inv.Items {
		total, err := pricing.LineTotal(inv.Items[i].Quantity, inv.Items[i].UnitPrice, inv.Items[i].DiscountPct, inv.Items[i].TaxPct)
		if err != nil {
			return err
		}
		inv.Items[i].LineNo = i + 1
		inv.Items[i].Total = total
		lines = append(lines, pricing.Line{Total: total, TaxPct: inv.Items[i].TaxPct})
	}

	sum, err := pricing.Summarize(lines, pricing.SummaryInput{
		GlobalDiscountPct: inv.GlobalDiscountPct,
		Shipping:          inv.ShippingCharges,
		Rounding:          inv.RoundingAdj,
		CreditApplied:     inv.CreditApplied,
		AmountPaid:        inv.AmountPaid,
	})
	if err != nil {
		return err
	}

	inv.Subtotal = sum.Subtotal
	inv.DiscountAmount = sum.DiscountAmount
	inv.TaxAmount = sum.TaxAmount
	inv.GrandTotal = sum.GrandTotal
	inv.BalanceDue = sum.BalanceDue
	return nil
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(inv.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	switch inv.PaymentStatus {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
	default:
		return apperror.NewValidation("invalid payment status").
			WithDetail("field", "paymentStatus").
			WithDetail("value", inv.PaymentStatus)
	}

	if len(inv.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range inv.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.ReturnedQty.GreaterThan(item.Quantity) {
			return apperror.NewValidation("returned quantity cannot exceed invoiced quantity").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

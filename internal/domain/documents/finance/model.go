// Package finance provides the CreditNote and DebitNote documents.
// A credit note settles money owed back to a customer after an invoice
// return; a debit note recovers money from a supplier after a purchase
// return. Both carry a one-to-one settlement record next to the items.
package finance

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

// Document type identifiers for activity records.
const (
	CreditNoteDocType = "credit_note"
	DebitNoteDocType  = "debit_note"
)

// Credit note statuses mirror invoice statuses.
const (
	StatusDraft     status.State = "Draft"
	StatusSent      status.State = "Sent"
	StatusPaid      status.State = "Paid"
	StatusOverdue   status.State = "Overdue"
	StatusCancelled status.State = "Cancelled"
)

// Payment statuses, shared by both note types.
const (
	PaymentUnpaid  = "Unpaid"
	PaymentPartial = "Partial"
	PaymentPaid    = "Paid"
)

// Actions. delete_credit_note and delete_debit_note are hard deletes
// handled by the services, not transitions.
const (
	ActionSaveDraft     status.Action = "save_draft"
	ActionMarkAsPaid    status.Action = "mark_as_paid"
	ActionMarkAsSettled status.Action = "mark_as_settled"
	ActionCancel        status.Action = "cancel"
)

// CreditNoteMachine mirrors the invoice lifecycle. mark_as_paid also
// flips the payment status, which the service handles alongside the
// transition.
var CreditNoteMachine = status.NewMachine(CreditNoteDocType, StatusDraft).
	Allow(ActionSaveDraft, StatusDraft, StatusDraft).
	Allow(ActionMarkAsPaid, StatusPaid, StatusDraft, StatusSent, StatusOverdue).
	Allow(ActionCancel, StatusCancelled, StatusDraft, StatusSent, StatusOverdue).
	MarkTerminal(StatusPaid, StatusCancelled)

// DebitNoteMachine tracks only Draft and Cancelled. Settlement lives in
// the payment status; mark_as_settled keeps the document state.
var DebitNoteMachine = status.NewMachine(DebitNoteDocType, StatusDraft).
	Allow(ActionSaveDraft, StatusDraft, StatusDraft).
	Allow(ActionMarkAsSettled, status.KeepCurrent, StatusDraft).
	Allow(ActionCancel, StatusCancelled, StatusDraft).
	MarkTerminal(StatusCancelled)

// CreditNote records money owed back to a customer against an invoice.
type CreditNote struct {
	entity.Document

	CustomerID id.ID  `db:"customer_id" json:"customerId"`
	InvoiceID  id.ID  `db:"invoice_id" json:"invoiceId"`
	Status     string `db:"status" json:"status"`

	PaymentStatus string `db:"payment_status" json:"paymentStatus"`

	Currency       string `db:"currency" json:"currency"`
	BillingAddress string `db:"billing_address" json:"billingAddress,omitempty"`
	PhoneNumber    string `db:"phone_number" json:"phoneNumber,omitempty"`

	InvoiceDate  time.Time `db:"invoice_date" json:"invoiceDate"`
	DueDate      time.Time `db:"due_date" json:"dueDate"`
	PaymentTerms string    `db:"payment_terms" json:"paymentTerms,omitempty"`

	Total types.Money `db:"total" json:"total"`

	Items  []NoteItem `db:"-" json:"items"`
	Refund *Refund    `db:"-" json:"refund,omitempty"`
}

// DebitNote records money to recover from a supplier against a
// purchase order.
type DebitNote struct {
	entity.Document

	SupplierID      id.ID  `db:"supplier_id" json:"supplierId"`
	PurchaseOrderID id.ID  `db:"purchase_order_id" json:"purchaseOrderId"`
	Status          string `db:"status" json:"status"`

	PaymentStatus string `db:"payment_status" json:"paymentStatus"`

	Currency string `db:"currency" json:"currency"`

	PODate       time.Time       `db:"po_date" json:"poDate"`
	DueDate      time.Time       `db:"due_date" json:"dueDate"`
	PaymentTerms string          `db:"payment_terms" json:"paymentTerms,omitempty"`
	IncoTerms    string          `db:"inco_terms" json:"incoTerms,omitempty"`
	CreditLimit  decimal.Decimal `db:"credit_limit" json:"creditLimit"`

	Total types.Money `db:"total" json:"total"`

	Items   []NoteItem `db:"-" json:"items"`
	Recover *Recover   `db:"-" json:"recover,omitempty"`
}

// NoteItem is one returned line on a credit or debit note.
type NoteItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID  `db:"product_id" json:"productId"`
	UOM       string `db:"uom" json:"uom,omitempty"`

	ReturnedQty  decimal.Decimal `db:"returned_qty" json:"returnedQty"`
	ReturnReason string          `db:"return_reason" json:"returnReason,omitempty"`

	UnitPrice   types.Money   `db:"unit_price" json:"unitPrice"`
	DiscountPct types.Percent `db:"discount_pct" json:"discountPct"`
	TaxPct      types.Percent `db:"tax_pct" json:"taxPct"`
	Total       types.Money   `db:"total" json:"total"`
}

// Refund is the one-to-one settlement record of a credit note.
type Refund struct {
	ID           id.ID `db:"id" json:"id"`
	CreditNoteID id.ID `db:"credit_note_id" json:"creditNoteId"`

	AmountPaidByCustomer types.Money `db:"amount_paid_by_customer" json:"amountPaidByCustomer"`
	BalanceDueByCustomer types.Money `db:"balance_due_by_customer" json:"balanceDueByCustomer"`
	InvoiceReturnAmount  types.Money `db:"invoice_return_amount" json:"invoiceReturnAmount"`
	BalanceToRefund      types.Money `db:"balance_to_refund" json:"balanceToRefund"`

	RefundMode string     `db:"refund_mode" json:"refundMode,omitempty"`
	RefundPaid bool       `db:"refund_paid" json:"refundPaid"`
	RefundDate *time.Time `db:"refund_date" json:"refundDate,omitempty"`

	AdjustedInvoiceRef string `db:"adjusted_invoice_ref" json:"adjustedInvoiceRef,omitempty"`
}

// Recover is the one-to-one settlement record of a debit note.
type Recover struct {
	ID          id.ID `db:"id" json:"id"`
	DebitNoteID id.ID `db:"debit_note_id" json:"debitNoteId"`

	AmountPaidToVendor   types.Money `db:"amount_paid_to_vendor" json:"amountPaidToVendor"`
	BalanceDueToVendor   types.Money `db:"balance_due_to_vendor" json:"balanceDueToVendor"`
	PurchaseReturnAmount types.Money `db:"purchase_return_amount" json:"purchaseReturnAmount"`
	BalanceToRecover     types.Money `db:"balance_to_recover" json:"balanceToRecover"`

	RefundMode     string     `db:"refund_mode" json:"refundMode,omitempty"`
	RefundReceived bool       `db:"refund_received" json:"refundReceived"`
	RefundDate     *time.Time `db:"refund_date" json:"refundDate,omitempty"`

	AdjustedInvoiceRef string `db:"adjusted_invoice_ref" json:"adjustedInvoiceRef,omitempty"`
}

// NewCreditNote creates a credit note in Draft.
func NewCreditNote(customerID, invoiceID id.ID) *CreditNote {
	return &CreditNote{
		Document:      entity.NewDocument(),
		CustomerID:    customerID,
		InvoiceID:     invoiceID,
		Status:        string(StatusDraft),
		PaymentStatus: PaymentUnpaid,
		Currency:      "USD",
		Items:         make([]NoteItem, 0),
	}
}

// NewDebitNote creates a debit note in Draft.
func NewDebitNote(supplierID, purchaseOrderID id.ID) *DebitNote {
	return &DebitNote{
		Document:        entity.NewDocument(),
		SupplierID:      supplierID,
		PurchaseOrderID: purchaseOrderID,
		Status:          string(StatusDraft),
		PaymentStatus:   PaymentUnpaid,
		Currency:        "USD",
		Items:           make([]NoteItem, 0),
	}
}

func recalcItems(items []NoteItem) (types.Money, error) {
	total := decimal.Zero
	for i := range items {
		lineTotal, err := pricing.LineTotal(items[i].ReturnedQty, items[i].UnitPrice, items[i].DiscountPct, items[i].TaxPct)
		if err != nil {
			return decimal.Zero, err
		}
		items[i].LineNo = i + 1
		items[i].Total = lineTotal
		total = total.Add(lineTotal)
	}
	return total, nil
}

func validateItems(items []NoteItem) error {
	if len(items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for i, item := range items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.ReturnedQty.LessThanOrEqual(decimal.Zero) {
			return apperror.NewValidation("returned quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}

func validatePaymentStatus(s string) error {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return nil
	default:
		return apperror.NewValidation("invalid payment status").
			WithDetail("field", "paymentStatus").
			WithDetail("value", s)
	}
}

// Recalculate recomputes item totals and the note total.
func (n *CreditNote) Recalculate() error {
	total, err := recalcItems(n.Items)
	if err != nil {
		return err
	}
	n.Total = total
	if n.Refund != nil {
		n.Refund.BalanceToRefund = n.Refund.InvoiceReturnAmount.Sub(n.Refund.AmountPaidByCustomer).Round(2)
	}
	return nil
}

// Validate implements entity.Validatable.
func (n *CreditNote) Validate(ctx context.Context) error {
	if err := n.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(n.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if id.IsNil(n.InvoiceID) {
		return apperror.NewValidation("invoice is required").
			WithDetail("field", "invoiceId")
	}
	if err := validatePaymentStatus(n.PaymentStatus); err != nil {
		return err
	}
	return validateItems(n.Items)
}

// Recalculate recomputes item totals and the note total.
func (n *DebitNote) Recalculate() error {
	total, err := recalcItems(n.Items)
	if err != nil {
		return err
	}
	n.Total = total
	if n.Recover != nil {
		n.Recover.BalanceToRecover = n.Recover.PurchaseReturnAmount.Sub(n.Recover.AmountPaidToVendor).Round(2)
	}
	return nil
}

// Validate implements entity.Validatable.
func (n *DebitNote) Validate(ctx context.Context) error {
	if err := n.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(n.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if id.IsNil(n.PurchaseOrderID) {
		return apperror.NewValidation("purchase order is required").
			WithDetail("field", "purchaseOrderId")
	}
	if err := validatePaymentStatus(n.PaymentStatus); err != nil {
		return err
	}
	return validateItems(n.Items)
}

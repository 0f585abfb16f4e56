package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/documents/finance"
)

// NoteItemRequest is one credit or debit note line.
type NoteItemRequest struct {
	ProductID    id.ID           `json:"productId" binding:"required"`
	UOM          string          `json:"uom"`
	ReturnedQty  decimal.Decimal `json:"returnedQty" binding:"required"`
	ReturnReason string          `json:"returnReason"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	DiscountPct  decimal.Decimal `json:"discountPct"`
	TaxPct       decimal.Decimal `json:"taxPct"`
}

func (r NoteItemRequest) toItem() finance.NoteItem {
	return finance.NoteItem{
		LineID:       id.New(),
		ProductID:    r.ProductID,
		UOM:          r.UOM,
		ReturnedQty:  r.ReturnedQty,
		ReturnReason: r.ReturnReason,
		UnitPrice:    r.UnitPrice,
		DiscountPct:  r.DiscountPct,
		TaxPct:       r.TaxPct,
	}
}

// RefundRequest carries the settlement block of a credit note.
type RefundRequest struct {
	AmountPaidByCustomer decimal.Decimal `json:"amountPaidByCustomer"`
	BalanceDueByCustomer decimal.Decimal `json:"balanceDueByCustomer"`
	InvoiceReturnAmount  decimal.Decimal `json:"invoiceReturnAmount"`
	RefundMode           string          `json:"refundMode"`
	RefundPaid           bool            `json:"refundPaid"`
	RefundDate           *time.Time      `json:"refundDate"`
	AdjustedInvoiceRef   string          `json:"adjustedInvoiceRef"`
}

func (r *RefundRequest) toRefund(creditNoteID id.ID) *finance.Refund {
	if r == nil {
		return nil
	}
	return &finance.Refund{
		ID:                   id.New(),
		CreditNoteID:         creditNoteID,
		AmountPaidByCustomer: r.AmountPaidByCustomer,
		BalanceDueByCustomer: r.BalanceDueByCustomer,
		InvoiceReturnAmount:  r.InvoiceReturnAmount,
		RefundMode:           r.RefundMode,
		RefundPaid:           r.RefundPaid,
		RefundDate:           r.RefundDate,
		AdjustedInvoiceRef:   r.AdjustedInvoiceRef,
	}
}

// RecoverRequest carries the settlement block of a debit note.
type RecoverRequest struct {
	AmountPaidToVendor   decimal.Decimal `json:"amountPaidToVendor"`
	BalanceDueToVendor   decimal.Decimal `json:"balanceDueToVendor"`
	PurchaseReturnAmount decimal.Decimal `json:"purchaseReturnAmount"`
	RefundMode           string          `json:"refundMode"`
	RefundReceived       bool            `json:"refundReceived"`
	RefundDate           *time.Time      `json:"refundDate"`
	AdjustedInvoiceRef   string          `json:"adjustedInvoiceRef"`
}

func (r *RecoverRequest) toRecover(debitNoteID id.ID) *finance.Recover {
	if r == nil {
		return nil
	}
	return &finance.Recover{
		ID:                   id.New(),
		DebitNoteID:          debitNoteID,
		AmountPaidToVendor:   r.AmountPaidToVendor,
		BalanceDueToVendor:   r.BalanceDueToVendor,
		PurchaseReturnAmount: r.PurchaseReturnAmount,
		RefundMode:           r.RefundMode,
		RefundReceived:       r.RefundReceived,
		RefundDate:           r.RefundDate,
		AdjustedInvoiceRef:   r.AdjustedInvoiceRef,
	}
}

// --- Credit note ---

// CreateCreditNoteRequest creates a credit note in Draft.
type CreateCreditNoteRequest struct {
	CustomerID     id.ID             `json:"customerId" binding:"required"`
	InvoiceID      id.ID             `json:"invoiceId" binding:"required"`
	Date           *time.Time        `json:"date"`
	Currency       string            `json:"currency"`
	BillingAddress string            `json:"billingAddress"`
	PhoneNumber    string            `json:"phoneNumber"`
	InvoiceDate    *time.Time        `json:"invoiceDate"`
	DueDate        *time.Time        `json:"dueDate"`
	PaymentTerms   string            `json:"paymentTerms"`
	Comment        string            `json:"comment"`
	Items          []NoteItemRequest `json:"items" binding:"required,min=1"`
	Refund         *RefundRequest    `json:"refund"`
}

// ToModel maps the request onto a new credit note.
func (r CreateCreditNoteRequest) ToModel() *finance.CreditNote {
	cn := finance.NewCreditNote(r.CustomerID, r.InvoiceID)
	if r.Date != nil {
		cn.Date = *r.Date
	}
	if r.Currency != "" {
		cn.Currency = r.Currency
	}
	cn.BillingAddress = r.BillingAddress
	cn.PhoneNumber = r.PhoneNumber
	if r.InvoiceDate != nil {
		cn.InvoiceDate = *r.InvoiceDate
	}
	if r.DueDate != nil {
		cn.DueDate = *r.DueDate
	}
	cn.PaymentTerms = r.PaymentTerms
	cn.Comment = r.Comment
	for _, item := range r.Items {
		cn.Items = append(cn.Items, item.toItem())
	}
	cn.Refund = r.Refund.toRefund(cn.ID)
	return cn
}

// UpdateCreditNoteRequest replaces the editable fields of a Draft
// credit note.
type UpdateCreditNoteRequest struct {
	Date           *time.Time        `json:"date"`
	Currency       string            `json:"currency"`
	BillingAddress string            `json:"billingAddress"`
	PhoneNumber    string            `json:"phoneNumber"`
	DueDate        *time.Time        `json:"dueDate"`
	PaymentTerms   string            `json:"paymentTerms"`
	Comment        string            `json:"comment"`
	Items          []NoteItemRequest `json:"items" binding:"required,min=1"`
	Refund         *RefundRequest    `json:"refund"`
}

// Apply overlays the request onto the existing credit note.
func (r UpdateCreditNoteRequest) Apply(cn *finance.CreditNote) *finance.CreditNote {
	if r.Date != nil {
		cn.Date = *r.Date
	}
	if r.Currency != "" {
		cn.Currency = r.Currency
	}
	cn.BillingAddress = r.BillingAddress
	cn.PhoneNumber = r.PhoneNumber
	if r.DueDate != nil {
		cn.DueDate = *r.DueDate
	}
	cn.PaymentTerms = r.PaymentTerms
	cn.Comment = r.Comment
	cn.Items = cn.Items[:0]
	for _, item := range r.Items {
		cn.Items = append(cn.Items, item.toItem())
	}
	if r.Refund != nil {
		cn.Refund = r.Refund.toRefund(cn.ID)
	}
	return cn
}

// --- Debit note ---

// CreateDebitNoteRequest creates a debit note in Draft.
type CreateDebitNoteRequest struct {
	SupplierID      id.ID             `json:"supplierId" binding:"required"`
	PurchaseOrderID id.ID             `json:"purchaseOrderId" binding:"required"`
	Date            *time.Time        `json:"date"`
	Currency        string            `json:"currency"`
	PODate          *time.Time        `json:"poDate"`
	DueDate         *time.Time        `json:"dueDate"`
	PaymentTerms    string            `json:"paymentTerms"`
	IncoTerms       string            `json:"incoTerms"`
	CreditLimit     decimal.Decimal   `json:"creditLimit"`
	Comment         string            `json:"comment"`
	Items           []NoteItemRequest `json:"items" binding:"required,min=1"`
	Recover         *RecoverRequest   `json:"recover"`
}

// ToModel maps the request onto a new debit note.
func (r CreateDebitNoteRequest) ToModel() *finance.DebitNote {
	dn := finance.NewDebitNote(r.SupplierID, r.PurchaseOrderID)
	if r.Date != nil {
		dn.Date = *r.Date
	}
	if r.Currency != "" {
		dn.Currency = r.Currency
	}
	if r.PODate != nil {
		dn.PODate = *r.PODate
	}
	if r.DueDate != nil {
		dn.DueDate = *r.DueDate
	}
	dn.PaymentTerms = r.PaymentTerms
	dn.IncoTerms = r.IncoTerms
	dn.CreditLimit = r.CreditLimit
	dn.Comment = r.Comment
	for _, item := range r.Items {
		dn.Items = append(dn.Items, item.toItem())
	}
	dn.Recover = r.Recover.toRecover(dn.ID)
	return dn
}

// UpdateDebitNoteRequest replaces the editable fields of a Draft
// debit note.
type UpdateDebitNoteRequest struct {
	Date         *time.Time        `json:"date"`
	Currency     string            `json:"currency"`
	DueDate      *time.Time        `json:"dueDate"`
	PaymentTerms string            `json:"paymentTerms"`
	IncoTerms    string            `json:"incoTerms"`
	CreditLimit  decimal.Decimal   `json:"creditLimit"`
	Comment      string            `json:"comment"`
	Items        []NoteItemRequest `json:"items" binding:"required,min=1"`
	Recover      *RecoverRequest   `json:"recover"`
}

// Apply overlays the request onto the existing debit note.
func (r UpdateDebitNoteRequest) Apply(dn *finance.DebitNote) *finance.DebitNote {
	if r.Date != nil {
		dn.Date = *r.Date
	}
	if r.Currency != "" {
		dn.Currency = r.Currency
	}
	if r.DueDate != nil {
		dn.DueDate = *r.DueDate
	}
	dn.PaymentTerms = r.PaymentTerms
	dn.IncoTerms = r.IncoTerms
	dn.CreditLimit = r.CreditLimit
	dn.Comment = r.Comment
	dn.Items = dn.Items[:0]
	for _, item := range r.Items {
		dn.Items = append(dn.Items, item.toItem())
	}
	if r.Recover != nil {
		dn.Recover = r.Recover.toRecover(dn.ID)
	}
	return dn
}

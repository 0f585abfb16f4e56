package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/documents/invoice"
)

// InvoiceItemRequest is one invoice line.
type InvoiceItemRequest struct {
	ProductID   id.ID           `json:"productId" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	DiscountPct decimal.Decimal `json:"discountPct"`
	TaxPct      decimal.Decimal `json:"taxPct"`
}

func (r InvoiceItemRequest) toItem() invoice.Item {
	return invoice.Item{
		LineID:      id.New(),
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		DiscountPct: r.DiscountPct,
		TaxPct:      r.TaxPct,
	}
}

// CreateInvoiceRequest creates an invoice in Draft.
type CreateInvoiceRequest struct {
	CustomerID        id.ID                `json:"customerId" binding:"required"`
	Date              *time.Time           `json:"date"`
	DueDate           *time.Time           `json:"dueDate"`
	Currency          string               `json:"currency"`
	PaymentTerms      string               `json:"paymentTerms"`
	BillingAddress    string               `json:"billingAddress"`
	ShippingAddress   string               `json:"shippingAddress"`
	SalesOrderID      *id.ID               `json:"salesOrderId"`
	DeliveryNoteID    *id.ID               `json:"deliveryNoteId"`
	GlobalDiscountPct decimal.Decimal      `json:"globalDiscountPct"`
	ShippingCharges   decimal.Decimal      `json:"shippingCharges"`
	RoundingAdj       decimal.Decimal      `json:"roundingAdj"`
	CreditApplied     decimal.Decimal      `json:"creditApplied"`
	AmountPaid        decimal.Decimal      `json:"amountPaid"`
	Comment           string               `json:"comment"`
	Items             []InvoiceItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new invoice.
func (r CreateInvoiceRequest) ToModel() *invoice.Invoice {
	inv := invoice.New(r.CustomerID)
	if r.Date != nil {
		inv.Date = *r.Date
	}
	if r.DueDate != nil {
		inv.DueDate = *r.DueDate
	}
	if r.Currency != "" {
		inv.Currency = r.Currency
	}
	if r.PaymentTerms != "" {
		inv.PaymentTerms = r.PaymentTerms
	}
	inv.BillingAddress = r.BillingAddress
	inv.ShippingAddress = r.ShippingAddress
	inv.SalesOrderID = r.SalesOrderID
	inv.DeliveryNoteID = r.DeliveryNoteID
	inv.GlobalDiscountPct = r.GlobalDiscountPct
	inv.ShippingCharges = r.ShippingCharges
	inv.RoundingAdj = r.RoundingAdj
	inv.CreditApplied = r.CreditApplied
	inv.AmountPaid = r.AmountPaid
	inv.Comment = r.Comment
	for _, item := range r.Items {
		inv.Items = append(inv.Items, item.toItem())
	}
	return inv
}

// UpdateInvoiceRequest replaces the editable fields of a Draft
// invoice, items included.
type UpdateInvoiceRequest struct {
	Date              *time.Time           `json:"date"`
	DueDate           *time.Time           `json:"dueDate"`
	Currency          string               `json:"currency"`
	PaymentTerms      string               `json:"paymentTerms"`
	BillingAddress    string               `json:"billingAddress"`
	ShippingAddress   string               `json:"shippingAddress"`
	GlobalDiscountPct decimal.Decimal      `json:"globalDiscountPct"`
	ShippingCharges   decimal.Decimal      `json:"shippingCharges"`
	RoundingAdj       decimal.Decimal      `json:"roundingAdj"`
	CreditApplied     decimal.Decimal      `json:"creditApplied"`
	AmountPaid        decimal.Decimal      `json:"amountPaid"`
	Comment           string               `json:"comment"`
	Items             []InvoiceItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing invoice.
func (r UpdateInvoiceRequest) Apply(inv *invoice.Invoice) *invoice.Invoice {
	if r.Date != nil {
		inv.Date = *r.Date
	}
	if r.DueDate != nil {
		inv.DueDate = *r.DueDate
	}
	if r.Currency != "" {
		inv.Currency = r.Currency
	}
	if r.PaymentTerms != "" {
		inv.PaymentTerms = r.PaymentTerms
	}
	inv.BillingAddress = r.BillingAddress
	inv.ShippingAddress = r.ShippingAddress
	inv.GlobalDiscountPct = r.GlobalDiscountPct
	inv.ShippingCharges = r.ShippingCharges
	inv.RoundingAdj = r.RoundingAdj
	inv.CreditApplied = r.CreditApplied
	inv.AmountPaid = r.AmountPaid
	inv.Comment = r.Comment
	inv.Items = inv.Items[:0]
	for _, item := range r.Items {
		inv.Items = append(inv.Items, item.toItem())
	}
	return inv
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/documents/quotation"
)

// QuotationItemRequest is one quotation line.
type QuotationItemRequest struct {
	ProductID   id.ID           `json:"productId" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	DiscountPct decimal.Decimal `json:"discountPct"`
	TaxPct      decimal.Decimal `json:"taxPct"`
}

func (r QuotationItemRequest) toItem() quotation.Item {
	return quotation.Item{
		LineID:      id.New(),
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		DiscountPct: r.DiscountPct,
		TaxPct:      r.TaxPct,
	}
}

// CreateQuotationRequest creates a quotation in Draft.
type CreateQuotationRequest struct {
	CustomerID        id.ID                  `json:"customerId" binding:"required"`
	Date              *time.Time             `json:"date"`
	ExpiryDate        *time.Time             `json:"expiryDate"`
	Currency          string                 `json:"currency"`
	PaymentTerms      string                 `json:"paymentTerms"`
	BillingAddress    string                 `json:"billingAddress"`
	ShippingAddress   string                 `json:"shippingAddress"`
	GlobalDiscountPct decimal.Decimal        `json:"globalDiscountPct"`
	ShippingCharges   decimal.Decimal        `json:"shippingCharges"`
	Comment           string                 `json:"comment"`
	Items             []QuotationItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new quotation.
func (r CreateQuotationRequest) ToModel() *quotation.Quotation {
	q := quotation.New(r.CustomerID)
	if r.Date != nil {
		q.Date = *r.Date
	}
	q.ExpiryDate = r.ExpiryDate
	if r.Currency != "" {
		q.Currency = r.Currency
	}
	q.PaymentTerms = r.PaymentTerms
	q.BillingAddress = r.BillingAddress
	q.ShippingAddress = r.ShippingAddress
	q.GlobalDiscountPct = r.GlobalDiscountPct
	q.ShippingCharges = r.ShippingCharges
	q.Comment = r.Comment
	for _, item := range r.Items {
		q.Items = append(q.Items, item.toItem())
	}
	return q
}

// UpdateQuotationRequest replaces the editable fields of a Draft
// quotation, items included.
type UpdateQuotationRequest struct {
	Date              *time.Time             `json:"date"`
	ExpiryDate        *time.Time             `json:"expiryDate"`
	Currency          string                 `json:"currency"`
	PaymentTerms      string                 `json:"paymentTerms"`
	BillingAddress    string                 `json:"billingAddress"`
	ShippingAddress   string                 `json:"shippingAddress"`
	GlobalDiscountPct decimal.Decimal        `json:"globalDiscountPct"`
	ShippingCharges   decimal.Decimal        `json:"shippingCharges"`
	Comment           string                 `json:"comment"`
	Items             []QuotationItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing quotation.
func (r UpdateQuotationRequest) Apply(q *quotation.Quotation) *quotation.Quotation {
	if r.Date != nil {
		q.Date = *r.Date
	}
	q.ExpiryDate = r.ExpiryDate
	if r.Currency != "" {
		q.Currency = r.Currency
	}
	q.PaymentTerms = r.PaymentTerms
	q.BillingAddress = r.BillingAddress
	q.ShippingAddress = r.ShippingAddress
	q.GlobalDiscountPct = r.GlobalDiscountPct
	q.ShippingCharges = r.ShippingCharges
	q.Comment = r.Comment
	q.Items = q.Items[:0]
	for _, item := range r.Items {
		q.Items = append(q.Items, item.toItem())
	}
	return q
}

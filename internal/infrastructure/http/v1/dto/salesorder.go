package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/documents/salesorder"
)

// SalesOrderItemRequest is one sales order line. Order lines carry no
// tax; tax applies when the order is invoiced.
type SalesOrderItemRequest struct {
	ProductID   id.ID           `json:"productId" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	DiscountPct decimal.Decimal `json:"discountPct"`
}

func (r SalesOrderItemRequest) toItem() salesorder.Item {
	return salesorder.Item{
		LineID:      id.New(),
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		DiscountPct: r.DiscountPct,
	}
}

// CreateSalesOrderRequest creates a sales order in Draft.
type CreateSalesOrderRequest struct {
	CustomerID        id.ID                   `json:"customerId" binding:"required"`
	Date              *time.Time              `json:"date"`
	OrderType         salesorder.OrderType    `json:"orderType"`
	Currency          string                  `json:"currency"`
	PaymentTerms      string                  `json:"paymentTerms"`
	BillingAddress    string                  `json:"billingAddress"`
	ShippingAddress   string                  `json:"shippingAddress"`
	GlobalDiscountPct decimal.Decimal         `json:"globalDiscountPct"`
	ShippingCharges   decimal.Decimal         `json:"shippingCharges"`
	Comment           string                  `json:"comment"`
	Items             []SalesOrderItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new sales order.
func (r CreateSalesOrderRequest) ToModel() *salesorder.SalesOrder {
	o := salesorder.New(r.CustomerID)
	if r.Date != nil {
		o.Date = *r.Date
	}
	if r.OrderType != "" {
		o.OrderType = r.OrderType
	}
	if r.Currency != "" {
		o.Currency = r.Currency
	}
	o.PaymentTerms = r.PaymentTerms
	o.BillingAddress = r.BillingAddress
	o.ShippingAddress = r.ShippingAddress
	o.GlobalDiscountPct = r.GlobalDiscountPct
	o.ShippingCharges = r.ShippingCharges
	o.Comment = r.Comment
	for _, item := range r.Items {
		o.Items = append(o.Items, item.toItem())
	}
	return o
}

// UpdateSalesOrderRequest replaces the editable fields of a Draft
// order, items included.
type UpdateSalesOrderRequest struct {
	Date              *time.Time              `json:"date"`
	OrderType         salesorder.OrderType    `json:"orderType"`
	Currency          string                  `json:"currency"`
	PaymentTerms      string                  `json:"paymentTerms"`
	BillingAddress    string                  `json:"billingAddress"`
	ShippingAddress   string                  `json:"shippingAddress"`
	GlobalDiscountPct decimal.Decimal         `json:"globalDiscountPct"`
	ShippingCharges   decimal.Decimal         `json:"shippingCharges"`
	Comment           string                  `json:"comment"`
	Items             []SalesOrderItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing order.
func (r UpdateSalesOrderRequest) Apply(o *salesorder.SalesOrder) *salesorder.SalesOrder {
	if r.Date != nil {
		o.Date = *r.Date
	}
	if r.OrderType != "" {
		o.OrderType = r.OrderType
	}
	if r.Currency != "" {
		o.Currency = r.Currency
	}
	o.PaymentTerms = r.PaymentTerms
	o.BillingAddress = r.BillingAddress
	o.ShippingAddress = r.ShippingAddress
	o.GlobalDiscountPct = r.GlobalDiscountPct
	o.ShippingCharges = r.ShippingCharges
	o.Comment = r.Comment
	o.Items = o.Items[:0]
	for _, item := range r.Items {
		o.Items = append(o.Items, item.toItem())
	}
	return o
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/documents/purchaseorder"
)

// PurchaseOrderItemRequest is one purchase order line.
type PurchaseOrderItemRequest struct {
	ProductID   id.ID           `json:"productId" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	DiscountPct decimal.Decimal `json:"discountPct"`
	TaxPct      decimal.Decimal `json:"taxPct"`
}

func (r PurchaseOrderItemRequest) toItem() purchaseorder.Item {
	return purchaseorder.Item{
		LineID:      id.New(),
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		DiscountPct: r.DiscountPct,
		TaxPct:      r.TaxPct,
	}
}

// CreatePurchaseOrderRequest creates a purchase order in Draft.
type CreatePurchaseOrderRequest struct {
	SupplierID      id.ID                      `json:"supplierId" binding:"required"`
	Date            *time.Time                 `json:"date"`
	Currency        string                     `json:"currency"`
	IncoTerms       string                     `json:"incoTerms"`
	DeliveryAddress string                     `json:"deliveryAddress"`
	ShippingCharges decimal.Decimal            `json:"shippingCharges"`
	RoundingAdj     decimal.Decimal            `json:"roundingAdj"`
	Comment         string                     `json:"comment"`
	Items           []PurchaseOrderItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new purchase order.
func (r CreatePurchaseOrderRequest) ToModel() *purchaseorder.PurchaseOrder {
	p := purchaseorder.New(r.SupplierID)
	if r.Date != nil {
		p.Date = *r.Date
	}
	if r.Currency != "" {
		p.Currency = r.Currency
	}
	p.IncoTerms = r.IncoTerms
	p.DeliveryAddress = r.DeliveryAddress
	p.ShippingCharges = r.ShippingCharges
	p.RoundingAdj = r.RoundingAdj
	p.Comment = r.Comment
	for _, item := range r.Items {
		p.Items = append(p.Items, item.toItem())
	}
	return p
}

// UpdatePurchaseOrderRequest replaces the editable fields of a Draft
// purchase order, items included.
type UpdatePurchaseOrderRequest struct {
	Date            *time.Time                 `json:"date"`
	Currency        string                     `json:"currency"`
	IncoTerms       string                     `json:"incoTerms"`
	DeliveryAddress string                     `json:"deliveryAddress"`
	ShippingCharges decimal.Decimal            `json:"shippingCharges"`
	RoundingAdj     decimal.Decimal            `json:"roundingAdj"`
	Comment         string                     `json:"comment"`
	Items           []PurchaseOrderItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing purchase order.
func (r UpdatePurchaseOrderRequest) Apply(p *purchaseorder.PurchaseOrder) *purchaseorder.PurchaseOrder {
	if r.Date != nil {
		p.Date = *r.Date
	}
	if r.Currency != "" {
		p.Currency = r.Currency
	}
	p.IncoTerms = r.IncoTerms
	p.DeliveryAddress = r.DeliveryAddress
	p.ShippingCharges = r.ShippingCharges
	p.RoundingAdj = r.RoundingAdj
	p.Comment = r.Comment
	p.Items = p.Items[:0]
	for _, item := range r.Items {
		p.Items = append(p.Items, item.toItem())
	}
	return p
}

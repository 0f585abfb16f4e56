package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/documents/returns"
)

// --- Invoice return ---

// InvoiceReturnItemRequest is one returned invoice line. Pricing
// defaults from the billed line when omitted.
type InvoiceReturnItemRequest struct {
	InvoiceItemID id.ID            `json:"invoiceItemId" binding:"required"`
	QtyReturned   decimal.Decimal  `json:"qtyReturned" binding:"required"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	DiscountPct   *decimal.Decimal `json:"discountPct"`
	TaxPct        *decimal.Decimal `json:"taxPct"`
}

func (r InvoiceReturnItemRequest) toItem() returns.InvoiceReturnItem {
	item := returns.InvoiceReturnItem{
		LineID:        id.New(),
		InvoiceItemID: r.InvoiceItemID,
		QtyReturned:   r.QtyReturned,
	}
	if r.UnitPrice != nil {
		item.UnitPrice = *r.UnitPrice
	}
	if r.DiscountPct != nil {
		item.DiscountPct = *r.DiscountPct
	}
	if r.TaxPct != nil {
		item.TaxPct = *r.TaxPct
	}
	return item
}

// CreateInvoiceReturnRequest creates an invoice return in Draft.
type CreateInvoiceReturnRequest struct {
	CustomerID        id.ID                      `json:"customerId" binding:"required"`
	InvoiceID         id.ID                      `json:"invoiceId" binding:"required"`
	Date              *time.Time                 `json:"date"`
	Currency          string                     `json:"currency"`
	GlobalDiscountPct decimal.Decimal            `json:"globalDiscountPct"`
	RoundingAdj       decimal.Decimal            `json:"roundingAdj"`
	Comment           string                     `json:"comment"`
	Items             []InvoiceReturnItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new invoice return.
func (r CreateInvoiceReturnRequest) ToModel() *returns.InvoiceReturn {
	ret := returns.NewInvoiceReturn(r.CustomerID, r.InvoiceID)
	if r.Date != nil {
		ret.Date = *r.Date
	}
	if r.Currency != "" {
		ret.Currency = r.Currency
	}
	ret.GlobalDiscountPct = r.GlobalDiscountPct
	ret.RoundingAdj = r.RoundingAdj
	ret.Comment = r.Comment
	for _, item := range r.Items {
		ret.Items = append(ret.Items, item.toItem())
	}
	return ret
}

// UpdateInvoiceReturnRequest replaces the editable fields of a Draft
// invoice return, items included.
type UpdateInvoiceReturnRequest struct {
	Date              *time.Time                 `json:"date"`
	Currency          string                     `json:"currency"`
	GlobalDiscountPct decimal.Decimal            `json:"globalDiscountPct"`
	RoundingAdj       decimal.Decimal            `json:"roundingAdj"`
	Comment           string                     `json:"comment"`
	Items             []InvoiceReturnItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing invoice return.
func (r UpdateInvoiceReturnRequest) Apply(ret *returns.InvoiceReturn) *returns.InvoiceReturn {
	if r.Date != nil {
		ret.Date = *r.Date
	}
	if r.Currency != "" {
		ret.Currency = r.Currency
	}
	ret.GlobalDiscountPct = r.GlobalDiscountPct
	ret.RoundingAdj = r.RoundingAdj
	ret.Comment = r.Comment
	ret.Items = ret.Items[:0]
	for _, item := range r.Items {
		ret.Items = append(ret.Items, item.toItem())
	}
	return ret
}

// --- Delivery note return ---

// DeliveryReturnItemRequest is one physically returned line.
type DeliveryReturnItemRequest struct {
	ProductID   id.ID           `json:"productId" binding:"required"`
	QtyReturned decimal.Decimal `json:"qtyReturned" binding:"required"`
}

func (r DeliveryReturnItemRequest) toItem() returns.DeliveryReturnItem {
	return returns.DeliveryReturnItem{
		LineID:      id.New(),
		ProductID:   r.ProductID,
		QtyReturned: r.QtyReturned,
	}
}

// CreateDeliveryReturnRequest creates a delivery note return in Draft.
type CreateDeliveryReturnRequest struct {
	CustomerID      id.ID                       `json:"customerId" binding:"required"`
	DeliveryNoteID  id.ID                       `json:"deliveryNoteId" binding:"required"`
	Date            *time.Time                  `json:"date"`
	InvoiceReturnID *id.ID                      `json:"invoiceReturnId"`
	Comment         string                      `json:"comment"`
	Items           []DeliveryReturnItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new delivery note return.
func (r CreateDeliveryReturnRequest) ToModel() *returns.DeliveryNoteReturn {
	ret := returns.NewDeliveryNoteReturn(r.CustomerID, r.DeliveryNoteID)
	if r.Date != nil {
		ret.Date = *r.Date
	}
	ret.InvoiceReturnID = r.InvoiceReturnID
	ret.Comment = r.Comment
	for _, item := range r.Items {
		ret.Items = append(ret.Items, item.toItem())
	}
	return ret
}

// UpdateDeliveryReturnRequest replaces the editable fields of a Draft
// delivery note return, items included.
type UpdateDeliveryReturnRequest struct {
	Date    *time.Time                  `json:"date"`
	Comment string                      `json:"comment"`
	Items   []DeliveryReturnItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing delivery note return.
func (r UpdateDeliveryReturnRequest) Apply(ret *returns.DeliveryNoteReturn) *returns.DeliveryNoteReturn {
	if r.Date != nil {
		ret.Date = *r.Date
	}
	ret.Comment = r.Comment
	ret.Items = ret.Items[:0]
	for _, item := range r.Items {
		ret.Items = append(ret.Items, item.toItem())
	}
	return ret
}

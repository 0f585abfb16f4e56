package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/documents/deliverynote"
)

// DeliveryNoteItemRequest is one delivery line. SerialIDs claim
// specific serials from the referenced stock receipt item.
type DeliveryNoteItemRequest struct {
	ProductID     id.ID           `json:"productId" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	ReceiptItemID *id.ID          `json:"receiptItemId"`
	SerialIDs     []id.ID         `json:"serialIds"`
}

func (r DeliveryNoteItemRequest) toItem() deliverynote.Item {
	return deliverynote.Item{
		LineID:        id.New(),
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		ReceiptItemID: r.ReceiptItemID,
		SerialIDs:     r.SerialIDs,
	}
}

// CreateDeliveryNoteRequest creates a delivery note in Draft.
type CreateDeliveryNoteRequest struct {
	CustomerID   id.ID                     `json:"customerId" binding:"required"`
	Date         *time.Time                `json:"date"`
	DeliveryType deliverynote.DeliveryType `json:"deliveryType"`
	DeliveryDate *time.Time                `json:"deliveryDate"`
	Destination  string                    `json:"destination"`
	SalesOrderID *id.ID                    `json:"salesOrderId"`
	Comment      string                    `json:"comment"`
	Items        []DeliveryNoteItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new delivery note.
func (r CreateDeliveryNoteRequest) ToModel() *deliverynote.DeliveryNote {
	d := deliverynote.New(r.CustomerID)
	if r.Date != nil {
		d.Date = *r.Date
	}
	if r.DeliveryType != "" {
		d.DeliveryType = r.DeliveryType
	}
	if r.DeliveryDate != nil {
		d.DeliveryDate = *r.DeliveryDate
	}
	d.Destination = r.Destination
	d.SalesOrderID = r.SalesOrderID
	d.Comment = r.Comment
	for _, item := range r.Items {
		d.Items = append(d.Items, item.toItem())
	}
	return d
}

// UpdateDeliveryNoteRequest replaces the editable fields of a Draft
// delivery note, items included.
type UpdateDeliveryNoteRequest struct {
	Date         *time.Time                `json:"date"`
	DeliveryType deliverynote.DeliveryType `json:"deliveryType"`
	DeliveryDate *time.Time                `json:"deliveryDate"`
	Destination  string                    `json:"destination"`
	Comment      string                    `json:"comment"`
	Items        []DeliveryNoteItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing delivery note.
func (r UpdateDeliveryNoteRequest) Apply(d *deliverynote.DeliveryNote) *deliverynote.DeliveryNote {
	if r.Date != nil {
		d.Date = *r.Date
	}
	if r.DeliveryType != "" {
		d.DeliveryType = r.DeliveryType
	}
	if r.DeliveryDate != nil {
		d.DeliveryDate = *r.DeliveryDate
	}
	d.Destination = r.Destination
	d.Comment = r.Comment
	d.Items = d.Items[:0]
	for _, item := range r.Items {
		d.Items = append(d.Items, item.toItem())
	}
	return d
}

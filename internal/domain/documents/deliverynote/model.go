// Package deliverynote provides the DeliveryNote document.
// Delivery notes record goods leaving for a customer; items may claim
// specific serial numbers from stock receipts.
package deliverynote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
	"orderflow/internal/core/id"
	"orderflow/internal/core/status"
)

// DocType identifies delivery notes in activity records.
const DocType = "delivery_note"

// Statuses.
const (
	StatusDraft     status.State = "Draft"
	StatusPartial   status.State = "Partially Delivered"
	StatusDelivered status.State = "Delivered"
	StatusReturned  status.State = "Returned"
	StatusCancelled status.State = "Cancelled"
)

// Actions. cancel_dn is not a transition: it deletes the record and is
// handled by the service directly.
const (
	ActionSaveDraft        status.Action = "save_draft"
	ActionMarkPartial      status.Action = "mark_partially_delivered"
	ActionMarkDelivered    status.Action = "mark_delivered"
	ActionMarkReturned     status.Action = "mark_returned"
	ActionConvertToInvoice status.Action = "convert_to_invoice"
	ActionCancel           status.Action = "cancel"
)

// Machine is the delivery note state machine. mark_returned is applied
// by the returns pipeline when a delivery note return is submitted.
var Machine = status.NewMachine(DocType, StatusDraft).
	Allow(ActionSaveDraft, StatusDraft, StatusDraft).
	Allow(ActionMarkPartial, StatusPartial, StatusDraft).
	Allow(ActionMarkDelivered, StatusDelivered, StatusDraft, StatusPartial).
	Allow(ActionMarkReturned, StatusReturned, StatusPartial, StatusDelivered).
	Allow(ActionConvertToInvoice, status.KeepCurrent, StatusDraft, StatusPartial, StatusDelivered).
	Allow(ActionCancel, StatusCancelled, StatusDraft, StatusPartial).
	MarkTerminal(StatusCancelled, StatusReturned)

// DeliveryType distinguishes fulfilment modes.
type DeliveryType string

const (
	DeliveryRegular DeliveryType = "regular"
	DeliveryExpress DeliveryType = "express"
	DeliveryPickup  DeliveryType = "pickup"
)

// DeliveryNote represents an outbound delivery document.
type DeliveryNote struct {
	entity.Document

	CustomerID id.ID  `db:"customer_id" json:"customerId"`
	Status     string `db:"status" json:"status"`

	DeliveryType DeliveryType `db:"delivery_type" json:"deliveryType"`
	DeliveryDate time.Time    `db:"delivery_date" json:"deliveryDate"`

	// Destination is the shipping address the goods go to
	Destination string `db:"destination" json:"destination,omitempty"`

	// SalesOrderID links back to the source order when converted
	SalesOrderID *id.ID `db:"sales_order_id" json:"salesOrderId,omitempty"`

	// Customer acknowledgement, filled on delivery
	AckName *string    `db:"ack_name" json:"ackName,omitempty"`
	AckDate *time.Time `db:"ack_date" json:"ackDate,omitempty"`
	AckNote *string    `db:"ack_note" json:"ackNote,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// Item is a delivery note line.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID           `db:"product_id" json:"productId"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`

	// ReceiptItemID and SerialIDs claim specific serials from a stock
	// receipt; claims are persisted through the stock receipt ledger.
	ReceiptItemID *id.ID  `db:"receipt_item_id" json:"receiptItemId,omitempty"`
	SerialIDs     []id.ID `db:"-" json:"serialIds,omitempty"`
}

// New creates a delivery note in Draft dated today.
func New(customerID id.ID) *DeliveryNote {
	return &DeliveryNote{
		Document:     entity.NewDocument(),
		CustomerID:   customerID,
		Status:       string(StatusDraft),
		DeliveryType: DeliveryRegular,
		DeliveryDate: time.Now().UTC(),
		Items:        make([]Item, 0),
	}
}

// Validate implements entity.Validatable.
func (d *DeliveryNote) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(d.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	switch d.DeliveryType {
	case DeliveryRegular, DeliveryExpress, DeliveryPickup:
	default:
		return apperror.NewValidation("invalid delivery type").
			WithDetail("field", "deliveryType").
			WithDetail("value", string(d.DeliveryType))
	}

	if len(d.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range d.Items {
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
		if len(item.SerialIDs) > 0 && item.ReceiptItemID == nil {
			return apperror.NewValidation("serial claims require a receipt item reference").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

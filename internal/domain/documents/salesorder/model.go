// Package salesorder provides the SalesOrder document.
// Sales orders sit between quotations and fulfilment documents; they
// spawn delivery notes and invoices without changing their own status.
package salesorder

import (
	"context"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
	"orderflow/internal/core/id"
	"orderflow/internal/core/status"
	"orderflow/internal/core/types"
	"orderflow/internal/domain/pricing"
)

// DocType identifies sales orders in activity records.
const DocType = "sales_order"

// Statuses. Submitted(PD) marks a submitted order with pending delivery.
const (
	StatusDraft       status.State = "Draft"
	StatusSubmitted   status.State = "Submitted"
	StatusSubmittedPD status.State = "Submitted(PD)"
	StatusCancelled   status.State = "Cancelled"
)

// Actions. The convert actions spawn downstream documents and keep the
// order's own status.
const (
	ActionSaveDraft         status.Action = "save_draft"
	ActionSubmit            status.Action = "submit"
	ActionSubmitPD          status.Action = "submit_pd"
	ActionCancel            status.Action = "cancel"
	ActionConvertToDelivery status.Action = "convert_to_delivery"
	ActionConvertToInvoice  status.Action = "convert_to_invoice"
)

// Machine is the sales order state machine.
var Machine = status.NewMachine(DocType, StatusDraft).
	Allow(ActionSaveDraft, StatusDraft, StatusDraft).
	Allow(ActionSubmit, StatusSubmitted, StatusDraft).
	Allow(ActionSubmitPD, StatusSubmittedPD, StatusDraft, StatusSubmitted).
	Allow(ActionCancel, StatusCancelled, StatusDraft, StatusSubmitted, StatusSubmittedPD).
	Allow(ActionConvertToDelivery, status.KeepCurrent, StatusSubmitted, StatusSubmittedPD).
	Allow(ActionConvertToInvoice, status.KeepCurrent, StatusSubmitted, StatusSubmittedPD).
	MarkTerminal(StatusCancelled)

// OrderType distinguishes how the order was placed.
type OrderType string

const (
	OrderRegular OrderType = "regular"
	OrderOnline  OrderType = "online"
	OrderPhone   OrderType = "phone"
)

// SalesOrder represents a confirmed customer order.
type SalesOrder struct {
	entity.Document

	CustomerID id.ID     `db:"customer_id" json:"customerId"`
	Status     string    `db:"status" json:"status"`
	OrderType  OrderType `db:"order_type" json:"orderType"`

	Currency     string `db:"currency" json:"currency"`
	PaymentTerms string `db:"payment_terms" json:"paymentTerms,omitempty"`

	BillingAddress  string `db:"billing_address" json:"billingAddress,omitempty"`
	ShippingAddress string `db:"shipping_address" json:"shippingAddress,omitempty"`

	GlobalDiscountPct types.Percent `db:"global_discount_pct" json:"globalDiscountPct"`
	ShippingCharges   types.Money   `db:"shipping_charges" json:"shippingCharges"`

	// OrderTotal is recomputed from the live item set on every save
	OrderTotal types.Money `db:"order_total" json:"orderTotal"`

	// QuotationID links back to the source quotation when converted
	QuotationID *id.ID `db:"quotation_id" json:"quotationId,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// Item is a sales order line. Order lines carry no tax; totals are
// discount-only.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   types.Money     `db:"unit_price" json:"unitPrice"`
	DiscountPct types.Percent   `db:"discount_pct" json:"discountPct"`

	Total types.Money `db:"total" json:"total"`
}

// New creates a sales order in Draft.
func New(customerID id.ID) *SalesOrder {
	return &SalesOrder{
		Document:   entity.NewDocument(),
		CustomerID: customerID,
		Status:     string(StatusDraft),
		OrderType:  OrderRegular,
		Currency:   "USD",
		Items:      make([]Item, 0),
	}
}

// Recalculate recomputes item totals and the order total.
func (o *SalesOrder) Recalculate() error {
	itemTotals := make([]types.Money, 0, len(o.Items))
	for i := range o.Items {
		total, err := pricing.LineSubtotal(o.Items[i].Quantity, o.Items[i].UnitPrice, o.Items[i].DiscountPct)
		if err != nil {
			return err
		}
		o.Items[i].LineNo = i + 1
		o.Items[i].Total = total
		itemTotals = append(itemTotals, total)
	}

	grand, err := pricing.QuoteTotal(itemTotals, o.GlobalDiscountPct, o.ShippingCharges)
	if err != nil {
		return err
	}
	o.OrderTotal = grand
	return nil
}

// Validate implements entity.Validatable.
func (o *SalesOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	switch o.OrderType {
	case OrderRegular, OrderOnline, OrderPhone:
	default:
		return apperror.NewValidation("invalid order type").
			WithDetail("field", "orderType").
			WithDetail("value", string(o.OrderType))
	}

	if len(o.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range o.Items {
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
	}

	return nil
}

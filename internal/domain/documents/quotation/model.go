// Package quotation provides the Quotation document.
// A quotation is the first stage of the sales workflow; once approved it
// converts into a sales order.
package quotation

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

// DocType identifies quotations in activity records.
const DocType = "quotation"

// Statuses.
const (
	StatusDraft     status.State = "Draft"
	StatusSend      status.State = "Send"
	StatusApproved  status.State = "Approved"
	StatusRejected  status.State = "Rejected"
	StatusConverted status.State = "Converted (SO)"
	StatusExpired   status.State = "Expired"
)

// Actions.
const (
	ActionSaveDraft   status.Action = "save_draft"
	ActionSubmit      status.Action = "submit"
	ActionApprove     status.Action = "approve"
	ActionReject      status.Action = "reject"
	ActionConvertToSO status.Action = "convert_to_so"
	ActionCancel      status.Action = "cancel"
)

// Machine is the quotation state machine. Approval only from Send,
// conversion only from Approved.
var Machine = status.NewMachine(DocType, StatusDraft).
	Allow(ActionSaveDraft, StatusDraft, StatusDraft).
	Allow(ActionSubmit, StatusSend, StatusDraft).
	Allow(ActionApprove, StatusApproved, StatusSend).
	Allow(ActionReject, StatusRejected, StatusSend).
	Allow(ActionConvertToSO, StatusConverted, StatusApproved).
	Allow(ActionCancel, StatusExpired, StatusDraft, StatusSend, StatusApproved).
	MarkTerminal(StatusRejected, StatusConverted, StatusExpired)

// Quotation represents a sales quotation document.
type Quotation struct {
	entity.Document

	CustomerID id.ID  `db:"customer_id" json:"customerId"`
	Status     string `db:"status" json:"status"`

	ExpiryDate   *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`
	Currency     string     `db:"currency" json:"currency"`
	PaymentTerms string     `db:"payment_terms" json:"paymentTerms,omitempty"`

	BillingAddress  string `db:"billing_address" json:"billingAddress,omitempty"`
	ShippingAddress string `db:"shipping_address" json:"shippingAddress,omitempty"`

	// GlobalDiscountPct applies after item-level discounts
	GlobalDiscountPct types.Percent `db:"global_discount_pct" json:"globalDiscountPct"`
	ShippingCharges   types.Money   `db:"shipping_charges" json:"shippingCharges"`

	// GrandTotal is recomputed from the live item set on every save
	GrandTotal types.Money `db:"grand_total" json:"grandTotal"`

	// ReviseCount increments each time an already-sent quotation is edited
	ReviseCount int `db:"revise_count" json:"reviseCount"`

	Items []Item `db:"-" json:"items"`
}

// Item is a quotation line.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   types.Money     `db:"unit_price" json:"unitPrice"`
	DiscountPct types.Percent   `db:"discount_pct" json:"discountPct"`
	TaxPct      types.Percent   `db:"tax_pct" json:"taxPct"`

	// Total is always recomputed, never set by the caller
	Total types.Money `db:"total" json:"total"`
}

// New creates a quotation in Draft.
func New(customerID id.ID) *Quotation {
	return &Quotation{
		Document:   entity.NewDocument(),
		CustomerID: customerID,
		Status:     string(StatusDraft),
		Currency:   "USD",
		Items:      make([]Item, 0),
	}
}

// Recalculate recomputes item totals and the grand total.
func (q *Quotation) Recalculate() error {
	itemTotals := make([]types.Money, 0, len(q.Items))
	for i := range q.Items {
		total, err := pricing.LineTotal(q.Items[i].Quantity, q.Items[i].UnitPrice, q.Items[i].DiscountPct, q.Items[i].TaxPct)
		if err != nil {
			return err
		}
		q.Items[i].LineNo = i + 1
		q.Items[i].Total = total
		itemTotals = append(itemTotals, total)
	}

	grand, err := pricing.QuoteTotal(itemTotals, q.GlobalDiscountPct, q.ShippingCharges)
	if err != nil {
		return err
	}
	q.GrandTotal = grand
	return nil
}

// Validate implements entity.Validatable.
func (q *Quotation) Validate(ctx context.Context) error {
	if err := q.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(q.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	if len(q.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range q.Items {
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

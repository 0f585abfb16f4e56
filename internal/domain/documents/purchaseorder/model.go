// Package purchaseorder provides the PurchaseOrder document.
// Purchase orders open the procurement workflow; stock receipts advance
// them towards Partially Received and Closed.
package purchaseorder

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

// DocType identifies purchase orders in activity records.
const DocType = "purchase_order"

// Statuses. Canceled keeps the original single-l spelling.
const (
	StatusDraft       status.State = "Draft"
	StatusSubmitted   status.State = "Submitted"
	StatusPartialRecv status.State = "Partially Received"
	StatusClosed      status.State = "Closed"
	StatusCanceled    status.State = "Canceled"
)

// Actions. The receive actions are applied by the stock receipt flow.
const (
	ActionSubmitDraft status.Action = "submit_draft"
	ActionMarkPartial status.Action = "mark_partially_received"
	ActionClose       status.Action = "close"
	ActionCancel      status.Action = "cancel"
)

// Machine is the purchase order state machine.
var Machine = status.NewMachine(DocType, StatusDraft).
	Allow(ActionSubmitDraft, StatusSubmitted, StatusDraft).
	Allow(ActionMarkPartial, StatusPartialRecv, StatusSubmitted).
	Allow(ActionClose, StatusClosed, StatusSubmitted, StatusPartialRecv).
	Allow(ActionCancel, StatusCanceled, StatusDraft, StatusSubmitted, StatusPartialRecv).
	MarkTerminal(StatusClosed, StatusCanceled)

// PurchaseOrder represents an order placed with a supplier.
type PurchaseOrder struct {
	entity.Document

	SupplierID id.ID  `db:"supplier_id" json:"supplierId"`
	Status     string `db:"status" json:"status"`

	Currency string `db:"currency" json:"currency"`

	// IncoTerms is the agreed delivery term (FOB, CIF, EXW)
	IncoTerms string `db:"inco_terms" json:"incoTerms,omitempty"`

	DeliveryAddress string `db:"delivery_address" json:"deliveryAddress,omitempty"`

	// Roll-up fields stored on the document itself
	Subtotal        types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount       types.Money `db:"tax_amount" json:"taxAmount"`
	ShippingCharges types.Money `db:"shipping_charges" json:"shippingCharges"`
	RoundingAdj     types.Money `db:"rounding_adj" json:"roundingAdj"`
	TotalOrderValue types.Money `db:"total_order_value" json:"totalOrderValue"`

	Items []Item `db:"-" json:"items"`
}

// Item is a purchase order line.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   types.Money     `db:"unit_price" json:"unitPrice"`
	DiscountPct types.Percent   `db:"discount_pct" json:"discountPct"`
	TaxPct      types.Percent   `db:"tax_pct" json:"taxPct"`

	Total types.Money `db:"total" json:"total"`
}

// New creates a purchase order in Draft.
func New(supplierID id.ID) *PurchaseOrder {
	return &PurchaseOrder{
		Document:   entity.NewDocument(),
		SupplierID: supplierID,
		Status:     string(StatusDraft),
		Currency:   "USD",
		Items:      make([]Item, 0),
	}
}

// Recalculate recomputes item totals and the stored roll-up fields.
func (p *PurchaseOrder) Recalculate() error {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range p.Items {
		total, err := pricing.LineTotal(p.Items[i].Quantity, p.Items[i].UnitPrice, p.Items[i].DiscountPct, p.Items[i].TaxPct)
		if err != nil {
			return err
		}
		p.Items[i].LineNo = i + 1
		p.Items[i].Total = total
		subtotal = subtotal.Add(total)
		tax = tax.Add(p.Items[i].TaxPct.Mul(total).Div(types.Hundred))
	}

	p.Subtotal = types.Round2(subtotal)
	p.TaxAmount = types.Round2(tax)
	p.TotalOrderValue = types.Round2(subtotal.Add(p.ShippingCharges).Add(p.RoundingAdj))
	return nil
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if len(p.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range p.Items {
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

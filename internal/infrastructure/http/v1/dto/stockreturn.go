package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/documents/stockreturn"
)

// StockReturnItemRequest is one returned line. Product, UOM and
// pricing default from the source receipt item when omitted.
type StockReturnItemRequest struct {
	ReceiptItemID id.ID            `json:"receiptItemId" binding:"required"`
	QtyReturned   decimal.Decimal  `json:"qtyReturned" binding:"required"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	DiscountPct   *decimal.Decimal `json:"discountPct"`
	TaxPct        *decimal.Decimal `json:"taxPct"`
	SerialIDs     []id.ID          `json:"serialIds"`
}

func (r StockReturnItemRequest) toItem() stockreturn.Item {
	item := stockreturn.Item{
		LineID:        id.New(),
		ReceiptItemID: r.ReceiptItemID,
		QtyReturned:   r.QtyReturned,
		SerialIDs:     r.SerialIDs,
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

// CreateStockReturnRequest creates a stock return in Draft.
type CreateStockReturnRequest struct {
	SupplierID        id.ID                    `json:"supplierId" binding:"required"`
	StockReceiptID    id.ID                    `json:"stockReceiptId" binding:"required"`
	Date              *time.Time               `json:"date"`
	PurchaseOrderID   *id.ID                   `json:"purchaseOrderId"`
	Currency          string                   `json:"currency"`
	GlobalDiscountPct decimal.Decimal          `json:"globalDiscountPct"`
	RoundingAdj       decimal.Decimal          `json:"roundingAdj"`
	Comment           string                   `json:"comment"`
	Items             []StockReturnItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new stock return.
func (r CreateStockReturnRequest) ToModel() *stockreturn.StockReturn {
	sr := stockreturn.New(r.SupplierID, r.StockReceiptID)
	if r.Date != nil {
		sr.Date = *r.Date
	}
	sr.PurchaseOrderID = r.PurchaseOrderID
	if r.Currency != "" {
		sr.Currency = r.Currency
	}
	sr.GlobalDiscountPct = r.GlobalDiscountPct
	sr.RoundingAdj = r.RoundingAdj
	sr.Comment = r.Comment
	for _, item := range r.Items {
		sr.Items = append(sr.Items, item.toItem())
	}
	return sr
}

// UpdateStockReturnRequest replaces the editable fields of a Draft
// stock return, items included.
type UpdateStockReturnRequest struct {
	Date              *time.Time               `json:"date"`
	Currency          string                   `json:"currency"`
	GlobalDiscountPct decimal.Decimal          `json:"globalDiscountPct"`
	RoundingAdj       decimal.Decimal          `json:"roundingAdj"`
	Comment           string                   `json:"comment"`
	Items             []StockReturnItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing stock return.
func (r UpdateStockReturnRequest) Apply(sr *stockreturn.StockReturn) *stockreturn.StockReturn {
	if r.Date != nil {
		sr.Date = *r.Date
	}
	if r.Currency != "" {
		sr.Currency = r.Currency
	}
	sr.GlobalDiscountPct = r.GlobalDiscountPct
	sr.RoundingAdj = r.RoundingAdj
	sr.Comment = r.Comment
	sr.Items = sr.Items[:0]
	for _, item := range r.Items {
		sr.Items = append(sr.Items, item.toItem())
	}
	return sr
}

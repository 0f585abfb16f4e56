package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/catalogs/product"
	"orderflow/internal/domain/documents/stockreceipt"
)

// BatchRequest registers one received batch, optionally with the
// serials it contains.
type BatchRequest struct {
	BatchNo    string          `json:"batchNo" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	MfgDate    *time.Time      `json:"mfgDate"`
	ExpiryDate *time.Time      `json:"expiryDate"`
	Serials    []string        `json:"serials"`
}

// StockReceiptItemRequest is one receipt line with its serial and
// batch ledgers.
type StockReceiptItemRequest struct {
	ProductID   id.ID            `json:"productId" binding:"required"`
	UOM         string           `json:"uom"`
	QtyReceived decimal.Decimal  `json:"qtyReceived" binding:"required"`
	QtyAccepted decimal.Decimal  `json:"qtyAccepted"`
	QtyRejected decimal.Decimal  `json:"qtyRejected"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	DiscountPct decimal.Decimal  `json:"discountPct"`
	TaxPct      decimal.Decimal  `json:"taxPct"`
	StockDim    product.StockDim `json:"stockDim"`
	Serials     []string         `json:"serials"`
	Batches     []BatchRequest   `json:"batches"`
}

func (r StockReceiptItemRequest) toItem() stockreceipt.Item {
	lineID := id.New()
	item := stockreceipt.Item{
		LineID:      lineID,
		ProductID:   r.ProductID,
		UOM:         r.UOM,
		QtyReceived: r.QtyReceived,
		QtyAccepted: r.QtyAccepted,
		QtyRejected: r.QtyRejected,
		UnitPrice:   r.UnitPrice,
		DiscountPct: r.DiscountPct,
		TaxPct:      r.TaxPct,
		StockDim:    r.StockDim,
	}
	for _, serial := range r.Serials {
		item.Serials = append(item.Serials, stockreceipt.SerialNumber{
			ReceiptItemID: lineID,
			ProductID:     r.ProductID,
			Serial:        serial,
		})
	}
	for _, b := range r.Batches {
		batch := stockreceipt.BatchNumber{
			ID:            id.New(),
			ReceiptItemID: lineID,
			BatchNo:       b.BatchNo,
			Quantity:      b.Quantity,
			MfgDate:       b.MfgDate,
			ExpiryDate:    b.ExpiryDate,
		}
		for _, serial := range b.Serials {
			batch.Serials = append(batch.Serials, stockreceipt.BatchSerialNumber{
				BatchID: batch.ID,
				Serial:  serial,
			})
		}
		item.Batches = append(item.Batches, batch)
	}
	return item
}

// CreateStockReceiptRequest creates a stock receipt in Draft.
type CreateStockReceiptRequest struct {
	SupplierID      id.ID                     `json:"supplierId" binding:"required"`
	Date            *time.Time                `json:"date"`
	PurchaseOrderID *id.ID                    `json:"purchaseOrderId"`
	SupplierRef     string                    `json:"supplierRef"`
	Currency        string                    `json:"currency"`
	Comment         string                    `json:"comment"`
	Items           []StockReceiptItemRequest `json:"items" binding:"required,min=1"`
}

// ToModel maps the request onto a new stock receipt.
func (r CreateStockReceiptRequest) ToModel() *stockreceipt.StockReceipt {
	sr := stockreceipt.New(r.SupplierID)
	if r.Date != nil {
		sr.Date = *r.Date
	}
	sr.PurchaseOrderID = r.PurchaseOrderID
	sr.SupplierRef = r.SupplierRef
	if r.Currency != "" {
		sr.Currency = r.Currency
	}
	sr.Comment = r.Comment
	for _, item := range r.Items {
		sr.Items = append(sr.Items, item.toItem())
	}
	return sr
}

// UpdateStockReceiptRequest replaces the editable fields of a Draft
// receipt, items and ledgers included.
type UpdateStockReceiptRequest struct {
	Date        *time.Time                `json:"date"`
	SupplierRef string                    `json:"supplierRef"`
	Currency    string                    `json:"currency"`
	Comment     string                    `json:"comment"`
	Items       []StockReceiptItemRequest `json:"items" binding:"required,min=1"`
}

// Apply overlays the request onto the existing receipt.
func (r UpdateStockReceiptRequest) Apply(sr *stockreceipt.StockReceipt) *stockreceipt.StockReceipt {
	if r.Date != nil {
		sr.Date = *r.Date
	}
	sr.SupplierRef = r.SupplierRef
	if r.Currency != "" {
		sr.Currency = r.Currency
	}
	sr.Comment = r.Comment
	sr.Items = sr.Items[:0]
	for _, item := range r.Items {
		sr.Items = append(sr.Items, item.toItem())
	}
	return sr
}

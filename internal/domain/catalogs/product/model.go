// Package product provides the Product catalog.
// Product master data supplies default pricing for line items: unit
// price, tax and discount are defaulted from here when the caller omits
// them, explicit values always win.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
	"orderflow/internal/core/types"
)

// StockDim defines how stock identity is tracked for a product.
type StockDim string

const (
	DimNone   StockDim = "none"
	DimSerial StockDim = "serial"
	DimBatch  StockDim = "batch"
)

// Product represents a sellable or purchasable item.
type Product struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`

	// UOM is the unit of measure (pcs, kg, box)
	UOM string `db:"uom" json:"uom"`

	// UnitPrice is the default selling price
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// TaxPct is the default tax percentage applied to line items
	TaxPct types.Percent `db:"tax_pct" json:"taxPct"`

	// DiscountPct is the default discount percentage
	DiscountPct types.Percent `db:"discount_pct" json:"discountPct"`

	// StockDim defines serial/batch tracking on receipts
	StockDim StockDim `db:"stock_dim" json:"stockDim"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string) *Product {
	return &Product{
		Catalog:  entity.NewCatalog(code, name),
		UOM:      "pcs",
		StockDim: DimNone,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.UOM == "" {
		return apperror.NewValidation("unit of measure is required").
			WithDetail("field", "uom")
	}
	if p.UnitPrice.LessThan(decimal.Zero) {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if !types.IsValidPercent(p.TaxPct) {
		return apperror.NewValidation("tax must be between 0 and 100").
			WithDetail("field", "taxPct")
	}
	if !types.IsValidPercent(p.DiscountPct) {
		return apperror.NewValidation("discount must be between 0 and 100").
			WithDetail("field", "discountPct")
	}
	switch p.StockDim {
	case DimNone, DimSerial, DimBatch:
	default:
		return apperror.NewValidation("invalid stock dimension").
			WithDetail("field", "stockDim").
			WithDetail("value", string(p.StockDim))
	}

	return nil
}

package dto

import (
	"github.com/shopspring/decimal"

	"orderflow/internal/domain/catalogs/customer"
	"orderflow/internal/domain/catalogs/product"
	"orderflow/internal/domain/catalogs/supplier"
)

// --- Customer ---

// CreateCustomerRequest creates a customer. Code is auto-assigned when
// omitted.
type CreateCustomerRequest struct {
	Code            string  `json:"code"`
	Name            string  `json:"name" binding:"required"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	ContactPerson   *string `json:"contactPerson"`
	BillingAddress  *string `json:"billingAddress"`
	ShippingAddress *string `json:"shippingAddress"`
	TaxID           *string `json:"taxId"`
	Comment         *string `json:"comment"`
}

// ToModel maps the request onto a new customer.
func (r CreateCustomerRequest) ToModel() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name)
	c.Email = r.Email
	c.Phone = r.Phone
	c.ContactPerson = r.ContactPerson
	c.BillingAddress = r.BillingAddress
	c.ShippingAddress = r.ShippingAddress
	c.TaxID = r.TaxID
	c.Comment = r.Comment
	return c
}

// UpdateCustomerRequest updates customer fields. Nil fields keep the
// current value.
type UpdateCustomerRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	ContactPerson   *string `json:"contactPerson"`
	BillingAddress  *string `json:"billingAddress"`
	ShippingAddress *string `json:"shippingAddress"`
	TaxID           *string `json:"taxId"`
	Comment         *string `json:"comment"`
}

// Apply overlays non-nil fields onto the existing customer.
func (r UpdateCustomerRequest) Apply(c *customer.Customer) *customer.Customer {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.ContactPerson != nil {
		c.ContactPerson = r.ContactPerson
	}
	if r.BillingAddress != nil {
		c.BillingAddress = r.BillingAddress
	}
	if r.ShippingAddress != nil {
		c.ShippingAddress = r.ShippingAddress
	}
	if r.TaxID != nil {
		c.TaxID = r.TaxID
	}
	if r.Comment != nil {
		c.Comment = r.Comment
	}
	return c
}

// --- Supplier ---

// CreateSupplierRequest creates a supplier.
type CreateSupplierRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	ContactPerson *string `json:"contactPerson"`
	Address       *string `json:"address"`
	TaxID         *string `json:"taxId"`
	Comment       *string `json:"comment"`
}

// ToModel maps the request onto a new supplier.
func (r CreateSupplierRequest) ToModel() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.Email = r.Email
	s.Phone = r.Phone
	s.ContactPerson = r.ContactPerson
	s.Address = r.Address
	s.TaxID = r.TaxID
	s.Comment = r.Comment
	return s
}

// UpdateSupplierRequest updates supplier fields.
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	ContactPerson *string `json:"contactPerson"`
	Address       *string `json:"address"`
	TaxID         *string `json:"taxId"`
	Comment       *string `json:"comment"`
}

// Apply overlays non-nil fields onto the existing supplier.
func (r UpdateSupplierRequest) Apply(s *supplier.Supplier) *supplier.Supplier {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Email != nil {
		s.Email = r.Email
	}
	if r.Phone != nil {
		s.Phone = r.Phone
	}
	if r.ContactPerson != nil {
		s.ContactPerson = r.ContactPerson
	}
	if r.Address != nil {
		s.Address = r.Address
	}
	if r.TaxID != nil {
		s.TaxID = r.TaxID
	}
	if r.Comment != nil {
		s.Comment = r.Comment
	}
	return s
}

// --- Product ---

// CreateProductRequest creates a product.
type CreateProductRequest struct {
	Code        string           `json:"code"`
	Name        string           `json:"name" binding:"required"`
	Description *string          `json:"description"`
	UOM         string           `json:"uom"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	TaxPct      decimal.Decimal  `json:"taxPct"`
	DiscountPct decimal.Decimal  `json:"discountPct"`
	StockDim    product.StockDim `json:"stockDim"`
}

// ToModel maps the request onto a new product.
func (r CreateProductRequest) ToModel() *product.Product {
	p := product.NewProduct(r.Code, r.Name)
	p.Description = r.Description
	if r.UOM != "" {
		p.UOM = r.UOM
	}
	p.UnitPrice = r.UnitPrice
	p.TaxPct = r.TaxPct
	p.DiscountPct = r.DiscountPct
	if r.StockDim != "" {
		p.StockDim = r.StockDim
	}
	return p
}

// UpdateProductRequest updates product fields.
type UpdateProductRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	UOM         *string           `json:"uom"`
	UnitPrice   *decimal.Decimal  `json:"unitPrice"`
	TaxPct      *decimal.Decimal  `json:"taxPct"`
	DiscountPct *decimal.Decimal  `json:"discountPct"`
	StockDim    *product.StockDim `json:"stockDim"`
}

// Apply overlays non-nil fields onto the existing product.
func (r UpdateProductRequest) Apply(p *product.Product) *product.Product {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.UOM != nil {
		p.UOM = *r.UOM
	}
	if r.UnitPrice != nil {
		p.UnitPrice = *r.UnitPrice
	}
	if r.TaxPct != nil {
		p.TaxPct = *r.TaxPct
	}
	if r.DiscountPct != nil {
		p.DiscountPct = *r.DiscountPct
	}
	if r.StockDim != nil {
		p.StockDim = *r.StockDim
	}
	return p
}

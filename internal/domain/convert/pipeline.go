// Package convert builds downstream documents from upstream ones.
// Each conversion copies the customer, currency and terms, creates the
// target in Draft with one line per source line, and runs in a single
// transaction with the source document's transition so a failed target
// leaves no partial state behind.
package convert

import (
	"context"
	"fmt"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/core/tx"
	"orderflow/internal/core/types"
	"orderflow/internal/domain/catalogs/product"
	"orderflow/internal/domain/documents/deliverynote"
	"orderflow/internal/domain/documents/invoice"
	"orderflow/internal/domain/documents/quotation"
	"orderflow/internal/domain/documents/returns"
	"orderflow/internal/domain/documents/salesorder"
	"orderflow/pkg/logger"
)

// Pipeline wires the document services together for conversions.
type Pipeline struct {
	quotations *quotation.Service
	orders     *salesorder.Service
	deliveries *deliverynote.Service
	invoices   *invoice.Service
	invReturns *returns.InvoiceReturnService
	dnReturns  *returns.DeliveryReturnService
	products   product.Repository
	txManager  tx.Manager
}

// NewPipeline creates a conversion pipeline.
func NewPipeline(
	quotations *quotation.Service,
	orders *salesorder.Service,
	deliveries *deliverynote.Service,
	invoices *invoice.Service,
	invReturns *returns.InvoiceReturnService,
	dnReturns *returns.DeliveryReturnService,
	products product.Repository,
	txManager tx.Manager,
) *Pipeline {
	return &Pipeline{
		quotations: quotations,
		orders:     orders,
		deliveries: deliveries,
		invoices:   invoices,
		invReturns: invReturns,
		dnReturns:  dnReturns,
		products:   products,
		txManager:  txManager,
	}
}

// QuotationToSalesOrder converts an approved quotation into a Draft
// sales order and marks the quotation Converted (SO) atomically.
func (p *Pipeline) QuotationToSalesOrder(ctx context.Context, quotationID id.ID, actor string) (*salesorder.SalesOrder, error) {
	var order *salesorder.SalesOrder
	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		src, err := p.quotations.GetByID(ctx, quotationID)
		if err != nil {
			return err
		}
		if _, err := p.quotations.Act(ctx, quotationID, quotation.ActionConvertToSO, actor); err != nil {
			return err
		}

		o := salesorder.New(src.CustomerID)
		o.QuotationID = &src.ID
		o.Currency = src.Currency
		o.PaymentTerms = src.PaymentTerms
		o.BillingAddress = src.BillingAddress
		o.ShippingAddress = src.ShippingAddress
		o.GlobalDiscountPct = src.GlobalDiscountPct
		o.ShippingCharges = src.ShippingCharges
		for _, item := range src.Items {
			o.Items = append(o.Items, salesorder.Item{
				LineID:      id.New(),
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				DiscountPct: item.DiscountPct,
			})
		}

		if err := p.orders.Create(ctx, o); err != nil {
			return fmt.Errorf("create sales order: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quotation converted to sales order",
		"quotation_id", quotationID, "sales_order_id", order.ID, "actor", actor)
	return order, nil
}

// SalesOrderToDeliveryNote spawns a Draft delivery note from a
// submitted sales order. The order keeps its own status.
func (p *Pipeline) SalesOrderToDeliveryNote(ctx context.Context, orderID id.ID, actor string) (*deliverynote.DeliveryNote, error) {
	var note *deliverynote.DeliveryNote
	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		src, err := p.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if _, err := p.orders.Act(ctx, orderID, salesorder.ActionConvertToDelivery, actor); err != nil {
			return err
		}

		d := deliverynote.New(src.CustomerID)
		d.SalesOrderID = &src.ID
		d.Destination = src.ShippingAddress
		for _, item := range src.Items {
			d.Items = append(d.Items, deliverynote.Item{
				LineID:    id.New(),
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		if err := p.deliveries.Create(ctx, d); err != nil {
			return fmt.Errorf("create delivery note: %w", err)
		}
		note = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sales order converted to delivery note",
		"sales_order_id", orderID, "delivery_note_id", note.ID, "actor", actor)
	return note, nil
}

// SalesOrderToInvoice spawns a Draft invoice from a submitted sales
// order. Order lines carry no tax, so the tax percentage is re-derived
// from product master data; explicit order pricing wins otherwise.
func (p *Pipeline) SalesOrderToInvoice(ctx context.Context, orderID id.ID, actor string) (*invoice.Invoice, error) {
	var inv *invoice.Invoice
	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		src, err := p.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if _, err := p.orders.Act(ctx, orderID, salesorder.ActionConvertToInvoice, actor); err != nil {
			return err
		}

		taxes, err := p.productTaxes(ctx, orderProductIDs(src))
		if err != nil {
			return err
		}

		v := invoice.New(src.CustomerID)
		v.SalesOrderID = &src.ID
		v.Currency = src.Currency
		if src.PaymentTerms != "" {
			v.PaymentTerms = src.PaymentTerms
		}
		v.BillingAddress = src.BillingAddress
		v.ShippingAddress = src.ShippingAddress
		v.GlobalDiscountPct = src.GlobalDiscountPct
		v.ShippingCharges = src.ShippingCharges
		for _, item := range src.Items {
			v.Items = append(v.Items, invoice.Item{
				LineID:      id.New(),
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				DiscountPct: item.DiscountPct,
				TaxPct:      taxes[item.ProductID],
			})
		}

		if err := p.invoices.Create(ctx, v); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		inv = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sales order converted to invoice",
		"sales_order_id", orderID, "invoice_id", inv.ID, "actor", actor)
	return inv, nil
}

// DeliveryNoteToInvoice spawns a Draft invoice from a delivery note.
// Delivery lines carry no pricing at all, so unit price, discount and
// tax come from product master data.
func (p *Pipeline) DeliveryNoteToInvoice(ctx context.Context, noteID id.ID, actor string) (*invoice.Invoice, error) {
	var inv *invoice.Invoice
	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		src, err := p.deliveries.GetByID(ctx, noteID)
		if err != nil {
			return err
		}
		if _, err := p.deliveries.Act(ctx, noteID, deliverynote.ActionConvertToInvoice, actor); err != nil {
			return err
		}

		ids := make([]id.ID, 0, len(src.Items))
		for _, item := range src.Items {
			ids = append(ids, item.ProductID)
		}
		prods, err := p.products.GetMany(ctx, ids)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		v := invoice.New(src.CustomerID)
		v.DeliveryNoteID = &src.ID
		v.ShippingAddress = src.Destination
		for _, item := range src.Items {
			prod, ok := prods[item.ProductID]
			if !ok {
				return apperror.NewValidation("product not found for delivery line").
					WithDetail("productId", item.ProductID.String())
			}
			v.Items = append(v.Items, invoice.Item{
				LineID:      id.New(),
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				UnitPrice:   prod.UnitPrice,
				DiscountPct: prod.DiscountPct,
				TaxPct:      prod.TaxPct,
			})
		}

		if err := p.invoices.Create(ctx, v); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		inv = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note converted to invoice",
		"delivery_note_id", noteID, "invoice_id", inv.ID, "actor", actor)
	return inv, nil
}

// InvoiceToInvoiceReturn builds a Draft invoice return covering every
// invoice line that still has returnable quantity.
func (p *Pipeline) InvoiceToInvoiceReturn(ctx context.Context, invoiceID id.ID, actor string) (*returns.InvoiceReturn, error) {
	var ret *returns.InvoiceReturn
	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		src, err := p.invoices.GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}

		r := returns.NewInvoiceReturn(src.CustomerID, src.ID)
		r.Currency = src.Currency
		for _, item := range src.Items {
			available := item.Quantity.Sub(item.ReturnedQty)
			if !available.IsPositive() {
				continue
			}
			r.Items = append(r.Items, returns.InvoiceReturnItem{
				LineID:        id.New(),
				InvoiceItemID: item.LineID,
				ProductID:     item.ProductID,
				QtyReturned:   available,
				UnitPrice:     item.UnitPrice,
				DiscountPct:   item.DiscountPct,
				TaxPct:        item.TaxPct,
			})
		}
		if len(r.Items) == 0 {
			return apperror.NewValidation("invoice has no returnable quantity").
				WithDetail("invoiceId", invoiceID.String())
		}

		if err := p.invReturns.Create(ctx, r); err != nil {
			return fmt.Errorf("create invoice return: %w", err)
		}
		ret = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice converted to invoice return",
		"invoice_id", invoiceID, "invoice_return_id", ret.ID, "actor", actor)
	return ret, nil
}

// InvoiceReturnToDeliveryNoteReturn builds a Draft delivery note return
// mirroring an invoice return. The source invoice must have been
// spawned from a delivery note.
func (p *Pipeline) InvoiceReturnToDeliveryNoteReturn(ctx context.Context, invReturnID id.ID, actor string) (*returns.DeliveryNoteReturn, error) {
	var ret *returns.DeliveryNoteReturn
	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		src, err := p.invReturns.GetByID(ctx, invReturnID)
		if err != nil {
			return err
		}
		inv, err := p.invoices.GetByID(ctx, src.InvoiceID)
		if err != nil {
			return err
		}
		if inv.DeliveryNoteID == nil {
			return apperror.NewValidation("invoice is not linked to a delivery note").
				WithDetail("invoiceId", inv.ID.String())
		}

		r := returns.NewDeliveryNoteReturn(src.CustomerID, *inv.DeliveryNoteID)
		r.InvoiceReturnID = &src.ID
		for _, item := range src.Items {
			r.Items = append(r.Items, returns.DeliveryReturnItem{
				LineID:      id.New(),
				ProductID:   item.ProductID,
				QtyReturned: item.QtyReturned,
			})
		}

		if err := p.dnReturns.Create(ctx, r); err != nil {
			return fmt.Errorf("create delivery note return: %w", err)
		}
		ret = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice return converted to delivery note return",
		"invoice_return_id", invReturnID, "delivery_note_return_id", ret.ID, "actor", actor)
	return ret, nil
}

func orderProductIDs(o *salesorder.SalesOrder) []id.ID {
	ids := make([]id.ID, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (p *Pipeline) productTaxes(ctx context.Context, ids []id.ID) (map[id.ID]types.Percent, error) {
	prods, err := p.products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	taxes := make(map[id.ID]types.Percent, len(ids))
	for _, pid := range ids {
		prod, ok := prods[pid]
		if !ok {
			return nil, apperror.NewValidation("product not found for order line").
				WithDetail("productId", pid.String())
		}
		taxes[pid] = prod.TaxPct
	}
	return taxes, nil
}

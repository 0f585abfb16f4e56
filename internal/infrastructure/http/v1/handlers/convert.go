package handlers

import (
	"github.com/gin-gonic/gin"

	"orderflow/internal/domain/convert"
)

// ConvertHandler exposes document conversion endpoints. Each endpoint
// takes the source document id and produces a new Draft target document.
type ConvertHandler struct {
	*BaseHandler
	pipeline *convert.Pipeline
}

// NewConvertHandler creates a conversion handler.
func NewConvertHandler(base *BaseHandler, pipeline *convert.Pipeline) *ConvertHandler {
	return &ConvertHandler{BaseHandler: base, pipeline: pipeline}
}

// QuotationToSalesOrder handles POST /quotations/:id/convert/sales-order.
func (h *ConvertHandler) QuotationToSalesOrder(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}
	doc, err := h.pipeline.QuotationToSalesOrder(c.Request.Context(), docID, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// SalesOrderToDeliveryNote handles POST /sales-orders/:id/convert/delivery-note.
func (h *ConvertHandler) SalesOrderToDeliveryNote(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}
	doc, err := h.pipeline.SalesOrderToDeliveryNote(c.Request.Context(), docID, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// SalesOrderToInvoice handles POST /sales-orders/:id/convert/invoice.
func (h *ConvertHandler) SalesOrderToInvoice(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}
	doc, err := h.pipeline.SalesOrderToInvoice(c.Request.Context(), docID, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// DeliveryNoteToInvoice handles POST /delivery-notes/:id/convert/invoice.
func (h *ConvertHandler) DeliveryNoteToInvoice(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}
	doc, err := h.pipeline.DeliveryNoteToInvoice(c.Request.Context(), docID, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// InvoiceToInvoiceReturn handles POST /invoices/:id/convert/invoice-return.
func (h *ConvertHandler) InvoiceToInvoiceReturn(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}
	doc, err := h.pipeline.InvoiceToInvoiceReturn(c.Request.Context(), docID, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// InvoiceReturnToDeliveryNoteReturn handles
// POST /invoice-returns/:id/convert/delivery-note-return.
func (h *ConvertHandler) InvoiceReturnToDeliveryNoteReturn(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}
	doc, err := h.pipeline.InvoiceReturnToDeliveryNoteReturn(c.Request.Context(), docID, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/invoice"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	*DocumentHandler[*invoice.Invoice, dto.CreateInvoiceRequest, dto.UpdateInvoiceRequest]
	service *invoice.Service
}

// NewInvoiceHandler creates an invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, act *activity.Service) *InvoiceHandler {
	h := &InvoiceHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*invoice.Invoice, dto.CreateInvoiceRequest, dto.UpdateInvoiceRequest]{
		Service:  service,
		Activity: act,
		DocType:  invoice.DocType,
		MapCreateDTO: func(req dto.CreateInvoiceRequest) *invoice.Invoice {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateInvoiceRequest, existing *invoice.Invoice) *invoice.Invoice {
			return req.Apply(existing)
		},
		List: h.list,
		// cancel_invoice removes the record entirely regardless of
		// status; the acting user is kept in the log.
		Delete: service.CancelInvoice,
	})
	return h
}

func (h *InvoiceHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := invoice.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

	var err error
	if filter.CustomerID, err = idQuery(c, "customerId"); err != nil {
		return dto.ListResponse{}, err
	}
	if ps := c.Query("paymentStatus"); ps != "" {
		filter.PaymentStatus = &ps
	}
	if filter.DueBefore, err = dateQuery(c, "dueBefore"); err != nil {
		return dto.ListResponse{}, err
	}
	if filter.DateFrom, err = dateQuery(c, "dateFrom"); err != nil {
		return dto.ListResponse{}, err
	}
	if filter.DateTo, err = dateQuery(c, "dateTo"); err != nil {
		return dto.ListResponse{}, err
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		return dto.ListResponse{}, err
	}
	return dto.NewListResponse(result.Items, result.TotalCount, result.Limit, result.Offset), nil
}

// SendEmail handles POST /invoices/:id/send-email.
func (h *InvoiceHandler) SendEmail(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.EmailRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SendEmail(c.Request.Context(), docID, req.To); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "invoice sent")
}

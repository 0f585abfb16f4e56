package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/returns"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// InvoiceReturnHandler handles customer invoice return endpoints.
type InvoiceReturnHandler struct {
	*DocumentHandler[*returns.InvoiceReturn, dto.CreateInvoiceReturnRequest, dto.UpdateInvoiceReturnRequest]
	service *returns.InvoiceReturnService
}

// NewInvoiceReturnHandler creates an invoice return handler.
func NewInvoiceReturnHandler(base *BaseHandler, service *returns.InvoiceReturnService, act *activity.Service) *InvoiceReturnHandler {
	h := &InvoiceReturnHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*returns.InvoiceReturn, dto.CreateInvoiceReturnRequest, dto.UpdateInvoiceReturnRequest]{
		Service:  service,
		Activity: act,
		DocType:  returns.InvoiceReturnDocType,
		MapCreateDTO: func(req dto.CreateInvoiceReturnRequest) *returns.InvoiceReturn {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateInvoiceReturnRequest, existing *returns.InvoiceReturn) *returns.InvoiceReturn {
			return req.Apply(existing)
		},
		List: h.list,
		Delete: func(ctx context.Context, docID id.ID, _ string) error {
			return service.Delete(ctx, docID)
		},
	})
	return h
}

func (h *InvoiceReturnHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := returns.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

	var err error
	if filter.CustomerID, err = idQuery(c, "customerId"); err != nil {
		return dto.ListResponse{}, err
	}
	if filter.SourceID, err = idQuery(c, "invoiceId"); err != nil {
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

// DeliveryReturnHandler handles delivery note return endpoints.
type DeliveryReturnHandler struct {
	*DocumentHandler[*returns.DeliveryNoteReturn, dto.CreateDeliveryReturnRequest, dto.UpdateDeliveryReturnRequest]
	service *returns.DeliveryReturnService
}

// NewDeliveryReturnHandler creates a delivery note return handler.
func NewDeliveryReturnHandler(base *BaseHandler, service *returns.DeliveryReturnService, act *activity.Service) *DeliveryReturnHandler {
	h := &DeliveryReturnHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*returns.DeliveryNoteReturn, dto.CreateDeliveryReturnRequest, dto.UpdateDeliveryReturnRequest]{
		Service:  service,
		Activity: act,
		DocType:  returns.DeliveryReturnDocType,
		MapCreateDTO: func(req dto.CreateDeliveryReturnRequest) *returns.DeliveryNoteReturn {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateDeliveryReturnRequest, existing *returns.DeliveryNoteReturn) *returns.DeliveryNoteReturn {
			return req.Apply(existing)
		},
		List: h.list,
		Delete: func(ctx context.Context, docID id.ID, _ string) error {
			return service.Delete(ctx, docID)
		},
	})
	return h
}

func (h *DeliveryReturnHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := returns.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

	var err error
	if filter.CustomerID, err = idQuery(c, "customerId"); err != nil {
		return dto.ListResponse{}, err
	}
	if filter.SourceID, err = idQuery(c, "deliveryNoteId"); err != nil {
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

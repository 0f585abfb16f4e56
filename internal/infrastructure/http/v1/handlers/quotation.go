package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/quotation"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// QuotationHandler handles quotation endpoints.
type QuotationHandler struct {
	*DocumentHandler[*quotation.Quotation, dto.CreateQuotationRequest, dto.UpdateQuotationRequest]
	service *quotation.Service
}

// NewQuotationHandler creates a quotation handler.
func NewQuotationHandler(base *BaseHandler, service *quotation.Service, act *activity.Service) *QuotationHandler {
	h := &QuotationHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*quotation.Quotation, dto.CreateQuotationRequest, dto.UpdateQuotationRequest]{
		Service:  service,
		Activity: act,
		DocType:  quotation.DocType,
		MapCreateDTO: func(req dto.CreateQuotationRequest) *quotation.Quotation {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateQuotationRequest, existing *quotation.Quotation) *quotation.Quotation {
			return req.Apply(existing)
		},
		List: h.list,
		Delete: func(ctx context.Context, docID id.ID, _ string) error {
			return service.Delete(ctx, docID)
		},
	})
	return h
}

func (h *QuotationHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := quotation.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

	var err error
	if filter.CustomerID, err = idQuery(c, "customerId"); err != nil {
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

// SendEmail handles POST /quotations/:id/send-email.
func (h *QuotationHandler) SendEmail(c *gin.Context) {
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

	h.Success(c, "quotation sent")
}

package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/salesorder"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// SalesOrderHandler handles sales order endpoints.
type SalesOrderHandler struct {
	*DocumentHandler[*salesorder.SalesOrder, dto.CreateSalesOrderRequest, dto.UpdateSalesOrderRequest]
	service *salesorder.Service
}

// NewSalesOrderHandler creates a sales order handler.
func NewSalesOrderHandler(base *BaseHandler, service *salesorder.Service, act *activity.Service) *SalesOrderHandler {
	h := &SalesOrderHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*salesorder.SalesOrder, dto.CreateSalesOrderRequest, dto.UpdateSalesOrderRequest]{
		Service:  service,
		Activity: act,
		DocType:  salesorder.DocType,
		MapCreateDTO: func(req dto.CreateSalesOrderRequest) *salesorder.SalesOrder {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateSalesOrderRequest, existing *salesorder.SalesOrder) *salesorder.SalesOrder {
			return req.Apply(existing)
		},
		List: h.list,
		Delete: func(ctx context.Context, docID id.ID, _ string) error {
			return service.Delete(ctx, docID)
		},
	})
	return h
}

func (h *SalesOrderHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := salesorder.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

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

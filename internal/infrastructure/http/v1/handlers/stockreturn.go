package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/stockreturn"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// StockReturnHandler handles supplier return endpoints.
type StockReturnHandler struct {
	*DocumentHandler[*stockreturn.StockReturn, dto.CreateStockReturnRequest, dto.UpdateStockReturnRequest]
	service *stockreturn.Service
}

// NewStockReturnHandler creates a stock return handler.
func NewStockReturnHandler(base *BaseHandler, service *stockreturn.Service, act *activity.Service) *StockReturnHandler {
	h := &StockReturnHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*stockreturn.StockReturn, dto.CreateStockReturnRequest, dto.UpdateStockReturnRequest]{
		Service:  service,
		Activity: act,
		DocType:  stockreturn.DocType,
		MapCreateDTO: func(req dto.CreateStockReturnRequest) *stockreturn.StockReturn {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateStockReturnRequest, existing *stockreturn.StockReturn) *stockreturn.StockReturn {
			return req.Apply(existing)
		},
		List: h.list,
		Delete: func(ctx context.Context, docID id.ID, _ string) error {
			return service.Delete(ctx, docID)
		},
	})
	return h
}

func (h *StockReturnHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := stockreturn.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

	var err error
	if filter.SupplierID, err = idQuery(c, "supplierId"); err != nil {
		return dto.ListResponse{}, err
	}
	if filter.StockReceiptID, err = idQuery(c, "stockReceiptId"); err != nil {
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

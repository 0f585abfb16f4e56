package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/stockreceipt"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// StockReceiptHandler handles stock receipt endpoints.
type StockReceiptHandler struct {
	*DocumentHandler[*stockreceipt.StockReceipt, dto.CreateStockReceiptRequest, dto.UpdateStockReceiptRequest]
	service *stockreceipt.Service
}

// NewStockReceiptHandler creates a stock receipt handler.
func NewStockReceiptHandler(base *BaseHandler, service *stockreceipt.Service, act *activity.Service) *StockReceiptHandler {
	h := &StockReceiptHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*stockreceipt.StockReceipt, dto.CreateStockReceiptRequest, dto.UpdateStockReceiptRequest]{
		Service:  service,
		Activity: act,
		DocType:  stockreceipt.DocType,
		MapCreateDTO: func(req dto.CreateStockReceiptRequest) *stockreceipt.StockReceipt {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateStockReceiptRequest, existing *stockreceipt.StockReceipt) *stockreceipt.StockReceipt {
			return req.Apply(existing)
		},
		List: h.list,
		Delete: func(ctx context.Context, docID id.ID, _ string) error {
			return service.Delete(ctx, docID)
		},
	})
	return h
}

func (h *StockReceiptHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := stockreceipt.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

	var err error
	if filter.SupplierID, err = idQuery(c, "supplierId"); err != nil {
		return dto.ListResponse{}, err
	}
	if filter.PurchaseOrderID, err = idQuery(c, "purchaseOrderId"); err != nil {
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

package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/purchaseorder"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderHandler handles purchase order endpoints.
type PurchaseOrderHandler struct {
	*DocumentHandler[*purchaseorder.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest]
	service *purchaseorder.Service
}

// NewPurchaseOrderHandler creates a purchase order handler.
func NewPurchaseOrderHandler(base *BaseHandler, service *purchaseorder.Service, act *activity.Service) *PurchaseOrderHandler {
	h := &PurchaseOrderHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*purchaseorder.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest]{
		Service:  service,
		Activity: act,
		DocType:  purchaseorder.DocType,
		MapCreateDTO: func(req dto.CreatePurchaseOrderRequest) *purchaseorder.PurchaseOrder {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdatePurchaseOrderRequest, existing *purchaseorder.PurchaseOrder) *purchaseorder.PurchaseOrder {
			return req.Apply(existing)
		},
		List: h.list,
		Delete: func(ctx context.Context, docID id.ID, _ string) error {
			return service.Delete(ctx, docID)
		},
	})
	return h
}

func (h *PurchaseOrderHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := purchaseorder.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

	var err error
	if filter.SupplierID, err = idQuery(c, "supplierId"); err != nil {
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

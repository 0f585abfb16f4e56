package handlers

import (
	"github.com/gin-gonic/gin"

	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/deliverynote"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// DeliveryNoteHandler handles delivery note endpoints.
type DeliveryNoteHandler struct {
	*DocumentHandler[*deliverynote.DeliveryNote, dto.CreateDeliveryNoteRequest, dto.UpdateDeliveryNoteRequest]
	service *deliverynote.Service
}

// NewDeliveryNoteHandler creates a delivery note handler.
func NewDeliveryNoteHandler(base *BaseHandler, service *deliverynote.Service, act *activity.Service) *DeliveryNoteHandler {
	h := &DeliveryNoteHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*deliverynote.DeliveryNote, dto.CreateDeliveryNoteRequest, dto.UpdateDeliveryNoteRequest]{
		Service:  service,
		Activity: act,
		DocType:  deliverynote.DocType,
		MapCreateDTO: func(req dto.CreateDeliveryNoteRequest) *deliverynote.DeliveryNote {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateDeliveryNoteRequest, existing *deliverynote.DeliveryNote) *deliverynote.DeliveryNote {
			return req.Apply(existing)
		},
		List: h.list,
		// The cancel action removes the note and releases serial claims
		// regardless of status.
		Delete: service.CancelDN,
	})
	return h
}

func (h *DeliveryNoteHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := deliverynote.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}

	var err error
	if filter.CustomerID, err = idQuery(c, "customerId"); err != nil {
		return dto.ListResponse{}, err
	}
	if filter.SalesOrderID, err = idQuery(c, "salesOrderId"); err != nil {
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

// Acknowledge handles POST /delivery-notes/:id/acknowledge.
func (h *DeliveryNoteHandler) Acknowledge(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.AcknowledgeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Acknowledge(c.Request.Context(), docID, req.Name, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

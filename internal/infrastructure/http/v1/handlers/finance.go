package handlers

import (
	"github.com/gin-gonic/gin"

	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/documents/finance"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// CreditNoteHandler handles customer credit note endpoints.
type CreditNoteHandler struct {
	*DocumentHandler[*finance.CreditNote, dto.CreateCreditNoteRequest, dto.UpdateCreditNoteRequest]
	service *finance.CreditNoteService
}

// NewCreditNoteHandler creates a credit note handler.
func NewCreditNoteHandler(base *BaseHandler, service *finance.CreditNoteService, act *activity.Service) *CreditNoteHandler {
	h := &CreditNoteHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*finance.CreditNote, dto.CreateCreditNoteRequest, dto.UpdateCreditNoteRequest]{
		Service:  service,
		Activity: act,
		DocType:  finance.CreditNoteDocType,
		MapCreateDTO: func(req dto.CreateCreditNoteRequest) *finance.CreditNote {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateCreditNoteRequest, existing *finance.CreditNote) *finance.CreditNote {
			return req.Apply(existing)
		},
		List:   h.list,
		Delete: service.DeleteCreditNote,
	})
	return h
}

func (h *CreditNoteHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := finance.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}
	filter.PaymentStatus = c.Query("paymentStatus")

	var err error
	if filter.PartyID, err = idQuery(c, "customerId"); err != nil {
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

// DebitNoteHandler handles supplier debit note endpoints.
type DebitNoteHandler struct {
	*DocumentHandler[*finance.DebitNote, dto.CreateDebitNoteRequest, dto.UpdateDebitNoteRequest]
	service *finance.DebitNoteService
}

// NewDebitNoteHandler creates a debit note handler.
func NewDebitNoteHandler(base *BaseHandler, service *finance.DebitNoteService, act *activity.Service) *DebitNoteHandler {
	h := &DebitNoteHandler{service: service}
	h.DocumentHandler = NewDocumentHandler(base, DocumentHandlerConfig[*finance.DebitNote, dto.CreateDebitNoteRequest, dto.UpdateDebitNoteRequest]{
		Service:  service,
		Activity: act,
		DocType:  finance.DebitNoteDocType,
		MapCreateDTO: func(req dto.CreateDebitNoteRequest) *finance.DebitNote {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateDebitNoteRequest, existing *finance.DebitNote) *finance.DebitNote {
			return req.Apply(existing)
		},
		List:   h.list,
		Delete: service.DeleteDebitNote,
	})
	return h
}

func (h *DebitNoteHandler) list(c *gin.Context) (dto.ListResponse, error) {
	filter := finance.ListFilter{ListFilter: baseDocFilter(h.BaseHandler, c)}
	filter.PaymentStatus = c.Query("paymentStatus")

	var err error
	if filter.PartyID, err = idQuery(c, "supplierId"); err != nil {
		return dto.ListResponse{}, err
	}
	if filter.SourceID, err = idQuery(c, "purchaseOrderId"); err != nil {
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

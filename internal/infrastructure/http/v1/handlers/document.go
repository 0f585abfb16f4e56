package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/core/status"
	"orderflow/internal/domain"
	"orderflow/internal/domain/activity"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// DocumentService is the contract document services expose to the
// generic handler. Listing and deletion vary per document and are
// configured as closures.
type DocumentService[T any] interface {
	GetByID(ctx context.Context, docID id.ID) (T, error)
	Create(ctx context.Context, doc T) error
	Update(ctx context.Context, doc T) error
	Act(ctx context.Context, docID id.ID, action status.Action, actor string) (T, error)
}

// DocumentHandler provides generic HTTP handlers for document entities,
// including the activity endpoints (history, comments, attachments).
type DocumentHandler[T any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service  DocumentService[T]
	activity *activity.Service
	docType  string

	mapCreateDTO func(dto CreateDTO) T
	mapUpdateDTO func(dto UpdateDTO, existing T) T
	listFn       func(c *gin.Context) (dto.ListResponse, error)
	deleteFn     func(ctx context.Context, docID id.ID, actor string) error
}

// DocumentHandlerConfig configures the document handler.
type DocumentHandlerConfig[T any, CreateDTO any, UpdateDTO any] struct {
	Service  DocumentService[T]
	Activity *activity.Service

	// DocType keys activity records (history, comments, attachments).
	DocType string

	MapCreateDTO func(dto CreateDTO) T
	MapUpdateDTO func(dto UpdateDTO, existing T) T

	// List builds the document-specific filter from query parameters.
	List func(c *gin.Context) (dto.ListResponse, error)

	// Delete removes the document; wired per document because some
	// deletes record the acting user.
	Delete func(ctx context.Context, docID id.ID, actor string) error
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler[T any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg DocumentHandlerConfig[T, CreateDTO, UpdateDTO],
) *DocumentHandler[T, CreateDTO, UpdateDTO] {
	return &DocumentHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		activity:     cfg.Activity,
		docType:      cfg.DocType,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		listFn:       cfg.List,
		deleteFn:     cfg.Delete,
	}
}

// List handles GET /{entity}.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	result, err := h.listFn(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get handles GET /{entity}/:id.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Create handles POST /{entity}.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.mapCreateDTO(req)
	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, doc)
}

// Update handles PUT /{entity}/:id. Only Draft documents accept
// updates; the service enforces the lock.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := h.mapUpdateDTO(req, existing)
	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// Delete handles DELETE /{entity}/:id.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.deleteFn(c.Request.Context(), docID, h.Actor(c)); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Act handles POST /{entity}/:id/actions/:action - applies a workflow
// action and returns the updated document.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) Act(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	action := status.Action(c.Param("action"))
	if action == "" {
		h.Error(c, apperror.NewValidation("action is required"))
		return
	}

	doc, err := h.service.Act(c.Request.Context(), docID, action, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// History handles GET /{entity}/:id/history.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) History(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	entries, err := h.activity.History(c.Request.Context(), h.docType, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": entries})
}

// ListComments handles GET /{entity}/:id/comments.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) ListComments(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	comments, err := h.activity.Comments(c.Request.Context(), h.docType, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": comments})
}

// AddComment handles POST /{entity}/:id/comments.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) AddComment(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	// The document must exist before anything is pinned to it.
	if _, err := h.service.GetByID(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	var req dto.CommentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	comment, err := h.activity.AddComment(ctx, h.docType, docID, req.Body, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, comment)
}

// ListAttachments handles GET /{entity}/:id/attachments.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) ListAttachments(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	attachments, err := h.activity.Attachments(c.Request.Context(), h.docType, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": attachments})
}

// AddAttachment handles POST /{entity}/:id/attachments.
func (h *DocumentHandler[T, CreateDTO, UpdateDTO]) AddAttachment(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if _, err := h.service.GetByID(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	var req dto.AttachmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	attachment := &activity.Attachment{
		DocType:    h.docType,
		DocID:      docID,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		StorageKey: req.StorageKey,
		UploadedBy: h.Actor(c),
	}
	if err := h.activity.AddAttachment(ctx, attachment); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, attachment)
}

// --- List query helpers shared by per-document wiring ---

// baseDocFilter parses pagination, search, status and ordering shared
// by all document list endpoints. Documents default to newest first.
func baseDocFilter(h *BaseHandler, c *gin.Context) domain.ListFilter {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Status = c.Query("status")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	return filter
}

// idQuery parses an optional UUID query parameter.
func idQuery(c *gin.Context, key string) (*id.ID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + key + " format")
	}
	return &parsed, nil
}

// dateQuery parses an optional RFC 3339 date or date-time parameter.
func dateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + key + " format").
			WithDetail("expected", "RFC 3339 or YYYY-MM-DD")
	}
	return &t, nil
}

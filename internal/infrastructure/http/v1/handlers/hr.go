package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/domain/hr"
	"orderflow/internal/infrastructure/http/v1/dto"
)

// CandidateHandler handles candidate catalog endpoints.
type CandidateHandler = CatalogHandler[*hr.Candidate, dto.CreateCandidateRequest, dto.UpdateCandidateRequest]

// NewCandidateHandler creates a candidate handler.
func NewCandidateHandler(base *BaseHandler, service *hr.CandidateService) *CandidateHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*hr.Candidate, dto.CreateCandidateRequest, dto.UpdateCandidateRequest]{
		Service:    service.CatalogService,
		EntityName: "candidate",
		MapCreateDTO: func(req dto.CreateCandidateRequest) *hr.Candidate {
			return req.ToModel()
		},
		MapUpdateDTO: func(req dto.UpdateCandidateRequest, existing *hr.Candidate) *hr.Candidate {
			return req.Apply(existing)
		},
	})
}

// HRHandler handles the endpoints beyond candidate CRUD: onboarding
// documents, attendance punches, holidays and tasks.
type HRHandler struct {
	*BaseHandler
	candidates *hr.CandidateService
	attendance *hr.AttendanceService
	tasks      *hr.TaskService
}

// NewHRHandler creates a new HR handler.
func NewHRHandler(base *BaseHandler, candidates *hr.CandidateService, attendance *hr.AttendanceService, tasks *hr.TaskService) *HRHandler {
	return &HRHandler{
		BaseHandler: base,
		candidates:  candidates,
		attendance:  attendance,
		tasks:       tasks,
	}
}

// AttachDocument handles POST /hr/candidates/:id/documents.
func (h *HRHandler) AttachDocument(c *gin.Context) {
	candidateID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.AttachCandidateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.candidates.AttachDocument(c.Request.Context(), candidateID, req.FileName, req.FilePath)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// ListDocuments handles GET /hr/candidates/:id/documents.
func (h *HRHandler) ListDocuments(c *gin.Context) {
	candidateID, ok := h.ParseID(c)
	if !ok {
		return
	}

	docs, err := h.candidates.Documents(c.Request.Context(), candidateID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, docs)
}

// requestUserID resolves the authenticated user's id.
func (h *HRHandler) requestUserID(c *gin.Context) (id.ID, bool) {
	userID, err := id.Parse(h.GetUserID(c))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("unknown user"))
		return id.Nil(), false
	}
	return userID, true
}

// Punch handles POST /hr/attendance/punch. The punch belongs to the
// authenticated user; the body may carry an explicit timestamp.
func (h *HRHandler) Punch(c *gin.Context) {
	userID, ok := h.requestUserID(c)
	if !ok {
		return
	}
	// An empty body punches at the current time.
	var req dto.PunchRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	rec, err := h.attendance.Punch(c.Request.Context(), userID, at)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// parseDayQuery reads a yyyy-mm-dd query parameter.
func (h *HRHandler) parseDayQuery(c *gin.Context, key string, defaultVal time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal, true
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date, expected yyyy-mm-dd").
			WithDetail(key, raw))
		return time.Time{}, false
	}
	return day, true
}

// MyAttendance handles GET /hr/attendance?from=&to= for the
// authenticated user. The range defaults to the current month.
func (h *HRHandler) MyAttendance(c *gin.Context) {
	userID, ok := h.requestUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	from, ok := h.parseDayQuery(c, "from", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()))
	if !ok {
		return
	}
	to, ok := h.parseDayQuery(c, "to", now)
	if !ok {
		return
	}

	records, err := h.attendance.Range(c.Request.Context(), userID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, records)
}

// CreateHoliday handles POST /hr/holidays.
func (h *HRHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	holiday := req.ToModel()
	if err := h.attendance.AddHoliday(c.Request.Context(), holiday); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, holiday)
}

// ListHolidays handles GET /hr/holidays?from=&to=. The range defaults
// to the current year.
func (h *HRHandler) ListHolidays(c *gin.Context) {
	now := time.Now()
	from, ok := h.parseDayQuery(c, "from", time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()))
	if !ok {
		return
	}
	to, ok := h.parseDayQuery(c, "to", time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location()))
	if !ok {
		return
	}

	holidays, err := h.attendance.Holidays(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, holidays)
}

// CreateTask handles POST /hr/tasks.
func (h *HRHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task := req.ToModel()
	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, task)
}

// GetTask handles GET /hr/tasks/:id.
func (h *HRHandler) GetTask(c *gin.Context) {
	taskID, ok := h.ParseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// UpdateTask handles PUT /hr/tasks/:id.
func (h *HRHandler) UpdateTask(c *gin.Context) {
	taskID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.tasks.GetByID(ctx, taskID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := req.Apply(existing)
	if err := h.tasks.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// DeleteTask handles DELETE /hr/tasks/:id.
func (h *HRHandler) DeleteTask(c *gin.Context) {
	taskID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), taskID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListTasks handles GET /hr/tasks?assignedTo=&status=.
func (h *HRHandler) ListTasks(c *gin.Context) {
	var assignee *id.ID
	if raw := c.Query("assignedTo"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid assignedTo").
				WithDetail("assignedTo", raw))
			return
		}
		assignee = &parsed
	}

	tasks, err := h.tasks.List(c.Request.Context(), assignee, c.Query("status"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tasks)
}

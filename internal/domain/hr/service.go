package hr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/core/numerator"
	"orderflow/internal/core/tx"
	"orderflow/internal/domain"
	"orderflow/pkg/logger"
)

// CandidateService provides business logic for candidate onboarding.
// Common CRUD is delegated to the embedded domain.CatalogService.
type CandidateService struct {
	*domain.CatalogService[*Candidate]
	repo      CandidateRepository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewCandidateService creates a new candidate service.
func NewCandidateService(repo CandidateRepository, txManager tx.Manager, gen numerator.Generator) *CandidateService {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Candidate]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "candidate",
	})

	svc := &CandidateService{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.syncName)

	return svc
}

// prepareForCreate assigns the next employee code when the caller did
// not supply one. Codes look like STA0001.
func (s *CandidateService) prepareForCreate(ctx context.Context, c *Candidate) error {
	if c.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.CompactConfig("STA", 4), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate employee code: %w", err)
		}
		c.Code = code
	}
	return s.syncName(ctx, c)
}

// syncName keeps the catalog name in step with the person's names.
func (s *CandidateService) syncName(ctx context.Context, c *Candidate) error {
	c.Name = strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	return nil
}

// FindByEmail retrieves a candidate by email.
func (s *CandidateService) FindByEmail(ctx context.Context, email string) (*Candidate, error) {
	return s.repo.FindByEmail(ctx, email)
}

// AttachDocument records an uploaded onboarding document for the
// candidate.
func (s *CandidateService) AttachDocument(ctx context.Context, candidateID id.ID, fileName, filePath string) (*CandidateDocument, error) {
	if fileName == "" || filePath == "" {
		return nil, apperror.NewValidation("fileName and filePath are required")
	}

	doc := &CandidateDocument{
		ID:          id.New(),
		CandidateID: candidateID,
		FileName:    fileName,
		FilePath:    filePath,
		UploadedAt:  time.Now(),
	}
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.CatalogService.GetByID(ctx, candidateID); err != nil {
			return err
		}
		return s.repo.AddDocument(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "candidate document attached",
		"candidate_id", candidateID, "file_name", fileName)
	return doc, nil
}

// Documents returns the candidate's uploaded documents, oldest first.
func (s *CandidateService) Documents(ctx context.Context, candidateID id.ID) ([]CandidateDocument, error) {
	return s.repo.ListDocuments(ctx, candidateID)
}

// AttendanceService records punches and manages holidays.
type AttendanceService struct {
	repo      AttendanceRepository
	txManager tx.Manager
}

// NewAttendanceService creates a new attendance service.
func NewAttendanceService(repo AttendanceRepository, txManager tx.Manager) *AttendanceService {
	return &AttendanceService{repo: repo, txManager: txManager}
}

// Punch records a check-in or check-out for the user at the given
// time. The first punch of a day creates the day record; subsequent
// punches extend it and refresh the total.
func (s *AttendanceService) Punch(ctx context.Context, userID id.ID, at time.Time) (*Attendance, error) {
	if id.IsNil(userID) {
		return nil, apperror.NewValidation("userId is required")
	}

	var rec *Attendance
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		day := DayOf(at)
		existing, err := s.repo.GetDay(ctx, userID, day)
		switch {
		case apperror.IsNotFound(err):
			existing = &Attendance{ID: id.New(), UserID: userID, Day: day}
		case err != nil:
			return fmt.Errorf("load attendance: %w", err)
		}

		existing.Punch(at)
		if err := s.repo.Save(ctx, existing); err != nil {
			return fmt.Errorf("save attendance: %w", err)
		}
		rec = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "attendance punch recorded",
		"user_id", userID, "punches", len(rec.Punches), "total_hours", rec.TotalHours)
	return rec, nil
}

// Day returns the user's attendance record for one day.
func (s *AttendanceService) Day(ctx context.Context, userID id.ID, day time.Time) (*Attendance, error) {
	return s.repo.GetDay(ctx, userID, DayOf(day))
}

// Range returns the user's attendance records with day in [from, to].
func (s *AttendanceService) Range(ctx context.Context, userID id.ID, from, to time.Time) ([]Attendance, error) {
	if to.Before(from) {
		return nil, apperror.NewValidation("to must not be before from")
	}
	return s.repo.ListRange(ctx, userID, DayOf(from), DayOf(to))
}

// AddHoliday registers a government holiday. A second holiday on the
// same date comes back as a duplicate.
func (s *AttendanceService) AddHoliday(ctx context.Context, h *Holiday) error {
	if err := h.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(h.ID) {
		h.ID = id.New()
	}
	h.Day = DayOf(h.Day)
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateHoliday(ctx, h)
	})
}

// Holidays returns the holidays with date in [from, to].
func (s *AttendanceService) Holidays(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	return s.repo.ListHolidays(ctx, DayOf(from), DayOf(to))
}

// IsHoliday reports whether the day is a government holiday.
func (s *AttendanceService) IsHoliday(ctx context.Context, day time.Time) (bool, error) {
	return s.repo.IsHoliday(ctx, DayOf(day))
}

// TaskService provides business logic for task assignment.
type TaskService struct {
	repo      TaskRepository
	txManager tx.Manager
}

// NewTaskService creates a new task service.
func NewTaskService(repo TaskRepository, txManager tx.Manager) *TaskService {
	return &TaskService{repo: repo, txManager: txManager}
}

// Create validates and stores a new task.
func (s *TaskService) Create(ctx context.Context, t *Task) error {
	if err := t.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(t.ID) {
		t.ID = id.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, t)
	})
}

// GetByID retrieves a task by id.
func (s *TaskService) GetByID(ctx context.Context, taskID id.ID) (*Task, error) {
	return s.repo.GetByID(ctx, taskID)
}

// Update validates and saves an existing task.
func (s *TaskService) Update(ctx context.Context, t *Task) error {
	if err := t.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, t)
	})
}

// Delete removes a task permanently.
func (s *TaskService) Delete(ctx context.Context, taskID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, taskID)
	})
}

// List returns tasks, optionally restricted to one assignee and one
// status.
func (s *TaskService) List(ctx context.Context, assignee *id.ID, status string) ([]Task, error) {
	if status != "" {
		switch status {
		case TaskNotStarted, TaskInProgress, TaskCompleted, TaskAwaitingFeedback:
		default:
			return nil, apperror.NewValidation("unknown task status").
				WithDetail("status", status)
		}
	}
	return s.repo.List(ctx, assignee, status)
}

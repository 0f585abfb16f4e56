package hr

import (
	"context"
	"time"

	"orderflow/internal/core/id"
	"orderflow/internal/domain"
)

// CandidateRepository defines the interface for Candidate persistence.
type CandidateRepository interface {
	domain.CatalogRepository[*Candidate]

	// FindByEmail retrieves a candidate by email.
	FindByEmail(ctx context.Context, email string) (*Candidate, error)

	// AddDocument stores one uploaded document record.
	AddDocument(ctx context.Context, doc *CandidateDocument) error

	// ListDocuments returns a candidate's documents, oldest first.
	ListDocuments(ctx context.Context, candidateID id.ID) ([]CandidateDocument, error)
}

// AttendanceRepository persists attendance days and holidays.
type AttendanceRepository interface {
	// GetDay returns the user's record for the day, or a not-found
	// error when no punch was recorded yet.
	GetDay(ctx context.Context, userID id.ID, day time.Time) (*Attendance, error)

	// Save inserts or replaces the day record; (user, day) is unique.
	Save(ctx context.Context, record *Attendance) error

	// ListRange returns the user's records with day in [from, to].
	ListRange(ctx context.Context, userID id.ID, from, to time.Time) ([]Attendance, error)

	// CreateHoliday stores a holiday; the date is unique.
	CreateHoliday(ctx context.Context, h *Holiday) error

	// ListHolidays returns holidays with date in [from, to].
	ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error)

	// IsHoliday reports whether the day is a government holiday.
	IsHoliday(ctx context.Context, day time.Time) (bool, error)
}

// TaskRepository persists tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, taskID id.ID) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, taskID id.ID) error

	// List returns tasks, optionally restricted to one assignee and
	// one status, newest first.
	List(ctx context.Context, assignee *id.ID, status string) ([]Task, error)
}

package hr

import (
	"context"
	"time"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
)

// Task statuses.
const (
	TaskNotStarted       = "Not Started"
	TaskInProgress       = "In Progress"
	TaskCompleted        = "Completed"
	TaskAwaitingFeedback = "Awaiting Feedback"
)

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task is a work item assigned to a user. Status moves freely between
// the named values; there is no workflow machine behind it.
type Task struct {
	ID         id.ID     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Status     string    `db:"status" json:"status"`
	StartDate  time.Time `db:"start_date" json:"startDate"`
	DueDate    time.Time `db:"due_date" json:"dueDate"`
	AssignedTo id.ID     `db:"assigned_to" json:"assignedTo"`
	Priority   string    `db:"priority" json:"priority"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// NewTask creates a Task in Not Started status.
func NewTask(name string, assignedTo id.ID) *Task {
	return &Task{
		ID:         id.New(),
		Name:       name,
		Status:     TaskNotStarted,
		AssignedTo: assignedTo,
		Priority:   PriorityMedium,
		CreatedAt:  time.Now(),
	}
}

// Validate implements entity.Validatable.
func (t *Task) Validate(ctx context.Context) error {
	if t.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	switch t.Status {
	case TaskNotStarted, TaskInProgress, TaskCompleted, TaskAwaitingFeedback:
	default:
		return apperror.NewValidation("unknown task status").
			WithDetail("status", t.Status)
	}
	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return apperror.NewValidation("priority must be Low, Medium or High").
			WithDetail("priority", t.Priority)
	}
	if id.IsNil(t.AssignedTo) {
		return apperror.NewValidation("assignedTo is required").
			WithDetail("field", "assignedTo")
	}
	return nil
}

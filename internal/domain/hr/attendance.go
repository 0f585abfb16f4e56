package hr

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
)

// PunchList is the ordered punch timestamps of one day, stored as
// jsonb. Even positions are check-ins, odd positions check-outs.
type PunchList []time.Time

// Attendance is one user's punch record for one day. A user has at
// most one record per day.
type Attendance struct {
	ID      id.ID     `db:"id" json:"id"`
	UserID  id.ID     `db:"user_id" json:"userId"`
	Day     time.Time `db:"work_date" json:"day"`
	Punches PunchList `db:"punches" json:"punches"`

	// TotalHours covers completed in/out pairs only, rounded to 2
	// decimal places
	TotalHours decimal.Decimal `db:"total_hours" json:"totalHours"`
}

// Punch appends a punch and recomputes TotalHours from the completed
// pairs. A dangling check-in contributes nothing until it is closed.
func (a *Attendance) Punch(at time.Time) {
	a.Punches = append(a.Punches, at)

	total := decimal.Zero
	for i := 0; i+1 < len(a.Punches); i += 2 {
		total = total.Add(decimal.NewFromFloat(a.Punches[i+1].Sub(a.Punches[i]).Hours()))
	}
	a.TotalHours = total.Round(2)
}

// DayOf truncates a timestamp to its calendar day.
func DayOf(at time.Time) time.Time {
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
}

// Holiday is a government holiday, one per date.
type Holiday struct {
	ID          id.ID     `db:"id" json:"id"`
	Day         time.Time `db:"holiday_date" json:"day"`
	Description string    `db:"description" json:"description,omitempty"`
}

// Validate implements entity.Validatable.
func (h *Holiday) Validate(ctx context.Context) error {
	if h.Day.IsZero() {
		return apperror.NewValidation("holiday date is required").
			WithDetail("field", "day")
	}
	return nil
}

package hr_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/domain/hr"
	"orderflow/internal/infrastructure/storage/postgres"
)

const pgUniqueViolation = "23505"

// AttendanceRepo persists attendance days and government holidays.
type AttendanceRepo struct {
	txManager *postgres.TxManager
}

var _ hr.AttendanceRepository = (*AttendanceRepo)(nil)

// NewAttendanceRepo creates an attendance repository.
func NewAttendanceRepo(txManager *postgres.TxManager) *AttendanceRepo {
	return &AttendanceRepo{txManager: txManager}
}

func (r *AttendanceRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetDay returns the user's record for the day.
func (r *AttendanceRepo) GetDay(ctx context.Context, userID id.ID, day time.Time) (*hr.Attendance, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[hr.Attendance]()...).
		From("attendance").
		Where(squirrel.Eq{"user_id": userID, "work_date": day}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec hr.Attendance
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("attendance", day.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return &rec, nil
}

// Save inserts the day record or replaces its punches and total when
// the (user, day) row already exists.
func (r *AttendanceRepo) Save(ctx context.Context, record *hr.Attendance) error {
	data := postgres.StructToMap(record)
	sql, args, err := r.builder().
		Insert("attendance").
		SetMap(data).
		Suffix("ON CONFLICT (user_id, work_date) DO UPDATE SET punches = EXCLUDED.punches, total_hours = EXCLUDED.total_hours").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// ListRange returns the user's records with day in [from, to].
func (r *AttendanceRepo) ListRange(ctx context.Context, userID id.ID, from, to time.Time) ([]hr.Attendance, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[hr.Attendance]()...).
		From("attendance").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"work_date": from}).
		Where(squirrel.LtOrEq{"work_date": to}).
		OrderBy("work_date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []hr.Attendance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select attendance: %w", err)
	}
	return records, nil
}

// CreateHoliday stores a holiday. A second holiday on the same date
// violates the unique index and surfaces as a duplicate.
func (r *AttendanceRepo) CreateHoliday(ctx context.Context, h *hr.Holiday) error {
	data := postgres.StructToMap(h)
	sql, args, err := r.builder().
		Insert("government_holidays").
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("government_holidays", "holiday_date", h.Day.Format("2006-01-02")).WithCause(err)
		}
		return fmt.Errorf("insert government_holidays: %w", err)
	}
	return nil
}

// ListHolidays returns holidays with date in [from, to].
func (r *AttendanceRepo) ListHolidays(ctx context.Context, from, to time.Time) ([]hr.Holiday, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[hr.Holiday]()...).
		From("government_holidays").
		Where(squirrel.GtOrEq{"holiday_date": from}).
		Where(squirrel.LtOrEq{"holiday_date": to}).
		OrderBy("holiday_date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var holidays []hr.Holiday
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &holidays, sql, args...); err != nil {
		return nil, fmt.Errorf("select government_holidays: %w", err)
	}
	return holidays, nil
}

// IsHoliday reports whether the day is a government holiday.
func (r *AttendanceRepo) IsHoliday(ctx context.Context, day time.Time) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From("government_holidays").
		Where(squirrel.Eq{"holiday_date": day}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists government_holidays: %w", err)
	}
	return true, nil
}

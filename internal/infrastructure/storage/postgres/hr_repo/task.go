package hr_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/domain/hr"
	"orderflow/internal/infrastructure/storage/postgres"
)

// TaskRepo persists tasks.
type TaskRepo struct {
	txManager *postgres.TxManager
}

var _ hr.TaskRepository = (*TaskRepo)(nil)

// NewTaskRepo creates a task repository.
func NewTaskRepo(txManager *postgres.TxManager) *TaskRepo {
	return &TaskRepo{txManager: txManager}
}

func (r *TaskRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new task.
func (r *TaskRepo) Create(ctx context.Context, t *hr.Task) error {
	data := postgres.StructToMap(t)
	sql, args, err := r.builder().
		Insert("tasks").
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert tasks: %w", err)
	}
	return nil
}

// GetByID retrieves a task by id.
func (r *TaskRepo) GetByID(ctx context.Context, taskID id.ID) (*hr.Task, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[hr.Task]()...).
		From("tasks").
		Where(squirrel.Eq{"id": taskID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t hr.Task
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("task", taskID.String())
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// Update saves an existing task.
func (r *TaskRepo) Update(ctx context.Context, t *hr.Task) error {
	data := postgres.StructToMap(t)
	delete(data, "id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update("tasks").
		SetMap(data).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update tasks: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("task", t.ID.String())
	}
	return nil
}

// Delete removes a task.
func (r *TaskRepo) Delete(ctx context.Context, taskID id.ID) error {
	sql, args, err := r.builder().
		Delete("tasks").
		Where(squirrel.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("task", taskID.String())
	}
	return nil
}

// List returns tasks, optionally restricted to one assignee and one
// status, newest first.
func (r *TaskRepo) List(ctx context.Context, assignee *id.ID, status string) ([]hr.Task, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[hr.Task]()...).
		From("tasks").
		OrderBy("created_at DESC")
	if assignee != nil {
		q = q.Where(squirrel.Eq{"assigned_to": *assignee})
	}
	if status != "" {
		q = q.Where(squirrel.Eq{"status": status})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var tasks []hr.Task
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &tasks, sql, args...); err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	return tasks, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"

	sq "github.com/Masterminds/squirrel"

	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	"taskapp/pkg/tracing"
)

type TaskRepository struct {
	db      *sqlite.DB
	scanner *sqlite.Scanner
}

func NewTaskRepository(db *sqlite.DB) port.TaskRepository {
	return &TaskRepository{
		db:      db,
		scanner: sqlite.NewScanner(),
	}
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	query := tr.db.QueryBuilder.Insert("tasks").
		Columns("uuid", "description", "completed", "user_id", "created_at", "updated_at").
		Values(task.UUID.String(), task.Description, task.Completed, task.UserId, task.CreatedAt, task.UpdatedAt)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	_, err = tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error creating task", "error", err)
		return domain.Task{}, err
	}

	return tr.GetByUUID(ctx, task.UserId, task.UUID.String())
}

// GetByUUID filters by uuid and owner in the same predicate, so a task
// of another user surfaces as ErrNotFound.
func (tr *TaskRepository) GetByUUID(ctx context.Context, ownerID int, uid string) (domain.Task, error) {
	query := tr.db.QueryBuilder.Select("*").
		From("tasks").
		Where(sq.Eq{"uuid": uid, "user_id": ownerID}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.Task{}, err
	}

	defer rows.Close()

	var task domain.Task

	if err := tr.scanner.ScanRowToStruct(rows, &task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, port.ErrNotFound
		}

		slog.Error("Error getting task by uuid", "error", err)
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) List(ctx context.Context, ownerID int, q port.TaskQuery) ([]domain.Task, error) {
	query := tr.db.QueryBuilder.Select("*").
		From("tasks").
		Where(sq.Eq{"user_id": ownerID})

	if q.Completed != nil {
		query = query.Where(sq.Eq{"completed": *q.Completed})
	}

	if q.SortColumn != "" {
		direction := "DESC"

		if q.SortAsc {
			direction = "ASC"
		}

		query = query.OrderBy(q.SortColumn + " " + direction)
	}

	if q.Limit > 0 {
		query = query.Limit(uint64(q.Limit))
	} else if q.Skip > 0 {
		// sqlite requires LIMIT before OFFSET
		query = query.Limit(uint64(math.MaxInt32))
	}

	if q.Skip > 0 {
		query = query.Offset(uint64(q.Skip))
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	tasks := []domain.Task{}

	err = tracing.DatabaseSpanWrapper(ctx, "tasks", "list", stmt, func(ctx context.Context) error {
		rows, err := tr.db.QueryContext(ctx, stmt, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		return tr.scanner.ScanRowsToSlice(rows, &tasks)
	})

	if err != nil {
		slog.Error("Error listing tasks", "error", err)
		return nil, err
	}

	return tasks, nil
}

func (tr *TaskRepository) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	query := tr.db.QueryBuilder.Update("tasks").
		SetMap(map[string]interface{}{
			"description": task.Description,
			"completed":   task.Completed,
			"updated_at":  task.UpdatedAt,
		}).
		Where(sq.Eq{"uuid": task.UUID.String(), "user_id": task.UserId})

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return domain.Task{}, err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return domain.Task{}, err
	}

	if affected == 0 {
		return domain.Task{}, port.ErrNotFound
	}

	return tr.GetByUUID(ctx, task.UserId, task.UUID.String())
}

// DeleteByUUID returns the removed task.
func (tr *TaskRepository) DeleteByUUID(ctx context.Context, ownerID int, uid string) (domain.Task, error) {
	task, err := tr.GetByUUID(ctx, ownerID, uid)

	if err != nil {
		return domain.Task{}, err
	}

	query := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"uuid": uid, "user_id": ownerID})

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	if _, err := tr.db.ExecContext(ctx, stmt, args...); err != nil {
		slog.Error("Error deleting task", "error", err)
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) DeleteAllByOwner(ctx context.Context, ownerID int) error {
	query := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"user_id": ownerID})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	_, err = tr.db.ExecContext(ctx, stmt, args...)

	return err
}

package repository

import (
	"context"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	database "taskapp/internal/adapter/database/postgres"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
)

const taskColumns = "id, uuid, description, completed, user_id, created_at, updated_at"

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) port.TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task

	err := row.Scan(
		&task.ID,
		&task.UUID,
		&task.Description,
		&task.Completed,
		&task.UserId,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, port.ErrNotFound
	}

	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	query := tr.db.QueryBuilder.Insert("tasks").
		Columns("uuid", "description", "completed", "user_id", "created_at", "updated_at").
		Values(task.UUID.String(), task.Description, task.Completed, task.UserId, task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING " + taskColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	saved, err := scanTask(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		slog.Error("Error creating task", "error", err)
		return domain.Task{}, err
	}

	return saved, nil
}

func (tr *TaskRepository) GetByUUID(ctx context.Context, ownerID int, uid string) (domain.Task, error) {
	query := tr.db.QueryBuilder.Select(taskColumns).
		From("tasks").
		Where(sq.Eq{"uuid": uid, "user_id": ownerID}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	return scanTask(tr.db.QueryRow(ctx, stmt, args...))
}

func (tr *TaskRepository) List(ctx context.Context, ownerID int, q port.TaskQuery) ([]domain.Task, error) {
	query := tr.db.QueryBuilder.Select(taskColumns).
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
	}

	if q.Skip > 0 {
		query = query.Offset(uint64(q.Skip))
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	tasks := []domain.Task{}

	for rows.Next() {
		task, err := scanTask(rows)

		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (tr *TaskRepository) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	query := tr.db.QueryBuilder.Update("tasks").
		SetMap(map[string]interface{}{
			"description": task.Description,
			"completed":   task.Completed,
			"updated_at":  task.UpdatedAt,
		}).
		Where(sq.Eq{"uuid": task.UUID.String(), "user_id": task.UserId}).
		Suffix("RETURNING " + taskColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	return scanTask(tr.db.QueryRow(ctx, stmt, args...))
}

func (tr *TaskRepository) DeleteByUUID(ctx context.Context, ownerID int, uid string) (domain.Task, error) {
	query := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"uuid": uid, "user_id": ownerID}).
		Suffix("RETURNING " + taskColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	return scanTask(tr.db.QueryRow(ctx, stmt, args...))
}

func (tr *TaskRepository) DeleteAllByOwner(ctx context.Context, ownerID int) error {
	stmt, args, err := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"user_id": ownerID}).
		ToSql()

	if err != nil {
		return err
	}

	_, err = tr.db.Exec(ctx, stmt, args...)

	return err
}

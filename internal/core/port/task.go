package port

import (
	"context"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
)

// TaskQuery narrows and orders an owner-scoped task listing. A nil
// Completed means no filter; an empty SortColumn leaves the ordering to
// the database; a Limit of zero means unbounded.
type TaskQuery struct {
	Completed  *bool
	SortColumn string
	SortAsc    bool
	Limit      int
	Skip       int
}

type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	GetByUUID(ctx context.Context, ownerID int, uuid string) (domain.Task, error)
	List(ctx context.Context, ownerID int, query TaskQuery) ([]domain.Task, error)
	Update(ctx context.Context, task domain.Task) (domain.Task, error)
	DeleteByUUID(ctx context.Context, ownerID int, uuid string) (domain.Task, error)
	DeleteAllByOwner(ctx context.Context, ownerID int) error
}

type TaskService interface {
	Create(ctx context.Context, ownerID int, req *request.TaskRequest) (domain.Task, error)
	GetByUUID(ctx context.Context, ownerID int, uuid string) (domain.Task, error)
	List(ctx context.Context, ownerID int, query TaskQuery) ([]domain.Task, error)
	Update(ctx context.Context, ownerID int, uuid string, req *request.UpdateTaskRequest) (domain.Task, error)
	Delete(ctx context.Context, ownerID int, uuid string) (domain.Task, error)
}

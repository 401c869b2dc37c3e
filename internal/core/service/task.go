package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
)

type TaskService struct {
	repo port.TaskRepository
}

func NewTaskService(repo port.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, ownerID int, req *request.TaskRequest) (domain.Task, error) {
	now := time.Now()

	task := domain.Task{
		UUID:        uuid.New(),
		Description: strings.TrimSpace(req.Description),
		UserId:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	return s.repo.Create(ctx, task)
}

func (s *TaskService) GetByUUID(ctx context.Context, ownerID int, uid string) (domain.Task, error) {
	return s.repo.GetByUUID(ctx, ownerID, uid)
}

func (s *TaskService) List(ctx context.Context, ownerID int, query port.TaskQuery) ([]domain.Task, error) {
	return s.repo.List(ctx, ownerID, query)
}

func (s *TaskService) Update(ctx context.Context, ownerID int, uid string, req *request.UpdateTaskRequest) (domain.Task, error) {
	task, err := s.repo.GetByUUID(ctx, ownerID, uid)

	if err != nil {
		return domain.Task{}, err
	}

	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}

	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	task.UpdatedAt = time.Now()

	return s.repo.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, ownerID int, uid string) (domain.Task, error) {
	return s.repo.DeleteByUUID(ctx, ownerID, uid)
}

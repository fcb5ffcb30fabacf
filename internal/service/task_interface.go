package service

import (
	"context"

	"taskboard/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	List(context.Context) ([]task.Task, error)
	GetByID(context.Context, int64) (*task.Task, error)
	Create(ctx context.Context, title string, completed bool) (*task.Task, error)
	Update(context.Context, int64, task.Patch) (*task.Task, error)
	Delete(context.Context, int64) error
}

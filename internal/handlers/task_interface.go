package handlers

import (
	"context"

	"taskboard/internal/models/task"
	"taskboard/internal/service"
)

type Service interface {
	ListTasks(context.Context) ([]task.Task, error)
	GetTask(ctx context.Context, rawID string) (*task.Task, error)
	CreateTask(ctx context.Context, title string, completed bool) (*task.Task, error)
	UpdateTask(ctx context.Context, rawID string, patch task.Patch) (*task.Task, error)
	DeleteTask(ctx context.Context, rawID string) error
}

type HealthReporter interface {
	Report(context.Context) service.HealthReport
}

package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/logger"
	"taskboard/internal/models/task"
	repo "taskboard/internal/repository"

	"go.uber.org/zap"
)

const (
	DefaultListCacheKey = "tasks:all"
	DefaultListCacheTTL = 60 * time.Second
)

type CacheConfig struct {
	Key string
	TTL time.Duration
}

// TaskService - CRUD по задачам. Полный список читается через кэш,
// любая запись сбрасывает его целиком.
type TaskService struct {
	repo TaskRepository
	list *cache.ReadThrough[[]task.Task]
}

// NewTaskService: store может быть nil, тогда сервис работает только с хранилищем.
func NewTaskService(repo TaskRepository, store cache.Store, cfg CacheConfig) *TaskService {
	if cfg.Key == "" {
		cfg.Key = DefaultListCacheKey
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultListCacheTTL
	}

	return &TaskService{
		repo: repo,
		list: cache.NewReadThrough[[]task.Task](store, cfg.Key, cfg.TTL),
	}
}

// ParseTaskID принимает только положительное целое.
func ParseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError("id", "not_positive_integer", "Invalid task ID")
	}
	return id, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]task.Task, error) {
	tasks, err := s.list.Get(ctx, s.repo.List)
	if err != nil {
		logger.Error("Service: Не удалось получить список задач", err)
		return nil, NewStoreUnavailable("Failed to fetch tasks", err)
	}

	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, rawID string) (*task.Task, error) {
	id, err := ParseTaskID(rawID)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("task_id", id))
			return nil, NewNotFound(id)
		}
		logger.Error("Service: Не удалось получить задачу", err, zap.Int64("task_id", id))
		return nil, NewStoreUnavailable("Failed to fetch task", err)
	}

	return found, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title string, completed bool) (*task.Task, error) {
	title = task.NormalizeTitle(title)
	if title == "" {
		return nil, NewValidationError("title", "empty", "Title is required")
	}

	created, err := s.repo.Create(ctx, title, completed)
	if err != nil {
		logger.Error("Service: Не удалось создать задачу", err)
		return nil, NewStoreUnavailable("Failed to create task", err)
	}

	s.invalidateList(ctx)

	logger.Info("Service: Задача создана", zap.Int64("task_id", created.ID))
	return created, nil
}

// UpdateTask меняет только переданные поля. Пустой после обрезки title здесь
// не отклоняется, в отличие от CreateTask.
func (s *TaskService) UpdateTask(ctx context.Context, rawID string, patch task.Patch) (*task.Task, error) {
	id, err := ParseTaskID(rawID)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return nil, NewValidationError("body", "no_fields", "No valid fields to update")
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			logger.Info("Service: Задача не найдена", zap.Int64("task_id", id))
			return nil, NewNotFound(id)
		case errors.Is(err, repo.ErrNothingToUpdate):
			return nil, NewValidationError("body", "no_fields", "No valid fields to update")
		}
		logger.Error("Service: Не удалось обновить задачу", err, zap.Int64("task_id", id))
		return nil, NewStoreUnavailable("Failed to update task", err)
	}

	s.invalidateList(ctx)

	logger.Info("Service: Задача обновлена", zap.Int64("task_id", id))
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, rawID string) error {
	id, err := ParseTaskID(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("task_id", id))
			return NewNotFound(id)
		}
		logger.Error("Service: Не удалось удалить задачу", err, zap.Int64("task_id", id))
		return NewStoreUnavailable("Failed to delete task", err)
	}

	s.invalidateList(ctx)

	logger.Info("Service: Задача удалена", zap.Int64("task_id", id))
	return nil
}

// запись уже прошла, поэтому отмена запроса клиентом не должна помешать сбросу кэша
func (s *TaskService) invalidateList(ctx context.Context) {
	s.list.Invalidate(context.WithoutCancel(ctx))
}

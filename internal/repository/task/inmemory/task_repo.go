package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/models/task"
	repo "taskboard/internal/repository"
)

// TaskStorage хранит задачи в памяти процесса. id выдаются монотонно, как SERIAL в Postgres.
type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	nextID  int64
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Хранилище в памяти доступно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, title string, completed bool) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.nextID++
	created := &task.Task{
		ID:        s.nextID,
		Title:     title,
		Completed: completed,
		CreatedAt: time.Now().UTC(),
	}

	s.storage[created.ID] = created
	s.ids = append(s.ids, created.ID)

	result := *created
	return &result, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	result := *taskToGet
	return &result, nil
}

// List возвращает все задачи от новых к старым; при равном created_at выше больший id.
func (s *TaskStorage) List(ctx context.Context) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, *s.storage[id])
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})

	return res, nil
}

func (s *TaskStorage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	if patch.IsEmpty() {
		return nil, repo.ErrNothingToUpdate
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	patch.Apply(existing)

	result := *existing
	return &result, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"taskboard/internal/models/task"
	"taskboard/internal/repository"
	"taskboard/internal/repository/task/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	first, err := storage.Create(ctx, "first", false)
	require.NoError(t, err)
	second, err := storage.Create(ctx, "second", true)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.True(t, second.Completed)

	// возвращается копия, а не указатель на хранимую задачу
	first.Title = "mutated"
	stored, err := storage.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Title)
}

func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created, err := storage.Create(ctx, "Test Get Task", false)
	require.NoError(t, err)

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	_, err = storage.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskStorage_List(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	tasks, err := storage.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	for i := 1; i <= 3; i++ {
		_, err := storage.Create(ctx, fmt.Sprintf("task %d", i), false)
		require.NoError(t, err)
	}

	tasks, err = storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "task 3", tasks[0].Title)
	assert.Equal(t, "task 2", tasks[1].Title)
	assert.Equal(t, "task 1", tasks[2].Title)
}

func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created, err := storage.Create(ctx, "Original Title", false)
	require.NoError(t, err)

	updated, err := storage.Update(ctx, created.ID, task.NewPatch(task.WithCompleted(true)))
	require.NoError(t, err)
	assert.Equal(t, "Original Title", updated.Title)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	updated, err = storage.Update(ctx, created.ID, task.NewPatch(task.WithTitle(" Updated Title ")))
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", updated.Title)
	assert.True(t, updated.Completed)

	_, err = storage.Update(ctx, 404, task.NewPatch(task.WithCompleted(true)))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created, err := storage.Create(ctx, "to delete", false)
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, created.ID))

	_, err = storage.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = storage.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tasks, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskStorage_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := storage.Create(ctx, fmt.Sprintf("task %d", i), false)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tasks, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)

	seen := make(map[int64]bool)
	for _, tk := range tasks {
		assert.False(t, seen[tk.ID], "duplicate id %d", tk.ID)
		seen[tk.ID] = true
	}
}

func TestTaskStorage_UpdateEmptyPatch(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created, err := storage.Create(ctx, "untouched", false)
	require.NoError(t, err)

	_, err = storage.Update(ctx, created.ID, task.Patch{})
	assert.ErrorIs(t, err, repository.ErrNothingToUpdate)

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

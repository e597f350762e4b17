package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/pomodoro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func createTask(t *testing.T, store *Store, title string) *domain.Task {
	t.Helper()
	task, err := store.Tasks().Create(context.Background(), domain.Task{Title: title, CreatedAt: testTime, UpdatedAt: testTime})
	require.NoError(t, err)
	return task
}

func TestTaskRepo_CreateAssignsID(t *testing.T) {
	store := NewStore()

	task := createTask(t, store, "Write report")

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.False(t, task.Completed)
}

func TestTaskRepo_CreateRejectsBlankTitle(t *testing.T) {
	store := NewStore()

	_, err := store.Tasks().Create(context.Background(), domain.Task{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrSchemaValidation)

	tasks, err := store.Tasks().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRepo_ListKeepsInsertionOrder(t *testing.T) {
	store := NewStore()
	first := createTask(t, store, "first")
	second := createTask(t, store, "second")
	third := createTask(t, store, "third")

	tasks, err := store.Tasks().List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, []uuid.UUID{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestTaskRepo_GetByID(t *testing.T) {
	store := NewStore()
	task := createTask(t, store, "read me")

	found, err := store.Tasks().GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, found)

	_, err = store.Tasks().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepo_GetByID_ReturnsCopy(t *testing.T) {
	store := NewStore()
	task := createTask(t, store, "immutable")

	found, err := store.Tasks().GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	found.Title = "mutated"

	again, err := store.Tasks().GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "immutable", again.Title)
}

func TestTaskRepo_UpdatePartial(t *testing.T) {
	store := NewStore()
	task := createTask(t, store, "keep title")
	later := testTime.Add(time.Hour)
	completed := true

	updated, err := store.Tasks().Update(context.Background(), task.ID, domain.TaskPatch{Completed: &completed}, later)
	require.NoError(t, err)

	assert.Equal(t, "keep title", updated.Title)
	assert.True(t, updated.Completed)
	assert.Equal(t, testTime, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
}

func TestTaskRepo_UpdateRejectsBlankTitleAndKeepsRecord(t *testing.T) {
	store := NewStore()
	task := createTask(t, store, "original")
	blank := ""

	_, err := store.Tasks().Update(context.Background(), task.ID, domain.TaskPatch{Title: &blank}, testTime)
	assert.ErrorIs(t, err, domain.ErrSchemaValidation)

	found, err := store.Tasks().GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", found.Title)
}

func TestTaskRepo_UpdateMissing(t *testing.T) {
	store := NewStore()

	_, err := store.Tasks().Update(context.Background(), uuid.New(), domain.TaskPatch{}, testTime)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepo_DeleteTwice(t *testing.T) {
	store := NewStore()
	task := createTask(t, store, "delete me")
	other := createTask(t, store, "stay")

	deleted, err := store.Tasks().Delete(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = store.Tasks().Delete(context.Background(), task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	tasks, err := store.Tasks().List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, other.ID, tasks[0].ID)
}

func TestSessionRepo_CreateRequiresTask(t *testing.T) {
	store := NewStore()

	_, err := store.Sessions().Create(context.Background(), domain.Session{TaskID: uuid.New(), Duration: 25, StartTime: testTime})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSessionRepo_CreateRejectsNegativeDuration(t *testing.T) {
	store := NewStore()
	task := createTask(t, store, "focus")

	_, err := store.Sessions().Create(context.Background(), domain.Session{TaskID: task.ID, Duration: -1, StartTime: testTime})
	assert.ErrorIs(t, err, domain.ErrSchemaValidation)
}

func TestSessionRepo_ListExpandsTasks(t *testing.T) {
	store := NewStore()
	kept := createTask(t, store, "kept")
	removed := createTask(t, store, "removed")

	_, err := store.Sessions().Create(context.Background(), domain.Session{TaskID: kept.ID, Duration: 25, StartTime: testTime, Completed: true})
	require.NoError(t, err)
	_, err = store.Sessions().Create(context.Background(), domain.Session{TaskID: removed.ID, Duration: 5, StartTime: testTime})
	require.NoError(t, err)

	_, err = store.Tasks().Delete(context.Background(), removed.ID)
	require.NoError(t, err)

	sessions, err := store.Sessions().ListWithTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	require.NotNil(t, sessions[0].Task)
	assert.Equal(t, "kept", sessions[0].Task.Title)

	assert.Nil(t, sessions[1].Task)
	assert.Equal(t, removed.ID, sessions[1].TaskID)
}

func TestSessionRepo_ConcurrentCreateAndDelete(t *testing.T) {
	store := NewStore()
	task := createTask(t, store, "contended")

	var wg sync.WaitGroup
	wg.Add(2)
	var createErr error
	go func() {
		defer wg.Done()
		_, createErr = store.Sessions().Create(context.Background(), domain.Session{TaskID: task.ID, Duration: 25, StartTime: testTime})
	}()
	go func() {
		defer wg.Done()
		_, _ = store.Tasks().Delete(context.Background(), task.ID)
	}()
	wg.Wait()

	sessions, err := store.Sessions().ListWithTasks(context.Background())
	require.NoError(t, err)
	if createErr != nil {
		assert.ErrorIs(t, createErr, domain.ErrTaskNotFound)
		assert.Empty(t, sessions)
	} else {
		assert.Len(t, sessions, 1)
	}
}

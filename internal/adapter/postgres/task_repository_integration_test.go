package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/pomodoro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func createTestTask(t *testing.T, repo *TaskRepo, title string, createdAt time.Time) *domain.Task {
	t.Helper()

	task, err := repo.Create(context.Background(), domain.Task{
		Title:     title,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, task.ID)
	return task
}

func TestTaskRepo_Create(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))

	task, err := repo.Create(context.Background(), domain.Task{
		Title:     "Write report",
		Completed: true,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.True(t, task.Completed)
	assert.True(t, task.CreatedAt.Equal(baseTime))
	assert.True(t, task.UpdatedAt.Equal(baseTime))
}

func TestTaskRepo_Create_BlankTitleViolatesCheck(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))

	task, err := repo.Create(context.Background(), domain.Task{
		Title:     "   ",
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	})

	assert.ErrorIs(t, err, domain.ErrSchemaValidation)
	assert.Contains(t, err.Error(), "tasks_title_not_blank")
	assert.Nil(t, task)
}

func TestTaskRepo_List_OrderedByCreation(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))

	second := createTestTask(t, repo, "second", baseTime.Add(time.Minute))
	first := createTestTask(t, repo, "first", baseTime)

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
}

func TestTaskRepo_List_Empty(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskRepo_GetByID(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))
	created := createTestTask(t, repo, "Read", baseTime)

	task, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, task.ID)
	assert.Equal(t, "Read", task.Title)
	assert.False(t, task.Completed)
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))

	task, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Nil(t, task)
}

func TestTaskRepo_Update_PartialPatch(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))
	created := createTestTask(t, repo, "Draft", baseTime)
	later := baseTime.Add(time.Hour)

	completed := true
	task, err := repo.Update(context.Background(), created.ID, domain.TaskPatch{Completed: &completed}, later)
	require.NoError(t, err)
	assert.Equal(t, "Draft", task.Title, "title must be untouched when absent from the patch")
	assert.True(t, task.Completed)
	assert.True(t, task.CreatedAt.Equal(baseTime))
	assert.True(t, task.UpdatedAt.Equal(later))

	title := "Final"
	task, err = repo.Update(context.Background(), created.ID, domain.TaskPatch{Title: &title}, later)
	require.NoError(t, err)
	assert.Equal(t, "Final", task.Title)
	assert.True(t, task.Completed, "completed must be untouched when absent from the patch")
}

func TestTaskRepo_Update_EmptyPatchBumpsUpdatedAt(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))
	created := createTestTask(t, repo, "Idle", baseTime)
	later := baseTime.Add(time.Minute)

	task, err := repo.Update(context.Background(), created.ID, domain.TaskPatch{}, later)
	require.NoError(t, err)
	assert.Equal(t, "Idle", task.Title)
	assert.True(t, task.UpdatedAt.Equal(later))
}

func TestTaskRepo_Update_NotFound(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))

	task, err := repo.Update(context.Background(), uuid.New(), domain.TaskPatch{}, baseTime)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Nil(t, task)
}

func TestTaskRepo_Update_BlankTitleViolatesCheck(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))
	created := createTestTask(t, repo, "Keep", baseTime)

	blank := "\t"
	_, err := repo.Update(context.Background(), created.ID, domain.TaskPatch{Title: &blank}, baseTime)
	assert.ErrorIs(t, err, domain.ErrSchemaValidation)

	task, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", task.Title)
}

func TestTaskRepo_Delete(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t))
	created := createTestTask(t, repo, "Gone", baseTime)

	deleted, err := repo.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "Gone", deleted.Title)

	_, err = repo.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = repo.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

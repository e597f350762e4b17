package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/pomodoro/internal/domain"
)

// taskColumns must match the Scan order in scanTask.
const taskColumns = `id, title, completed, created_at, updated_at`

type TaskRepo struct {
	pool *pgxpool.Pool
}

var _ domain.TaskRepository = (*TaskRepo)(nil)

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(&task.ID, &task.Title, &task.Completed, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepo) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+taskColumns,
		task.Title, task.Completed, task.CreatedAt, task.UpdatedAt)

	created, err := scanTask(row)
	if err != nil {
		return nil, translateError("failed to insert task", err)
	}
	return created, nil
}

func (r *TaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, translateError("failed to list tasks", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, translateError("failed to scan task", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("failed to list tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, translateError("failed to get task", err)
	}
	return task, nil
}

// Update applies only the non-nil patch fields; COALESCE keeps the stored
// value for the others.
func (r *TaskRepo) Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET title = COALESCE($2::text, title),
		     completed = COALESCE($3::boolean, completed),
		     updated_at = $4
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, patch.Title, patch.Completed, updatedAt)

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, translateError("failed to update task", err)
	}
	return task, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING `+taskColumns, id)

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, translateError("failed to delete task", err)
	}
	return task, nil
}

package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/pomodoro/internal/domain"
)

// sessionColumns must match the Scan order in scanSession.
const sessionColumns = `id, task_id, duration, start_time, completed, created_at, updated_at`

const prefixedSessionColumns = `s.id, s.task_id, s.duration, s.start_time, s.completed, s.created_at, s.updated_at`

type SessionRepo struct {
	pool *pgxpool.Pool
}

var _ domain.SessionRepository = (*SessionRepo)(nil)

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	if err := row.Scan(&s.ID, &s.TaskID, &s.Duration, &s.StartTime, &s.Completed, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create locks the referenced task row FOR SHARE and inserts the session in
// the same transaction, so a concurrent task delete cannot slip in between.
func (r *SessionRepo) Create(ctx context.Context, session domain.Session) (*domain.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, translateError("failed to begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(context.Background()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Warn("Failed to roll back session insert", "error", err)
		}
	}()

	var taskID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM tasks WHERE id = $1 FOR SHARE`, session.TaskID).Scan(&taskID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, translateError("failed to lock task", err)
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO sessions (task_id, duration, start_time, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+sessionColumns,
		session.TaskID, session.Duration, session.StartTime, session.Completed, session.CreatedAt, session.UpdatedAt)

	created, err := scanSession(row)
	if err != nil {
		return nil, translateError("failed to insert session", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError("failed to commit session insert", err)
	}
	return created, nil
}

// ListWithTasks left-joins each session's task; the task columns are NULL for
// sessions whose task was deleted.
func (r *SessionRepo) ListWithTasks(ctx context.Context) ([]domain.SessionWithTask, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+prefixedSessionColumns+`,
		        t.id, t.title, t.completed, t.created_at, t.updated_at
		 FROM sessions s
		 LEFT JOIN tasks t ON t.id = s.task_id
		 ORDER BY s.created_at, s.id`)
	if err != nil {
		return nil, translateError("failed to list sessions", err)
	}
	defer rows.Close()

	result := make([]domain.SessionWithTask, 0)
	for rows.Next() {
		var (
			entry         domain.SessionWithTask
			taskID        uuid.NullUUID
			taskTitle     *string
			taskCompleted *bool
			taskCreatedAt *time.Time
			taskUpdatedAt *time.Time
		)
		err := rows.Scan(
			&entry.ID, &entry.TaskID, &entry.Duration, &entry.StartTime, &entry.Completed, &entry.CreatedAt, &entry.UpdatedAt,
			&taskID, &taskTitle, &taskCompleted, &taskCreatedAt, &taskUpdatedAt,
		)
		if err != nil {
			return nil, translateError("failed to scan session", err)
		}

		if taskID.Valid {
			entry.Task = &domain.Task{
				ID:        taskID.UUID,
				Title:     *taskTitle,
				Completed: *taskCompleted,
				CreatedAt: *taskCreatedAt,
				UpdatedAt: *taskUpdatedAt,
			}
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("failed to list sessions", err)
	}
	return result, nil
}

// ListOrphans returns sessions whose task no longer exists, oldest first.
func (r *SessionRepo) ListOrphans(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+prefixedSessionColumns+`
		 FROM sessions s
		 WHERE NOT EXISTS (SELECT 1 FROM tasks t WHERE t.id = s.task_id)
		 ORDER BY s.created_at, s.id`)
	if err != nil {
		return nil, translateError("failed to list orphaned sessions", err)
	}
	defer rows.Close()

	orphans := make([]domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, translateError("failed to scan session", err)
		}
		orphans = append(orphans, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("failed to list orphaned sessions", err)
	}
	return orphans, nil
}

// DeleteOrphans removes sessions whose task no longer exists and reports how
// many were deleted.
func (r *SessionRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sessions s
		 WHERE NOT EXISTS (SELECT 1 FROM tasks t WHERE t.id = s.task_id)`)
	if err != nil {
		return 0, translateError("failed to delete orphaned sessions", err)
	}
	return tag.RowsAffected(), nil
}

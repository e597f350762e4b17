package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/pomodoro/internal/adapter/metrics"
	"github.com/pscheid92/pomodoro/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// sharedReadTimeout bounds a coalesced store read, which no longer follows any
// single caller's context.
const sharedReadTimeout = 10 * time.Second

// TaskCache is a read-through Redis cache in front of a TaskRepository.
// Single-task reads are served from Redis; writes go to the store and evict
// the cached entry. Redis failures degrade to store reads, never to errors.
type TaskCache struct {
	rdb     goredis.Cmdable
	tasks   domain.TaskRepository
	ttl     time.Duration
	metrics *metrics.CacheMetrics
	group   singleflight.Group

	// generation is bumped by every write before its DEL. A miss that saw the
	// counter move while it was filling evicts what it wrote.
	generation atomic.Uint64
}

var _ domain.TaskRepository = (*TaskCache)(nil)

func NewTaskCache(rdb goredis.Cmdable, tasks domain.TaskRepository, ttl time.Duration, m *metrics.CacheMetrics) *TaskCache {
	return &TaskCache{
		rdb:     rdb,
		tasks:   tasks,
		ttl:     ttl,
		metrics: m,
	}
}

// cachedTask is the Redis encoding of a domain.Task.
type cachedTask struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *TaskCache) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	return r.tasks.Create(ctx, task)
}

func (r *TaskCache) List(ctx context.Context) ([]domain.Task, error) {
	return r.tasks.List(ctx)
}

func (r *TaskCache) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if task, ok := r.getCached(ctx, id); ok {
		r.metrics.Hits.Inc()
		return task, nil
	}
	r.metrics.Misses.Inc()

	// Concurrent misses for the same id share one store read. It runs detached
	// from the caller so a disconnecting client cannot fail the others.
	ch := r.group.DoChan(id.String(), func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()
		return r.fill(readCtx, id)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		task := *res.Val.(*domain.Task)
		return &task, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fill reads a task from the store and caches it. If a write invalidated any
// task meanwhile, the fresh entry may predate that write and is evicted again.
func (r *TaskCache) fill(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	gen := r.generation.Load()

	task, err := r.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.writeCache(ctx, task)
	if r.generation.Load() != gen {
		r.evict(ctx, id)
	}
	return task, nil
}

func (r *TaskCache) Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error) {
	task, err := r.tasks.Update(ctx, id, patch, updatedAt)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return task, nil
}

func (r *TaskCache) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := r.tasks.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return task, nil
}

func (r *TaskCache) getCached(ctx context.Context, id uuid.UUID) (*domain.Task, bool) {
	data, err := r.rdb.Get(ctx, taskCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.metrics.Errors.WithLabelValues("get").Inc()
			slog.WarnContext(ctx, "Redis task cache GET failed", "task_id", id, "error", err)
		}
		return nil, false
	}

	var cached cachedTask
	if err := json.Unmarshal(data, &cached); err != nil {
		r.metrics.Errors.WithLabelValues("decode").Inc()
		slog.WarnContext(ctx, "Failed to unmarshal cached task", "task_id", id, "error", err)
		return nil, false
	}

	return &domain.Task{
		ID:        cached.ID,
		Title:     cached.Title,
		Completed: cached.Completed,
		CreatedAt: cached.CreatedAt,
		UpdatedAt: cached.UpdatedAt,
	}, true
}

func (r *TaskCache) writeCache(ctx context.Context, task *domain.Task) {
	encoded, err := json.Marshal(cachedTask{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	})
	if err != nil {
		r.metrics.Errors.WithLabelValues("encode").Inc()
		slog.WarnContext(ctx, "Failed to marshal task for Redis cache", "task_id", task.ID, "error", err)
		return
	}

	if err := r.rdb.Set(ctx, taskCacheKey(task.ID), encoded, r.ttl).Err(); err != nil {
		r.metrics.Errors.WithLabelValues("set").Inc()
		slog.WarnContext(ctx, "Failed to populate Redis task cache", "task_id", task.ID, "error", err)
	}
}

// invalidate evicts a task after a successful write. A failed DEL leaves the
// stale entry to expire with its TTL.
func (r *TaskCache) invalidate(ctx context.Context, id uuid.UUID) {
	r.generation.Add(1)
	r.group.Forget(id.String())
	if r.evict(ctx, id) {
		r.metrics.Invalidations.Inc()
	}
}

func (r *TaskCache) evict(ctx context.Context, id uuid.UUID) bool {
	if err := r.rdb.Del(ctx, taskCacheKey(id)).Err(); err != nil {
		r.metrics.Errors.WithLabelValues("del").Inc()
		slog.WarnContext(ctx, "Failed to invalidate task cache", "task_id", id, "error", err)
		return false
	}
	return true
}

func taskCacheKey(id uuid.UUID) string {
	return "task_cache:" + id.String()
}

package cache

import (
	"context"
	"time"

	"todoTracker/internal/models/task"

	"github.com/google/uuid"
)

const (
	TaskTTL     = 60 * time.Second
	TaskListTTL = 15 * time.Second
)

// TaskCache — сквозной кэш чтения задач. Промах не ошибка: (nil, nil).
type TaskCache interface {
	GetTask(ctx context.Context, ownerID uuid.UUID, id int64) (*task.Task, error)
	SetTask(ctx context.Context, t *task.Task, ttl time.Duration) error

	GetTaskList(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error)
	SetTaskList(ctx context.Context, ownerID uuid.UUID, tasks []*task.Task, ttl time.Duration) error

	DeleteTask(ctx context.Context, ownerID uuid.UUID, id int64) error
	DeleteTaskList(ctx context.Context, ownerID uuid.UUID) error
}

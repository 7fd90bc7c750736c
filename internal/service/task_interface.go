package service

import (
	"context"

	"todoTracker/internal/models/task"
	"todoTracker/internal/models/user"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, t *task.Task) (*task.Task, error)
	GetByID(ctx context.Context, id int64) (*task.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error)
	ApplyPatch(ctx context.Context, id int64, patch task.Patch) (*task.Task, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (*task.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	HealthCheck(ctx context.Context) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

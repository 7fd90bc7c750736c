package handlers

import (
	"context"

	"todoTracker/internal/auth"
	"todoTracker/internal/models/task"
	"todoTracker/internal/models/user"

	"github.com/google/uuid"
)

type TaskService interface {
	ListTasks(ctx context.Context, requesterID, ownerID uuid.UUID, filter, sortBy string) ([]*task.Task, error)
	CreateTask(ctx context.Context, requesterID, ownerID uuid.UUID, title, description string) (*task.Task, error)
	GetTask(ctx context.Context, requesterID, ownerID uuid.UUID, id int64) (*task.Task, error)
	UpdateTask(ctx context.Context, requesterID, ownerID uuid.UUID, id int64, patch task.Patch) (*task.Task, error)
	DeleteTask(ctx context.Context, requesterID, ownerID uuid.UUID, id int64) error
	SetTaskCompletion(ctx context.Context, requesterID, ownerID uuid.UUID, id int64, completed bool) (*task.Task, error)
	HealthCheck(ctx context.Context) error
}

type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*user.PublicUser, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

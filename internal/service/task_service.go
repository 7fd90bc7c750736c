package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"todoTracker/internal/cache"
	"todoTracker/internal/events"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService — слой оркестрации: валидация входа, владельческие
// проверки, делегирование хранилищу. Порядок строгий: сначала все
// проверки, потом единственная мутация.
type TaskService struct {
	repo   TaskRepository
	users  UserGetter
	cache  cache.TaskCache  // опционален, nil в консольном варианте
	events events.Publisher // опционален
}

type Option func(*TaskService)

func WithCache(c cache.TaskCache) Option {
	return func(s *TaskService) {
		s.cache = c
	}
}

func WithEvents(p events.Publisher) Option {
	return func(s *TaskService) {
		s.events = p
	}
}

func NewTaskService(taskRepo TaskRepository, users UserGetter, opts ...Option) *TaskService {
	s := &TaskService{
		repo:  taskRepo,
		users: users,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// ListTasks возвращает отфильтрованный и отсортированный список задач
// владельца. Неизвестный фильтр — ошибка валидации, неизвестная
// сортировка молча сводится к created.
func (s *TaskService) ListTasks(ctx context.Context, requesterID, ownerID uuid.UUID, filter, sortBy string) ([]*task.Task, error) {
	if err := CheckOwnership(requesterID, ownerID); err != nil {
		return nil, err
	}

	if filter == "" {
		filter = FilterAll
	}
	if !validFilter(filter) {
		return nil, NewValidationError("status", "допустимы значения all, pending, completed")
	}
	if sortBy == "" {
		sortBy = SortCreated
	}

	tasks, err := s.listByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	tasks = applyFilter(tasks, filter)
	applySort(tasks, sortBy)

	return tasks, nil
}

func (s *TaskService) listByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	if s.cache != nil {
		if tasks, err := s.cache.GetTaskList(ctx, ownerID); err == nil && tasks != nil {
			return tasks, nil
		}
	}

	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetTaskList(ctx, ownerID, tasks, cache.TaskListTTL)
	}

	return tasks, nil
}

// CreateTask: владельческая проверка, границы полей, существование
// владельца — и только потом запись.
func (s *TaskService) CreateTask(ctx context.Context, requesterID, ownerID uuid.UUID, title, description string) (*task.Task, error) {
	if err := CheckOwnership(requesterID, ownerID); err != nil {
		return nil, err
	}

	newTask, err := task.New(ownerID, title, description)
	if err != nil {
		return nil, NewValidationError("title/description", err.Error())
	}

	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Владелец не найден", zap.String("owner_id", ownerID.String()))
			return nil, NewNotFound("пользователь", ownerID.String())
		}
		return nil, fmt.Errorf("проверка владельца: %w", err)
	}

	created, err := s.repo.Create(ctx, newTask)
	if err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	s.afterMutation(ctx, events.TaskCreated, created)

	logger.Info("Service: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.String("owner_id", ownerID.String()))

	return created, nil
}

// GetTask: сначала дешёвая проверка владельца пути, затем выборка с
// not-found, затем проверка владения самой задачей. Порядок единый
// для всех операций над конкретной задачей.
func (s *TaskService) GetTask(ctx context.Context, requesterID, ownerID uuid.UUID, id int64) (*task.Task, error) {
	if err := CheckOwnership(requesterID, ownerID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if t, err := s.cache.GetTask(ctx, ownerID, id); err == nil && t != nil {
			return t, nil
		}
	}

	t, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetTask(ctx, t, cache.TaskTTL)
	}

	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, requesterID, ownerID uuid.UUID, id int64, patch task.Patch) (*task.Task, error) {
	if err := CheckOwnership(requesterID, ownerID); err != nil {
		return nil, err
	}

	if patch.IsZero() {
		return nil, NewValidationError("body", "не задано ни одного поля для обновления")
	}
	if patch.Title != nil {
		if err := task.ValidateTitle(*patch.Title); err != nil {
			return nil, NewValidationError("title", err.Error())
		}
	}
	if patch.Description != nil {
		if err := task.ValidateDescription(*patch.Description); err != nil {
			return nil, NewValidationError("description", err.Error())
		}
	}

	if _, err := s.fetchOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.ApplyPatch(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("задача", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	s.afterMutation(ctx, events.TaskUpdated, updated)

	logger.Info("Service: Задача обновлена", zap.Int64("task_id", id))

	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, requesterID, ownerID uuid.UUID, id int64) error {
	if err := CheckOwnership(requesterID, ownerID); err != nil {
		return err
	}

	t, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if !deleted {
		return NewNotFound("задача", strconv.FormatInt(id, 10))
	}

	s.afterMutation(ctx, events.TaskDeleted, t)

	logger.Info("Service: Задача удалена", zap.Int64("task_id", id))

	return nil
}

// SetTaskCompletion выставляет явное значение completed. В отличие от
// безусловного ToggleCompletion сущности операция идемпотентна — это
// канонический контракт API-поверхности.
func (s *TaskService) SetTaskCompletion(ctx context.Context, requesterID, ownerID uuid.UUID, id int64, completed bool) (*task.Task, error) {
	if err := CheckOwnership(requesterID, ownerID); err != nil {
		return nil, err
	}

	if _, err := s.fetchOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetCompleted(ctx, id, completed)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("задача", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("изменение статуса выполнения: %w", err)
	}

	s.afterMutation(ctx, events.TaskCompleted, updated)

	logger.Info("Service: Статус выполнения изменён",
		zap.Int64("task_id", id),
		zap.Bool("completed", completed))

	return updated, nil
}

// fetchOwned различает отсутствующую задачу и чужую задачу: not-found
// и forbidden сообщаются раздельно.
func (s *TaskService) fetchOwned(ctx context.Context, ownerID uuid.UUID, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("task_id", id))
			return nil, NewNotFound("задача", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if t.OwnerID != ownerID {
		logger.Warn("Service: Попытка доступа к чужой задаче",
			zap.Int64("task_id", id),
			zap.String("owner_id", ownerID.String()))
		return nil, NewForbidden()
	}

	return t, nil
}

// afterMutation инвалидирует кэш и публикует событие. Обе операции
// best-effort и не влияют на результат мутации.
func (s *TaskService) afterMutation(ctx context.Context, action string, t *task.Task) {
	if s.cache != nil {
		_ = s.cache.DeleteTask(ctx, t.OwnerID, t.ID)
		_ = s.cache.DeleteTaskList(ctx, t.OwnerID)
	}
	if s.events != nil {
		s.events.Publish(ctx, action, t.ID, t.OwnerID)
	}
}

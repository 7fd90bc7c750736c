package inmemory

import (
	"context"
	"sync"
	"time"

	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage — in-memory хранилище задач с монотонным счётчиком ID.
// Порядок вставки сохраняется в срезе ids.
type TaskStorage struct {
	storage map[int64]*task.Task
	ids     []int64
	nextID  int64
	mtx     *sync.RWMutex
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		ids:     []int64{},
		nextID:  1,
		mtx:     &sync.RWMutex{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

// Create присваивает следующий свободный ID, если задача пришла без него.
// Счётчик никогда не откатывается: после удаления ID не переиспользуется.
// Задача с уже заданным ID >= счётчика сдвигает счётчик на соседнее значение
// (сценарий импорта).
func (s *TaskStorage) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if t.ID == 0 {
		t.ID = s.nextID
		s.nextID++
	} else if t.ID >= s.nextID {
		s.nextID = t.ID + 1
	}

	stored := *t
	s.storage[stored.ID] = &stored
	s.ids = append(s.ids, stored.ID)

	return &stored, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	copied := *t
	return &copied, nil
}

// ListByOwner возвращает задачи владельца в порядке вставки.
// Фильтрация и сортировка — забота вызывающего.
func (s *TaskStorage) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t, ok := s.storage[id]
		if !ok || t.OwnerID != ownerID {
			continue
		}
		copied := *t
		res = append(res, &copied)
	}

	return res, nil
}

// ApplyPatch накладывает только присутствующие поля, незаданные не трогает.
func (s *TaskStorage) ApplyPatch(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	patch.Apply(t)

	copied := *t
	return &copied, nil
}

// SetCompleted выставляет явное значение completed, операция идемпотентна.
func (s *TaskStorage) SetCompleted(ctx context.Context, id int64, completed bool) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	t.Completed = completed
	t.UpdatedAt = time.Now()

	copied := *t
	return &copied, nil
}

// Delete возвращает false для несуществующего ID, это не ошибка.
func (s *TaskStorage) Delete(ctx context.Context, id int64) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}

	return true, nil
}

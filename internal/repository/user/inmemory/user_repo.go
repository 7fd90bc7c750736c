package inmemory

import (
	"context"
	"strings"
	"sync"

	"todoTracker/internal/models/user"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
)

type UserStorage struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]*user.User
	mtx     *sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]*user.User),
		mtx:     &sync.RWMutex{},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserStorage) Create(ctx context.Context, u *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	email := normalizeEmail(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return repo.ErrEmailTaken
	}

	stored := *u
	s.byID[stored.ID] = &stored
	s.byEmail[email] = &stored
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	copied := *u
	return &copied, nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, repo.ErrNotFound
	}

	copied := *u
	return &copied, nil
}

func (s *UserStorage) EmailExists(ctx context.Context, email string) (bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	_, ok := s.byEmail[normalizeEmail(email)]
	return ok, nil
}

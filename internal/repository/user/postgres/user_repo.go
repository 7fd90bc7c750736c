package postgres

import (
	"context"
	"errors"
	"fmt"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/user"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// 23505 — нарушение уникального индекса
const uniqueViolationCode = "23505"

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (id, email, name, password_hash, created_at)
			VALUES ($1, LOWER($2), $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return repo.ErrEmailTaken
		}
		logger.Error("Repository: Создание пользователя", err, zap.String("email", u.Email))
		return fmt.Errorf("создание пользователя: %w", err)
	}

	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT id, email, name, password_hash, created_at
			FROM users
			WHERE id = $1`

	var u user.User
	err := s.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Получение пользователя", err, zap.String("user_id", id.String()))
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	return &u, nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, email, name, password_hash, created_at
			FROM users
			WHERE email = LOWER($1)`

	var u user.User
	err := s.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Поиск пользователя по email", err)
		return nil, fmt.Errorf("поиск пользователя по email: %w", err)
	}

	return &u, nil
}

func (s *Storage) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("проверка занятости email: %w", err)
	}

	return exists, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowOpThreshold = 100 * time.Millisecond

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// NewPool создаёт пул соединений и проверяет его ping-ом.
func NewPool(ctx context.Context, connString string, maxConns, minConns int32, idleTimeout time.Duration) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = maxConns
	config.MinConns = minConns
	config.MaxConnIdleTime = idleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return pool, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Create полагается на BIGSERIAL: последовательность монотонна и не
// переиспользует ID после удаления. Задача с заданным ID вставляется
// как есть, а последовательность сдвигается дальше (сценарий импорта).
func (s *Storage) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	start := time.Now()

	if t.ID == 0 {
		query := `INSERT INTO tasks (owner_id, title, description, completed, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`

		err := s.pool.QueryRow(ctx, query,
			t.OwnerID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
		if err != nil {
			logger.Error("Repository: Создание задачи", err, zap.Duration("ms", time.Since(start)))
			return nil, fmt.Errorf("создание задачи: %w", err)
		}
	} else {
		query := `INSERT INTO tasks (id, owner_id, title, description, completed, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`

		_, err := s.pool.Exec(ctx, query,
			t.ID, t.OwnerID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			logger.Error("Repository: Импорт задачи", err, zap.Duration("ms", time.Since(start)))
			return nil, fmt.Errorf("импорт задачи: %w", err)
		}

		// сдвигаем последовательность, чтобы следующий ID не столкнулся
		_, err = s.pool.Exec(ctx,
			`SELECT setval('tasks_id_seq', GREATEST((SELECT MAX(id) FROM tasks), 1))`)
		if err != nil {
			return nil, fmt.Errorf("сдвиг последовательности: %w", err)
		}
	}

	if time.Since(start) > slowOpThreshold {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}

	copied := *t
	return &copied, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	query := `SELECT id, owner_id, title, description, completed, created_at, updated_at
			FROM tasks
			WHERE id = $1`

	var t task.Task
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Получение задачи", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	return &t, nil
}

func (s *Storage) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT id, owner_id, title, description, completed, created_at, updated_at
			FROM tasks
			WHERE owner_id = $1
			ORDER BY id`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		logger.Error("Repository: Получение задач владельца", err, zap.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("получение задач владельца: %w", err)
	}
	defer rows.Close()

	res := []*task.Task{}
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("чтение строки задачи: %w", err)
		}
		res = append(res, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход строк задач: %w", err)
	}

	if time.Since(start) > slowOpThreshold {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}

	return res, nil
}

// ApplyPatch обновляет только присутствующие поля через COALESCE по NULL-аргументам.
func (s *Storage) ApplyPatch(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	start := time.Now()

	query := `UPDATE tasks
			SET title = COALESCE($1, title),
				description = COALESCE($2, description),
				completed = COALESCE($3, completed),
				updated_at = NOW()
			WHERE id = $4
			RETURNING id, owner_id, title, description, completed, created_at, updated_at`

	var t task.Task
	err := s.pool.QueryRow(ctx, query, patch.Title, patch.Description, patch.Completed, id).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Частичное обновление задачи", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("частичное обновление: %w", err)
	}

	if time.Since(start) > slowOpThreshold {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}

	return &t, nil
}

func (s *Storage) SetCompleted(ctx context.Context, id int64, completed bool) (*task.Task, error) {
	query := `UPDATE tasks
			SET completed = $1,
				updated_at = NOW()
			WHERE id = $2
			RETURNING id, owner_id, title, description, completed, created_at, updated_at`

	var t task.Task
	err := s.pool.QueryRow(ctx, query, completed, id).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Изменение статуса выполнения", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("изменение статуса выполнения: %w", err)
	}

	return &t, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("удаление задачи: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

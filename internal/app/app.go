package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"todoTracker/internal/auth"
	"todoTracker/internal/cache"
	"todoTracker/internal/config"
	"todoTracker/internal/events"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	appmw "todoTracker/internal/middleware"
	"todoTracker/internal/repository/migrations"
	taskinmemory "todoTracker/internal/repository/task/inmemory"
	taskpostgres "todoTracker/internal/repository/task/postgres"
	userinmemory "todoTracker/internal/repository/user/inmemory"
	userpostgres "todoTracker/internal/repository/user/postgres"
	"todoTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	config      *config.Config
	server      *http.Server
	taskHandler *handlers.TaskHandler
	authHandler *handlers.AuthHandler
	authService *auth.Service
	shutdowns   []func() // функции для graceful shutdown, в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования")
		logger.Sync()
	})

	taskRepo, userRepo, err := a.initRepositories(ctx)
	if err != nil {
		return err
	}

	serviceOpts := []service.Option{}

	if a.config.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: a.config.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("подключение к Redis: %w", err)
		}
		logger.Info("App: Кэш Redis подключен", zap.String("addr", a.config.Redis.Addr))
		serviceOpts = append(serviceOpts, service.WithCache(cache.NewRedisTaskCache(rdb)))
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: Закрытие подключения к Redis")
			rdb.Close()
		})
	}

	if a.config.Kafka.Enabled {
		producer := events.NewKafkaProducer(a.config.Kafka.Broker, a.config.Kafka.Topic)
		logger.Info("App: Kafka producer создан",
			zap.String("broker", a.config.Kafka.Broker),
			zap.String("topic", a.config.Kafka.Topic))
		serviceOpts = append(serviceOpts, service.WithEvents(producer))
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: Закрытие Kafka producer")
			producer.Close()
		})
	}

	taskService := service.NewTaskService(taskRepo, userRepo, serviceOpts...)

	jwtManager := auth.NewJWTManager(a.config.Auth.Secret, a.config.Auth.AccessTokenTTL)
	a.authService = auth.NewService(userRepo, auth.NewPasswordHasher(), jwtManager)

	a.taskHandler = handlers.NewTaskHandler(taskService)
	a.authHandler = handlers.NewAuthHandler(a.authService)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router(ctx),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	return nil
}

// initRepositories выбирает хранилище по конфигу: postgres с миграциями
// или in-memory для локального запуска.
func (a *App) initRepositories(ctx context.Context) (service.TaskRepository, auth.UserRepository, error) {
	if a.config.Repository.Type != "postgres" {
		logger.Info("App: Используется in-memory хранилище")
		return taskinmemory.NewTaskStorage(), userinmemory.NewUserStorage(), nil
	}

	if err := migrations.Apply(a.config.Database.URL); err != nil {
		return nil, nil, fmt.Errorf("миграции БД: %w", err)
	}

	pool, err := taskpostgres.NewPool(ctx, a.config.Database.URL,
		int32(a.config.Database.MaxConnections),
		int32(a.config.Database.MinConnections),
		a.config.Database.IdleTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("подключение к PostgreSQL: %w", err)
	}

	taskRepo := taskpostgres.New(pool)
	a.shutdowns = append(a.shutdowns, taskRepo.Close)

	return taskRepo, userpostgres.New(pool), nil
}

func (a *App) router(ctx context.Context) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.RequestID)
	r.Use(appmw.Logging)
	r.Use(appmw.RateLimit(ctx, a.config.Server.RateLimitRPM))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", a.authHandler.Register) // POST /api/auth/register
		r.Post("/login", a.authHandler.Login)       // POST /api/auth/login
	})

	r.Route("/{userID}/tasks", func(r chi.Router) {
		r.Use(appmw.Auth(a.authService))

		r.Get("/", a.taskHandler.ListTasks)   // GET /{userID}/tasks
		r.Post("/", a.taskHandler.CreateTask) // POST /{userID}/tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.taskHandler.GetTaskByID)       // GET /{userID}/tasks/{id}
			r.Put("/", a.taskHandler.UpdateTaskByID)    // PUT /{userID}/tasks/{id}
			r.Delete("/", a.taskHandler.DeleteTaskByID) // DELETE /{userID}/tasks/{id}

			r.Patch("/complete", a.taskHandler.CompleteTask) // PATCH /{userID}/tasks/{id}/complete
		})
	})

	r.Get("/health", a.taskHandler.HealthCheck)

	return r
}

// Run блокируется до отмены контекста, затем гасит сервер и выполняет
// shutdown-хуки в обратном порядке регистрации.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.runShutdowns()
		return fmt.Errorf("запуск сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("App: Получен сигнал завершения, останавливаем сервер")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
	}

	a.runShutdowns()
	return nil
}

func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

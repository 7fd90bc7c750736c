package main

import (
	"context"
	"log"
	"os"
	"time"

	"todoTracker/internal/console"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/user"
	taskinmemory "todoTracker/internal/repository/task/inmemory"
	userinmemory "todoTracker/internal/repository/user/inmemory"
	"todoTracker/internal/service"

	"github.com/google/uuid"
)

func main() {
	logger.InitNop()

	ctx := context.Background()

	taskRepo := taskinmemory.NewTaskStorage()
	userRepo := userinmemory.NewUserStorage()

	// единственный пользователь сессии, регистрируется сразу
	sessionUser := &user.User{
		ID:        uuid.New(),
		Email:     "local@console",
		Name:      "Локальный пользователь",
		CreatedAt: time.Now(),
	}
	if err := userRepo.Create(ctx, sessionUser); err != nil {
		log.Fatalf("создание пользователя сессии: %v", err)
	}

	taskService := service.NewTaskService(taskRepo, userRepo)

	console.New(taskService, sessionUser.ID, os.Stdin, os.Stdout).Run(ctx)
}

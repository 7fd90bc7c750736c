package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"todoTracker/internal/models/task"
	"todoTracker/internal/service"

	"github.com/google/uuid"
)

// Console — консольный вариант приложения: одна сессия, один
// пользователь, in-memory хранилище, без аутентификации. Ошибка одной
// операции печатается и возвращает в меню, сессия не падает.
type Console struct {
	service *service.TaskService
	userID  uuid.UUID
	in      *bufio.Scanner
	out     io.Writer
}

func New(taskService *service.TaskService, userID uuid.UUID, in io.Reader, out io.Writer) *Console {
	return &Console{
		service: taskService,
		userID:  userID,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

func (c *Console) Run(ctx context.Context) {
	for {
		c.printMenu()
		choice := c.readLine("Выберите пункт (1-7): ")

		switch choice {
		case "1":
			c.addTask(ctx)
		case "2":
			c.viewTasks(ctx)
		case "3":
			c.updateTask(ctx)
		case "4":
			c.deleteTask(ctx)
		case "5":
			c.toggleTask(ctx)
		case "6":
			c.printHelp()
		case "7", "":
			fmt.Fprintln(c.out, "До встречи!")
			return
		default:
			fmt.Fprintln(c.out, "Неизвестный пункт меню, попробуйте ещё раз.")
		}
	}
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, strings.Repeat("=", 50))
	fmt.Fprintln(c.out, "              СПИСОК ДЕЛ")
	fmt.Fprintln(c.out, strings.Repeat("=", 50))
	fmt.Fprintln(c.out, "1. Добавить задачу")
	fmt.Fprintln(c.out, "2. Показать все задачи")
	fmt.Fprintln(c.out, "3. Обновить задачу")
	fmt.Fprintln(c.out, "4. Удалить задачу")
	fmt.Fprintln(c.out, "5. Отметить выполнение")
	fmt.Fprintln(c.out, "6. Справка")
	fmt.Fprintln(c.out, "7. Выход")
	fmt.Fprintln(c.out, strings.Repeat("=", 50))
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "\n--- Справка ---")
	fmt.Fprintf(c.out, "Название задачи: от %d до %d символов.\n", task.TitleMinLen, task.TitleMaxLen)
	fmt.Fprintf(c.out, "Описание: необязательно, до %d символов.\n", task.DescriptionMaxLen)
	fmt.Fprintln(c.out, "Задачи живут только в памяти текущей сессии.")
}

// readLine возвращает "" на EOF, что трактуется как выход.
func (c *Console) readLine(prompt string) string {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *Console) readTaskID(prompt string) (int64, bool) {
	raw := c.readLine(prompt)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		fmt.Fprintln(c.out, "Ошибка: ID задачи должен быть положительным числом.")
		return 0, false
	}
	return id, true
}

func (c *Console) printError(err error) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		fmt.Fprintf(c.out, "Ошибка: %s\n", businessErr.Message)
		return
	}
	fmt.Fprintf(c.out, "Непредвиденная ошибка: %v\n", err)
}

func (c *Console) addTask(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Новая задача ---")

	title := c.readLine("Название: ")
	description := c.readLine("Описание (Enter — пропустить): ")

	created, err := c.service.CreateTask(ctx, c.userID, c.userID, title, description)
	if err != nil {
		c.printError(err)
		return
	}

	fmt.Fprintf(c.out, "Задача добавлена, ID: %d\n", created.ID)
}

func (c *Console) viewTasks(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Все задачи ---")

	tasks, err := c.service.ListTasks(ctx, c.userID, c.userID, service.FilterAll, service.SortCreated)
	if err != nil {
		c.printError(err)
		return
	}

	if len(tasks) == 0 {
		fmt.Fprintln(c.out, "Задач пока нет.")
		return
	}

	fmt.Fprintf(c.out, "Всего задач: %d\n", len(tasks))
	fmt.Fprintln(c.out, strings.Repeat("-", 60))

	for _, t := range tasks {
		fmt.Fprintln(c.out, t.String())
		if t.Description != "" {
			preview := t.Description
			// обрезка по рунам, чтобы не разорвать кириллицу посередине
			if runes := []rune(preview); len(runes) > 60 {
				preview = string(runes[:60]) + "..."
			}
			fmt.Fprintf(c.out, "      Описание: %s\n", preview)
		}
		fmt.Fprintf(c.out, "      Создана: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(c.out, strings.Repeat("-", 60))
	}
}

func (c *Console) updateTask(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Обновление задачи ---")

	id, ok := c.readTaskID("ID задачи: ")
	if !ok {
		return
	}

	patch := task.Patch{}
	if title := c.readLine("Новое название (Enter — не менять): "); title != "" {
		patch.Title = &title
	}
	if description := c.readLine("Новое описание (Enter — не менять): "); description != "" {
		patch.Description = &description
	}

	if patch.IsZero() {
		fmt.Fprintln(c.out, "Нечего обновлять.")
		return
	}

	updated, err := c.service.UpdateTask(ctx, c.userID, c.userID, id, patch)
	if err != nil {
		c.printError(err)
		return
	}

	fmt.Fprintf(c.out, "Задача %d обновлена.\n", updated.ID)
}

func (c *Console) deleteTask(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Удаление задачи ---")

	id, ok := c.readTaskID("ID задачи: ")
	if !ok {
		return
	}

	if err := c.service.DeleteTask(ctx, c.userID, c.userID, id); err != nil {
		c.printError(err)
		return
	}

	fmt.Fprintf(c.out, "Задача %d удалена.\n", id)
}

// toggleTask переключает статус: текущее значение читается, в сервис
// уходит явное инвертированное.
func (c *Console) toggleTask(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Отметка выполнения ---")

	id, ok := c.readTaskID("ID задачи: ")
	if !ok {
		return
	}

	current, err := c.service.GetTask(ctx, c.userID, c.userID, id)
	if err != nil {
		c.printError(err)
		return
	}

	updated, err := c.service.SetTaskCompletion(ctx, c.userID, c.userID, id, !current.Completed)
	if err != nil {
		c.printError(err)
		return
	}

	if updated.Completed {
		fmt.Fprintf(c.out, "Задача %d отмечена выполненной.\n", id)
	} else {
		fmt.Fprintf(c.out, "Задача %d снова в работе.\n", id)
	}
}

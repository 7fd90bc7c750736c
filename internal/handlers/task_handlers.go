package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

// parseOwnerID читает владельца из пути. Идентичность запросившего
// берётся из контекста, их сверяет сервис.
func parseOwnerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerParam := chi.URLParam(r, "userID")
	ownerID, err := uuid.Parse(ownerParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить userID",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить userID: "+err.Error())
		return uuid.Nil, false
	}
	return ownerID, true
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id < 1 {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "id задачи должен быть положительным числом")
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := parseOwnerID(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	sortBy := r.URL.Query().Get("sort")

	tasks, err := h.TaskService.ListTasks(r.Context(), middleware.GetIdentity(r.Context()), ownerID, status, sortBy)
	if err != nil {
		respondServiceError(w, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks)),
		toPayload("count", len(tasks)),
	)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := parseOwnerID(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), middleware.GetIdentity(r.Context()), ownerID, request.Title, request.Description)
	if err != nil {
		respondServiceError(w, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromTask(created))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := parseOwnerID(w, r)
	if !ok {
		return
	}
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	t, err := h.TaskService.GetTask(r.Context(), middleware.GetIdentity(r.Context()), ownerID, id)
	if err != nil {
		respondServiceError(w, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(t))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := parseOwnerID(w, r)
	if !ok {
		return
	}
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), middleware.GetIdentity(r.Context()), ownerID, id, request.ToPatch())
	if err != nil {
		respondServiceError(w, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := parseOwnerID(w, r)
	if !ok {
		return
	}
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), middleware.GetIdentity(r.Context()), ownerID, id); err != nil {
		respondServiceError(w, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("message", "Задача удалена"),
		toPayload("deleted_task_id", id),
	)
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := parseOwnerID(w, r)
	if !ok {
		return
	}
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var request dto.CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Completed == nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "completed"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "поле completed обязательно")
		return
	}

	updated, err := h.TaskService.SetTaskCompletion(r.Context(), middleware.GetIdentity(r.Context()), ownerID, id, *request.Completed)
	if err != nil {
		respondServiceError(w, err, "complete_task")
		return
	}

	logger.Info("HTTP_OUT: Статус выполнения изменён",
		zap.Int64("task_id", id),
		zap.Bool("completed", updated.Completed),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("service", "todo-tracker"),
			toPayload("status", "unhealthy"),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("service", "todo-tracker"),
		toPayload("status", "ok"),
	)
}

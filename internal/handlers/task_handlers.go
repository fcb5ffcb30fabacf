package handlers

import (
	"net/http"
	"time"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService Service
	Health      HealthReporter
}

func NewTaskHandler(taskService Service, health HealthReporter) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
		Health:      health,
	}
}

// Routes - маршруты /api/tasks, монтируются в app.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListTasks)   // GET /api/tasks
	r.Post("/", h.CreateTask) // POST /api/tasks

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTask)       // GET /api/tasks/{id}
		r.Put("/", h.UpdateTask)    // PUT /api/tasks/{id}
		r.Delete("/", h.DeleteTask) // DELETE /api/tasks/{id}
	})

	return r
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := h.TaskService.ListTasks(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "Failed to fetch tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	found, err := h.TaskService.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err, "Failed to fetch task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Int64("task_id", found.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, found)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if err := decodeBody(w, r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	title, ok := request.TitleValue()
	if !ok {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "title"),
			zap.String("error", "missing_or_not_string"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), title, request.CompletedValue())
	if err != nil {
		handleServiceError(w, r, err, "Failed to create task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	rawID := chi.URLParam(r, "id")
	// id проверяется раньше тела, как и в остальных маршрутах
	if _, err := service.ParseTaskID(rawID); err != nil {
		handleServiceError(w, r, err, "Failed to update task")
		return
	}

	var request dto.UpdateTaskRequest
	if err := decodeBody(w, r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), rawID, request.ToPatch())
	if err != nil {
		handleServiceError(w, r, err, "Failed to update task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", updated.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if err := h.TaskService.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err, "Failed to delete task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

// HealthCheck: 503 только при недоступной базе, кэш на код ответа не влияет.
func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	report := h.Health.Report(r.Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, report)
}

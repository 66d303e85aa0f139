// Package api provides HTTP handlers for the API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Jorik-creator/microvolunteer/internal/api/shared"
	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/platform/logger"
	"github.com/Jorik-creator/microvolunteer/internal/service"
	"github.com/Jorik-creator/microvolunteer/internal/service/participation"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TaskHandler handles task-related HTTP requests: the lifecycle endpoints
// backed by the task service and the join/leave endpoints backed by the
// participation service.
type TaskHandler struct {
	taskService          service.TaskService
	participationService participation.ParticipationService
	validator            *validator.Validate
	logger               *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(
	taskService service.TaskService,
	participationService participation.ParticipationService,
	log *slog.Logger,
) *TaskHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService:          taskService,
		participationService: participationService,
		validator:            validator.New(),
		logger:               log.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format",
			shared.WithReason(ReasonValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err),
			shared.WithReason(ReasonValidation))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, service.TaskCreateInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task created via API", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	detail, err := h.taskService.GetTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	response := detailToResponse(detail)

	// When the caller is authenticated, include whether they participate.
	if userID, ok := getUserIDFromContext(r); ok {
		active, err := h.participationService.IsParticipating(r.Context(), taskID, userID)
		if err == nil {
			response.Participating = &active
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// ListTasks handles GET /tasks requests with optional status, category_id,
// creator_id, limit, and offset query parameters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := taskListFilterFromQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UpdateTask handles PATCH /tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format",
			shared.WithReason(ReasonValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err),
			shared.WithReason(ReasonValidation))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CompleteTask handles POST /tasks/{id}/complete requests.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.taskService.CompleteTask)
}

// CancelTask handles POST /tasks/{id}/cancel requests.
func (h *TaskHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.taskService.CancelTask)
}

func (h *TaskHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, callerID, taskID uuid.UUID) (*domain.Task, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := op(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// JoinTask handles POST /tasks/{id}/join requests. The request body is
// optional; when present it may carry a note for the task author.
func (h *TaskHandler) JoinTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req JoinTaskRequest
	if r.ContentLength > 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format",
				shared.WithReason(ReasonValidation))
			return
		}
		if err := h.validator.Struct(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err),
				shared.WithReason(ReasonValidation))
			return
		}
	}

	snap, err := h.participationService.Join(r.Context(), taskID, userID, req.Note)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("join accepted",
		slog.String("task_id", taskID.String()),
		slog.String("volunteer_id", userID.String()),
		slog.Int("active_count", snap.ActiveCount))
	shared.RespondWithJSON(w, r, http.StatusCreated, snapshotToResponse(snap))
}

// LeaveTask handles POST /tasks/{id}/leave requests.
func (h *TaskHandler) LeaveTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	snap, err := h.participationService.Leave(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("leave accepted",
		slog.String("task_id", taskID.String()),
		slog.String("volunteer_id", userID.String()),
		slog.Int("active_count", snap.ActiveCount))
	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// ListParticipants handles GET /tasks/{id}/participants requests.
func (h *TaskHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	participants, err := h.participationService.ListParticipants(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		responses = append(responses, ParticipantResponse{
			VolunteerID: p.VolunteerID,
			JoinedAt:    p.JoinedAt,
			Note:        p.Note,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// taskListFilterFromQuery builds a store filter from query parameters.
func taskListFilterFromQuery(r *http.Request) (store.TaskListFilter, error) {
	var filter store.TaskListFilter

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.TaskStatus(status)
	}
	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return filter, domain.NewValidationError("category_id", "has invalid format", domain.ErrInvalidID)
		}
		filter.CategoryID = id
	}
	if creatorID := r.URL.Query().Get("creator_id"); creatorID != "" {
		id, err := uuid.Parse(creatorID)
		if err != nil {
			return filter, domain.NewValidationError("creator_id", "has invalid format", domain.ErrInvalidID)
		}
		filter.CreatorID = id
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return filter, domain.NewValidationError("limit", "must be a non-negative integer", domain.ErrValidation)
		}
		filter.Limit = n
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return filter, domain.NewValidationError("offset", "must be a non-negative integer", domain.ErrValidation)
		}
		filter.Offset = n
	}

	return filter, nil
}

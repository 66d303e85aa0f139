package api

import (
	"log/slog"
	"net/http"

	"github.com/Jorik-creator/microvolunteer/internal/api/shared"
	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/platform/logger"
	"github.com/Jorik-creator/microvolunteer/internal/service"
	"github.com/go-playground/validator/v10"
)

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService service.CategoryService, log *slog.Logger) *CategoryHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CategoryHandler")
	}

	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
		logger:          log.With(slog.String("component", "category_handler")),
	}
}

// ListCategories handles GET /categories requests.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, categoryToResponse(category))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetCategory handles GET /categories/{id} requests.
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	category, err := h.categoryService.GetCategory(r.Context(), categoryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categoryToResponse(category))
}

// CreateCategory handles POST /categories requests. Admin only.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateCategoryRequest
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

	category, err := h.categoryService.CreateCategory(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, categoryToResponse(category))
}

// UpdateCategory handles PATCH /categories/{id} requests. Admin only.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, categoryID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
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

	category, err := h.categoryService.UpdateCategory(r.Context(), userID, categoryID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categoryToResponse(category))
}

// DeleteCategory handles DELETE /categories/{id} requests. Admin only.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, categoryID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

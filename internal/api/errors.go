package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Jorik-creator/microvolunteer/internal/api/shared"
	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/service"
	"github.com/Jorik-creator/microvolunteer/internal/service/auth"
	"github.com/Jorik-creator/microvolunteer/internal/service/participation"
	"github.com/Jorik-creator/microvolunteer/internal/store"
)

// Reason codes for errors the participation package does not own. Together
// with participation.ReasonCode these give every expected rejection a stable
// machine-readable value.
const (
	ReasonNotOwner           = "NOT_OWNER"
	ReasonForbidden          = "FORBIDDEN"
	ReasonTaskTerminal       = "TASK_ALREADY_TERMINAL"
	ReasonTaskHasVolunteers  = "TASK_HAS_ACTIVE_PARTICIPANTS"
	ReasonCapacityBelowCount = "CAPACITY_BELOW_ACTIVE"
	ReasonCategoryInUse      = "CATEGORY_IN_USE"
	ReasonEmailExists        = "EMAIL_EXISTS"
	ReasonValidation         = "VALIDATION_ERROR"
	ReasonCategoryNotFound   = "CATEGORY_NOT_FOUND"
	ReasonUserNotFound       = "USER_NOT_FOUND"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, participation.ErrUnauthorized),
		errors.Is(err, participation.ErrIsCreator),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrCategoryNotFound),
		errors.Is(err, participation.ErrTaskNotFound):
		return http.StatusNotFound

	// Conflict errors: admission rejections and lifecycle guards
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, participation.ErrAlreadyActive),
		errors.Is(err, participation.ErrCapacityExceeded),
		errors.Is(err, participation.ErrTaskNotJoinable),
		errors.Is(err, participation.ErrTaskExpired),
		errors.Is(err, participation.ErrNotParticipating),
		errors.Is(err, service.ErrTaskAlreadyTerminal),
		errors.Is(err, service.ErrTaskHasActiveParticipants),
		errors.Is(err, service.ErrCapacityBelowActive),
		errors.Is(err, service.ErrCategoryInUse),
		errors.Is(err, participation.ErrConcurrencyConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTaskCapacity),
		errors.Is(err, domain.ErrEmptyTaskTitle),
		errors.Is(err, domain.ErrScheduledTimeInPast):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// ReasonForError returns the stable machine-readable reason code for an
// error, or the empty string when none applies.
func ReasonForError(err error) string {
	if code := participation.ReasonCode(err); code != "" {
		return code
	}
	switch {
	case errors.Is(err, service.ErrNotOwned):
		return ReasonNotOwner
	case errors.Is(err, service.ErrForbidden):
		return ReasonForbidden
	case errors.Is(err, service.ErrTaskAlreadyTerminal):
		return ReasonTaskTerminal
	case errors.Is(err, service.ErrTaskHasActiveParticipants):
		return ReasonTaskHasVolunteers
	case errors.Is(err, service.ErrCapacityBelowActive):
		return ReasonCapacityBelowCount
	case errors.Is(err, service.ErrCategoryInUse):
		return ReasonCategoryInUse
	case errors.Is(err, store.ErrEmailExists):
		return ReasonEmailExists
	case errors.Is(err, store.ErrTaskNotFound):
		return participation.ReasonTaskNotFound
	case errors.Is(err, store.ErrCategoryNotFound):
		return ReasonCategoryNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ReasonUserNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return ReasonValidation
	default:
		return ""
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, participation.ErrUnauthorized):
		return "You are not allowed to volunteer"
	case errors.Is(err, participation.ErrIsCreator):
		return "You cannot join a task you created"
	case errors.Is(err, participation.ErrAlreadyActive):
		return "You are already participating in this task"
	case errors.Is(err, participation.ErrTaskNotJoinable):
		return "This task is no longer accepting volunteers"
	case errors.Is(err, participation.ErrTaskExpired):
		return "This task's scheduled time has passed"
	case errors.Is(err, participation.ErrCapacityExceeded):
		return "This task is already full"
	case errors.Is(err, participation.ErrNotParticipating):
		return "You are not participating in this task"
	case errors.Is(err, participation.ErrConcurrencyConflict):
		return "The task is being updated, please retry"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this task"
	case errors.Is(err, service.ErrForbidden):
		return "You are not allowed to perform this operation"
	case errors.Is(err, service.ErrTaskAlreadyTerminal):
		return "This task is already completed or cancelled"
	case errors.Is(err, service.ErrTaskHasActiveParticipants):
		return "This task still has active volunteers"
	case errors.Is(err, service.ErrCapacityBelowActive):
		return "Capacity cannot be lower than the current number of volunteers"
	case errors.Is(err, service.ErrCategoryInUse):
		return "This category still has tasks"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, participation.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps an error to its status code, reason code, and safe
// message, then writes the response and logs the underlying error. An
// explicit userMessage overrides the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	message := userMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err,
		shared.WithReason(ReasonForError(err)))
}

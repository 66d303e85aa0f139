// Package service provides application-level services for managing tasks,
// categories, and users.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrForbidden indicates the caller's role does not permit the operation.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("operation not permitted for caller")

	// ErrTaskAlreadyTerminal indicates a lifecycle transition was requested on
	// a task that is already completed or cancelled.
	// API layer should map this to HTTP 409 Conflict.
	ErrTaskAlreadyTerminal = errors.New("task is already in a terminal status")

	// ErrTaskHasActiveParticipants indicates a delete was requested while
	// volunteers are still signed up. API layer should map this to HTTP 409.
	ErrTaskHasActiveParticipants = errors.New("task still has active participants")

	// ErrCapacityBelowActive indicates a capacity update would leave more
	// active participants than seats. API layer should map this to HTTP 409.
	ErrCapacityBelowActive = errors.New("capacity cannot drop below active participant count")

	// ErrCategoryInUse indicates a category delete was requested while tasks
	// still reference it. API layer should map this to HTTP 409 Conflict.
	ErrCategoryInUse = errors.New("category is referenced by existing tasks")
)

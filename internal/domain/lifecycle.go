package domain

import "errors"

// Lifecycle transition errors
var (
	// ErrTaskTerminal is returned when a transition is requested on a task
	// that has already reached completed or cancelled.
	ErrTaskTerminal = errors.New("task is in a terminal status")

	// ErrTaskHasParticipants is returned when deletion is requested for a
	// task that still has active participants or is in progress.
	ErrTaskHasParticipants = errors.New("task has active participants")
)

// The task status state machine.
//
// open and in_progress are the two live states; completed and cancelled are
// terminal. Join and leave move a task between open and in_progress based on
// how many active participants it has relative to capacity: reaching
// capacity flips open -> in_progress, and freeing a slot flips back. The
// author ends the lifecycle explicitly with complete or cancel.
//
// Every helper below is a pure function of the status, the capacity and the
// authoritative active-participant count. Callers must supply a count read
// inside the same transaction as the triggering join or leave; feeding a
// stale count here is a correctness bug, not something these functions can
// detect.

// StatusAfterJoin returns the status a task should hold after a join has
// been admitted, given its capacity and the active count that now includes
// the new participant.
func StatusAfterJoin(capacity, activeCount int) TaskStatus {
	if activeCount >= capacity {
		return TaskStatusInProgress
	}
	return TaskStatusOpen
}

// StatusAfterLeave returns the status a task should hold after a volunteer
// has left, given its capacity and the active count that no longer includes
// the departed participant.
func StatusAfterLeave(capacity, activeCount int) TaskStatus {
	if activeCount >= capacity {
		return TaskStatusInProgress
	}
	return TaskStatusOpen
}

// CanComplete reports whether a task in the given status may transition to
// completed. Only live tasks can be completed.
func CanComplete(status TaskStatus) bool {
	return status == TaskStatusOpen || status == TaskStatusInProgress
}

// CanCancel reports whether a task in the given status may transition to
// cancelled. Only live tasks can be cancelled.
func CanCancel(status TaskStatus) bool {
	return status == TaskStatusOpen || status == TaskStatusInProgress
}

// CanDelete reports whether a task may be physically deleted. Deletion is
// permitted only when the task is not in progress and no participation row
// is still active, so the durable history of live work is never destroyed.
func CanDelete(status TaskStatus, activeCount int) bool {
	return status != TaskStatusInProgress && activeCount == 0
}

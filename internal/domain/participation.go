package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Participation
var (
	ErrEmptyParticipationID = errors.New("participation ID cannot be empty")
	ErrEmptyTaskReference   = errors.New("participation task ID cannot be empty")
	ErrEmptyVolunteerID     = errors.New("participation volunteer ID cannot be empty")
	ErrParticipationEnded   = errors.New("participation has already ended")
)

// Participation records one volunteer's association with one task. A row is
// created when a join is admitted and flipped inactive when the volunteer
// leaves; rows are never deleted, so the full join/leave history of a task
// is preserved. Re-joining after leaving creates a new row rather than
// reactivating the old one.
//
// For a given (task, volunteer) pair at most one row is active at a time;
// the storage layer enforces this with a partial unique index.
type Participation struct {
	ID          uuid.UUID  `json:"id"`
	TaskID      uuid.UUID  `json:"task_id"`
	VolunteerID uuid.UUID  `json:"volunteer_id"`
	Note        string     `json:"note,omitempty"`
	Active      bool       `json:"active"`
	JoinedAt    time.Time  `json:"joined_at"`
	LeftAt      *time.Time `json:"left_at,omitempty"`
}

// NewParticipation creates a new active Participation for the given task and
// volunteer. It generates a new UUID for the participation ID and stamps the
// join time. Returns an error if validation fails.
func NewParticipation(taskID, volunteerID uuid.UUID, note string) (*Participation, error) {
	p := &Participation{
		ID:          uuid.New(),
		TaskID:      taskID,
		VolunteerID: volunteerID,
		Note:        note,
		Active:      true,
		JoinedAt:    time.Now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Participation has valid data.
// Returns an error if any field fails validation.
func (p *Participation) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyParticipationID
	}

	if p.TaskID == uuid.Nil {
		return ErrEmptyTaskReference
	}

	if p.VolunteerID == uuid.Nil {
		return ErrEmptyVolunteerID
	}

	return nil
}

// End marks the participation inactive and stamps the leave time.
// Returns ErrParticipationEnded if it is already inactive: leaving is not
// reentrant, a second leave for the same row must fail.
func (p *Participation) End() error {
	if !p.Active {
		return ErrParticipationEnded
	}

	now := time.Now().UTC()
	p.Active = false
	p.LeftAt = &now
	return nil
}

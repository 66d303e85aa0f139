package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewParticipation(t *testing.T) {
	t.Parallel() // Enable parallel execution
	taskID := uuid.New()
	volunteerID := uuid.New()

	p, err := NewParticipation(taskID, volunteerID, "bringing a ladder")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if !p.Active {
		t.Error("Expected new participation to be active")
	}

	if p.LeftAt != nil {
		t.Error("Expected nil LeftAt on a new participation")
	}

	if p.JoinedAt.IsZero() {
		t.Error("Expected non-zero JoinedAt time")
	}

	// Invalid task reference
	_, err = NewParticipation(uuid.Nil, volunteerID, "")
	if err != ErrEmptyTaskReference {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskReference, err)
	}

	// Invalid volunteer reference
	_, err = NewParticipation(taskID, uuid.Nil, "")
	if err != ErrEmptyVolunteerID {
		t.Errorf("Expected error %v, got %v", ErrEmptyVolunteerID, err)
	}
}

func TestParticipationEnd(t *testing.T) {
	t.Parallel() // Enable parallel execution
	p, err := NewParticipation(uuid.New(), uuid.New(), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := p.End(); err != nil {
		t.Fatalf("Expected no error ending participation, got %v", err)
	}

	if p.Active {
		t.Error("Expected participation to be inactive after End")
	}

	if p.LeftAt == nil {
		t.Error("Expected LeftAt to be set after End")
	}

	// Ending twice must fail; leave is not reentrant
	if err := p.End(); err != ErrParticipationEnded {
		t.Errorf("Expected error %v, got %v", ErrParticipationEnded, err)
	}
}

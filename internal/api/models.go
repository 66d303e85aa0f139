package api

import (
	"time"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/service"
	"github.com/Jorik-creator/microvolunteer/internal/service/participation"
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
	Password    string `json:"password"     validate:"required,min=12,max=72"`
	Role        string `json:"role"         validate:"omitempty,oneof=volunteer author"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Role is the user's role at issue time
	Role string `json:"role"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateTaskRequest defines the payload for posting a new task.
type CreateTaskRequest struct {
	CategoryID  uuid.UUID  `json:"category_id" validate:"required"`
	Title       string     `json:"title"        validate:"required,min=1,max=200"`
	Description string     `json:"description"  validate:"max=4000"`
	Location    string     `json:"location"     validate:"max=500"`
	Capacity    int        `json:"capacity"     validate:"required,min=1"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// UpdateTaskRequest defines the payload for editing a task. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=4000"`
	Location    *string    `json:"location,omitempty"    validate:"omitempty,max=500"`
	Capacity    *int       `json:"capacity,omitempty"    validate:"omitempty,min=1"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// JoinTaskRequest defines the optional payload for joining a task.
type JoinTaskRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	CategoryID  uuid.UUID  `json:"category_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Capacity    int        `json:"capacity"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskDetailResponse pairs a task with its participation summary.
type TaskDetailResponse struct {
	TaskResponse
	ActiveCount   int   `json:"active_count"`
	Participating *bool `json:"participating,omitempty"`
}

// ParticipantResponse represents one entry of a task's participant listing.
type ParticipantResponse struct {
	VolunteerID uuid.UUID `json:"volunteer_id"`
	JoinedAt    time.Time `json:"joined_at"`
	Note        string    `json:"note,omitempty"`
}

// UserResponse represents the response data for a user profile.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateCategoryRequest defines the payload for editing a category. Absent
// fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// CategoryResponse represents the response data for a category.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		CreatorID:   task.CreatorID,
		CategoryID:  task.CategoryID,
		Title:       task.Title,
		Description: task.Description,
		Location:    task.Location,
		Capacity:    task.Capacity,
		ScheduledAt: task.ScheduledAt,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		CompletedAt: task.CompletedAt,
	}
}

func snapshotToResponse(snap *participation.TaskSnapshot) TaskDetailResponse {
	participating := snap.Participating
	return TaskDetailResponse{
		TaskResponse:  taskToResponse(snap.Task),
		ActiveCount:   snap.ActiveCount,
		Participating: &participating,
	}
}

func detailToResponse(detail *service.TaskDetail) TaskDetailResponse {
	return TaskDetailResponse{
		TaskResponse: taskToResponse(detail.Task),
		ActiveCount:  detail.ActiveCount,
	}
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt,
	}
}

func categoryToResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jorik-creator/microvolunteer/internal/api/shared"
	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedUserID uuid.UUID
		expectedRole   domain.UserRole
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: userID, Role: domain.RoleAuthor},
			expectedStatus: http.StatusOK,
			expectedUserID: userID,
			expectedRole:   domain.RoleAuthor,
		},
		{
			name:           "missing auth header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed auth header",
			authHeader:     "NotBearer",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "refresh token presented as access token",
			authHeader:     "Bearer refresh-token",
			validateErr:    auth.ErrWrongTokenType,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer some-token",
			validateErr:    errors.New("signing key rotated"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &auth.MockJWTService{
				ValidateTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
					if tc.validateErr != nil {
						return nil, tc.validateErr
					}
					return tc.claims, nil
				},
			}
			middleware := NewAuthMiddleware(jwtService)

			var gotUserID uuid.UUID
			var gotRole domain.UserRole
			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = GetUserID(r)
				gotRole, _ = shared.GetUserRole(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req, err := http.NewRequest(http.MethodGet, "/tasks", nil)
			require.NoError(t, err)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()
			middleware.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusOK {
				assert.True(t, nextCalled)
				assert.Equal(t, tc.expectedUserID, gotUserID)
				assert.Equal(t, tc.expectedRole, gotRole)
			} else {
				assert.False(t, nextCalled, "next handler must not run on auth failure")
			}
		})
	}
}

func TestAuthMiddlewareOptionalAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name         string
		authHeader   string
		validateErr  error
		expectUserID bool
	}{
		{
			name:         "valid token stashes caller",
			authHeader:   "Bearer valid-token",
			expectUserID: true,
		},
		{
			name:       "no header passes through anonymously",
			authHeader: "",
		},
		{
			name:        "invalid token degrades to anonymous",
			authHeader:  "Bearer stale-token",
			validateErr: auth.ErrInvalidToken,
		},
		{
			name:       "malformed header degrades to anonymous",
			authHeader: "Basic dXNlcjpwYXNz",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &auth.MockJWTService{
				ValidateTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
					if tc.validateErr != nil {
						return nil, tc.validateErr
					}
					return &auth.Claims{UserID: userID, Role: domain.RoleVolunteer}, nil
				},
			}
			middleware := NewAuthMiddleware(jwtService)

			var gotUserID uuid.UUID
			var gotOK bool
			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, gotOK = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req, err := http.NewRequest(http.MethodGet, "/tasks/some-id", nil)
			require.NoError(t, err)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()
			middleware.OptionalAuthenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.True(t, nextCalled, "optional auth must never block the request")
			if tc.expectUserID {
				require.True(t, gotOK)
				assert.Equal(t, userID, gotUserID)
			} else {
				assert.False(t, gotOK)
			}
		})
	}
}

func TestGetUserIDMissing(t *testing.T) {
	t.Parallel()

	req, err := http.NewRequest(http.MethodGet, "/tasks", nil)
	require.NoError(t, err)

	_, ok := GetUserID(req)
	assert.False(t, ok)
}

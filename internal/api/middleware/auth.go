package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Jorik-creator/microvolunteer/internal/api/shared"
	"github.com/Jorik-creator/microvolunteer/internal/redact"
	"github.com/Jorik-creator/microvolunteer/internal/service/auth"
	"github.com/google/uuid"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the Bearer token from the Authorization header and
// adds the caller's user ID and role to the request context. Requests
// without a valid token are rejected.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch err {
			case auth.ErrExpiredToken:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case auth.ErrInvalidToken, auth.ErrWrongTokenType:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), claims)))
	})
}

// OptionalAuthenticate stashes the caller's identity when a valid Bearer
// token is present and otherwise lets the request through anonymously. It
// never rejects: routes that serve both anonymous and authenticated callers
// (task detail with its participation flag) use this instead of
// Authenticate.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			// A bad token on an anonymous-capable route degrades to an
			// anonymous request rather than an error.
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), claims)))
	})
}

// bearerToken pulls the token out of a "Bearer <token>" Authorization
// header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// withCaller records the authenticated caller's ID and role in the context.
func withCaller(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, shared.UserIDContextKey, claims.UserID)
	return context.WithValue(ctx, shared.UserRoleContextKey, claims.Role)
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}

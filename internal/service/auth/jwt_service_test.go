package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Jorik-creator/microvolunteer/internal/config"
	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-secret-at-least-32-characters-long",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60 * 24,
	}
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID, domain.RoleAuthor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.RoleAuthor, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(ctx, userID, domain.RoleVolunteer)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestValidateTokenRejectsWrongType(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()

	refresh, err := svc.GenerateRefreshToken(ctx, userID, domain.RoleVolunteer)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	access, err := svc.GenerateToken(ctx, userID, domain.RoleVolunteer)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateRefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	svcIface, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	svc, ok := svcIface.(*hmacJWTService)
	require.True(t, ok)

	ctx := context.Background()
	userID := uuid.New()

	// Issue the token far enough in the past that the clock skew leeway
	// cannot rescue it.
	issuedAt := time.Now().Add(-24 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(ctx, userID, domain.RoleVolunteer)
	require.NoError(t, err)

	svc.timeFunc = time.Now
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	t.Parallel()

	svcA, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	cfgB := testAuthConfig()
	cfgB.JWTSecret = "another-secret-that-is-also-32-chars!!"
	svcB, err := NewJWTService(cfgB)
	require.NoError(t, err)

	token, err := svcA.GenerateToken(context.Background(), uuid.New(), domain.RoleVolunteer)
	require.NoError(t, err)

	_, err = svcB.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	v := NewBcryptVerifier()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery staple"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, v.Compare(string(hash), "correct horse battery staple"))
	assert.Error(t, v.Compare(string(hash), "wrong password"))
}

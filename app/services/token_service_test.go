package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasobra/backend/models"
)

const testSecret = "test-secret-key-that-is-long-enough"

func newHS256Service(t *testing.T, ttl time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(ttl, "horasobra", "horasobra-api", false, "", "", testSecret)
	require.NoError(t, err)
	return svc
}

func testUser() *models.User {
	workerID := "W-1"
	active := true
	return &models.User{
		ID:       42,
		Username: "ana",
		Role:     models.RoleWorker,
		WorkerID: &workerID,
		IsActive: &active,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newHS256Service(t, time.Hour)

	token, expiresIn, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, models.RoleWorker, claims.Role)
	require.NotNil(t, claims.WorkerID)
	assert.Equal(t, "W-1", *claims.WorkerID)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestTokenWithoutWorkerLink(t *testing.T) {
	svc := newHS256Service(t, time.Hour)

	user := testUser()
	user.WorkerID = nil
	user.Role = models.RoleAdmin

	token, _, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.WorkerID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenUniqueIDs(t *testing.T) {
	svc := newHS256Service(t, time.Hour)

	first, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	second, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestExpiredToken(t *testing.T) {
	svc := newHS256Service(t, -time.Minute)

	token, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSignedWithDifferentSecret(t *testing.T) {
	issuing, err := NewTokenService(time.Hour, "horasobra", "horasobra-api", false, "", "", "a-completely-different-secret-key")
	require.NoError(t, err)
	validating := newHS256Service(t, time.Hour)

	token, _, err := issuing.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = validating.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMalformedToken(t *testing.T) {
	svc := newHS256Service(t, time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestTokenServiceRequiresKeyMaterial(t *testing.T) {
	_, err := NewTokenService(time.Hour, "horasobra", "horasobra-api", false, "", "", "")
	assert.Error(t, err)

	_, err = NewTokenService(time.Hour, "horasobra", "horasobra-api", true, "", "", "")
	assert.Error(t, err)
}

package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/app/services"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/utils"
)

type fakeTokenService struct {
	token string
	err   error
}

func (s *fakeTokenService) GenerateToken(user *models.User) (string, int, error) {
	if s.err != nil {
		return "", 0, s.err
	}
	return s.token, utils.AccessTokenTTLSeconds, nil
}

func (s *fakeTokenService) ValidateToken(token string) (*services.TokenClaims, error) {
	return nil, errors.New("not implemented")
}

func seedUser(t *testing.T, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	workerID := "W-1"
	return &models.User{
		ID:           1,
		Username:     "ana",
		PasswordHash: string(hash),
		Role:         models.RoleWorker,
		WorkerID:     &workerID,
		IsActive:     &active,
	}
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserRepo(seedUser(t, "s3cret-pass", true))
	flow := NewLoginFlow(users, &fakeTokenService{token: "signed-token"})

	resp, err := flow.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, utils.AccessTokenTTLSeconds, resp.ExpiresIn)
	assert.Equal(t, "ana", resp.User.Username)
	require.NotNil(t, resp.User.LastLoginAt)

	stored, err := users.ByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestLoginDoesNotRevealAccountExistence(t *testing.T) {
	users := newFakeUserRepo(seedUser(t, "s3cret-pass", true))
	flow := NewLoginFlow(users, &fakeTokenService{token: "signed-token"})
	ctx := context.Background()

	_, wrongPassword := flow.Login(ctx, &dto.LoginRequest{Username: "ana", Password: "wrong"})
	_, unknownUser := flow.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "whatever"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.True(t, IsIncorrectPassword(wrongPassword))
	assert.True(t, IsIncorrectPassword(unknownUser))
}

func TestMe(t *testing.T) {
	users := newFakeUserRepo(seedUser(t, "s3cret-pass", true))
	flow := NewLoginFlow(users, &fakeTokenService{token: "signed-token"})
	ctx := context.Background()

	me, err := flow.Me(ctx, Actor{UserID: 1, Username: "ana", Role: models.RoleWorker})
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)
	require.NotNil(t, me.WorkerID)
	assert.Equal(t, "W-1", *me.WorkerID)

	_, err = flow.Me(ctx, Actor{UserID: 404})
	require.Error(t, err)
	assert.True(t, IsUserNotFound(err))
}

func TestLoginInactiveAccount(t *testing.T) {
	users := newFakeUserRepo(seedUser(t, "s3cret-pass", false))
	flow := NewLoginFlow(users, &fakeTokenService{token: "signed-token"})

	_, err := flow.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.True(t, IsUserInactive(err))
}

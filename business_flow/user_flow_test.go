package businessflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
)

func newUserFlowFixture() (UserFlow, *fakeUserRepo, *fakeWorkerRepo) {
	users := newFakeUserRepo()
	workers := newFakeWorkerRepo(&models.Worker{ID: "W-1", Name: "Ana Torres"})
	return NewUserFlow(users, workers), users, workers
}

func TestUserFlowAdminOnly(t *testing.T) {
	flow, _, _ := newUserFlowFixture()
	ctx := context.Background()

	for _, actor := range []Actor{secretaryActor(), workerActor("W-1")} {
		_, err := flow.List(ctx, actor, 0, 0)
		require.Error(t, err)
		assert.True(t, IsPermissionDenied(err))

		_, err = flow.Create(ctx, actor, &dto.CreateUserRequest{
			Username: "new", Password: "password-123", Role: models.RoleSecretary,
		})
		require.Error(t, err)
		assert.True(t, IsPermissionDenied(err))
	}
}

func TestUserFlowCreate(t *testing.T) {
	flow, users, _ := newUserFlowFixture()
	ctx := context.Background()
	workerID := "W-1"

	created, err := flow.Create(ctx, adminActor(), &dto.CreateUserRequest{
		Username: "ana",
		Password: "s3cret-pass",
		Role:     models.RoleWorker,
		WorkerID: &workerID,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.WorkerID)
	assert.Equal(t, "W-1", *created.WorkerID)

	// The stored hash verifies against the original password.
	stored, err := users.ByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))

	_, err = flow.Create(ctx, adminActor(), &dto.CreateUserRequest{
		Username: "ana", Password: "another-pass", Role: models.RoleSecretary,
	})
	require.Error(t, err)
	assert.True(t, IsUsernameAlreadyExists(err))

	ghost := "W-404"
	_, err = flow.Create(ctx, adminActor(), &dto.CreateUserRequest{
		Username: "ghost", Password: "password-123", Role: models.RoleWorker, WorkerID: &ghost,
	})
	require.Error(t, err)
	assert.True(t, IsWorkerNotFound(err))
}

func TestUserFlowUpdate(t *testing.T) {
	flow, _, _ := newUserFlowFixture()
	ctx := context.Background()

	created, err := flow.Create(ctx, adminActor(), &dto.CreateUserRequest{
		Username: "ana", Password: "s3cret-pass", Role: models.RoleSecretary,
	})
	require.NoError(t, err)

	inactive := false
	workerID := "W-1"
	role := models.RoleWorker
	updated, err := flow.Update(ctx, adminActor(), created.ID, &dto.UpdateUserRequest{
		Role:     &role,
		WorkerID: dto.Optional[string]{Set: true, Value: &workerID},
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleWorker, updated.Role)
	assert.False(t, updated.IsActive)
	require.NotNil(t, updated.WorkerID)

	// Explicit null unlinks the worker.
	unlinked, err := flow.Update(ctx, adminActor(), created.ID, &dto.UpdateUserRequest{
		WorkerID: dto.Optional[string]{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, unlinked.WorkerID)

	_, err = flow.Update(ctx, adminActor(), 999, &dto.UpdateUserRequest{})
	require.Error(t, err)
	assert.True(t, IsUserNotFound(err))
}

func TestUserFlowUpdateUsernameCollision(t *testing.T) {
	flow, _, _ := newUserFlowFixture()
	ctx := context.Background()

	_, err := flow.Create(ctx, adminActor(), &dto.CreateUserRequest{
		Username: "ana", Password: "s3cret-pass", Role: models.RoleSecretary,
	})
	require.NoError(t, err)
	second, err := flow.Create(ctx, adminActor(), &dto.CreateUserRequest{
		Username: "luis", Password: "s3cret-pass", Role: models.RoleSecretary,
	})
	require.NoError(t, err)

	taken := "ana"
	_, err = flow.Update(ctx, adminActor(), second.ID, &dto.UpdateUserRequest{Username: &taken})
	require.Error(t, err)
	assert.True(t, IsUsernameAlreadyExists(err))
}

func TestUserFlowResetPassword(t *testing.T) {
	flow, users, _ := newUserFlowFixture()
	ctx := context.Background()

	created, err := flow.Create(ctx, adminActor(), &dto.CreateUserRequest{
		Username: "ana", Password: "old-password", Role: models.RoleSecretary,
	})
	require.NoError(t, err)

	require.NoError(t, flow.ResetPassword(ctx, adminActor(), created.ID, &dto.ResetPasswordRequest{
		Password: "new-password",
	}))

	stored, err := users.ByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("old-password")))
}

func TestUserFlowDelete(t *testing.T) {
	flow, users, _ := newUserFlowFixture()
	ctx := context.Background()

	created, err := flow.Create(ctx, adminActor(), &dto.CreateUserRequest{
		Username: "ana", Password: "s3cret-pass", Role: models.RoleSecretary,
	})
	require.NoError(t, err)

	// Admins cannot delete their own account.
	self := adminActor()
	self.UserID = created.ID
	err = flow.Delete(ctx, self, created.ID)
	require.Error(t, err)
	assert.True(t, IsPermissionDenied(err))

	require.NoError(t, flow.Delete(ctx, adminActor(), created.ID))
	stored, err := users.ByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

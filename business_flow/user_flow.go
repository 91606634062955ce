package businessflow

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
)

// UserFlow manages login accounts. Every operation is admin-only.
type UserFlow interface {
	List(ctx context.Context, actor Actor, limit, offset int) ([]dto.UserDTO, error)
	Get(ctx context.Context, actor Actor, userID uint) (*dto.UserDTO, error)
	Create(ctx context.Context, actor Actor, req *dto.CreateUserRequest) (*dto.UserDTO, error)
	Update(ctx context.Context, actor Actor, userID uint, req *dto.UpdateUserRequest) (*dto.UserDTO, error)
	ResetPassword(ctx context.Context, actor Actor, userID uint, req *dto.ResetPasswordRequest) error
	Delete(ctx context.Context, actor Actor, userID uint) error
}

// UserFlowImpl implements UserFlow
type UserFlowImpl struct {
	userRepo   repository.UserRepository
	workerRepo repository.WorkerRepository
}

// NewUserFlow constructs a UserFlow
func NewUserFlow(userRepo repository.UserRepository, workerRepo repository.WorkerRepository) UserFlow {
	return &UserFlowImpl{
		userRepo:   userRepo,
		workerRepo: workerRepo,
	}
}

func toUserDTO(user *models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.Role,
		WorkerID:    user.WorkerID,
		IsActive:    user.IsActive != nil && *user.IsActive,
		LastLoginAt: user.LastLoginAt,
	}
}

func requireAdmin(actor Actor, code string) error {
	if actor.Role != models.RoleAdmin {
		return NewBusinessError(code, "Only admin may manage user accounts", ErrPermissionDenied)
	}
	return nil
}

func (f *UserFlowImpl) List(ctx context.Context, actor Actor, limit, offset int) ([]dto.UserDTO, error) {
	if err := requireAdmin(actor, "USER_LIST_FAILED"); err != nil {
		return nil, err
	}

	users, err := f.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("USER_LIST_FAILED", "Failed to list users", err)
	}

	out := make([]dto.UserDTO, 0, len(users))
	for _, user := range users {
		out = append(out, toUserDTO(user))
	}
	return out, nil
}

func (f *UserFlowImpl) Get(ctx context.Context, actor Actor, userID uint) (*dto.UserDTO, error) {
	if err := requireAdmin(actor, "USER_GET_FAILED"); err != nil {
		return nil, err
	}

	user, err := f.getUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_GET_FAILED", "User lookup failed", err)
	}
	out := toUserDTO(user)
	return &out, nil
}

// Create provisions a login account. Worker-role accounts must link to an
// existing worker so their records can be scoped.
func (f *UserFlowImpl) Create(ctx context.Context, actor Actor, req *dto.CreateUserRequest) (*dto.UserDTO, error) {
	if err := requireAdmin(actor, "USER_CREATE_FAILED"); err != nil {
		return nil, err
	}

	existing, err := f.userRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("USER_CREATE_FAILED", "User lookup failed", err)
	}
	if existing != nil {
		return nil, NewBusinessError("USER_CREATE_FAILED", "Username already exists", ErrUsernameAlreadyExists)
	}

	if req.WorkerID != nil {
		if _, err := getWorker(ctx, f.workerRepo, *req.WorkerID); err != nil {
			return nil, NewBusinessError("USER_CREATE_FAILED", "Worker lookup failed", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewBusinessError("USER_CREATE_FAILED", "Failed to hash password", err)
	}

	active := true
	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		WorkerID:     req.WorkerID,
		IsActive:     &active,
	}
	if err := f.userRepo.Save(ctx, user); err != nil {
		return nil, NewBusinessError("USER_CREATE_FAILED", "Failed to save user", err)
	}

	out := toUserDTO(user)
	return &out, nil
}

func (f *UserFlowImpl) Update(ctx context.Context, actor Actor, userID uint, req *dto.UpdateUserRequest) (*dto.UserDTO, error) {
	if err := requireAdmin(actor, "USER_UPDATE_FAILED"); err != nil {
		return nil, err
	}

	user, err := f.getUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_UPDATE_FAILED", "User lookup failed", err)
	}

	values := map[string]any{}
	if req.Username != nil && *req.Username != user.Username {
		existing, err := f.userRepo.ByUsername(ctx, *req.Username)
		if err != nil {
			return nil, NewBusinessError("USER_UPDATE_FAILED", "User lookup failed", err)
		}
		if existing != nil {
			return nil, NewBusinessError("USER_UPDATE_FAILED", "Username already exists", ErrUsernameAlreadyExists)
		}
		user.Username = *req.Username
		values["username"] = *req.Username
	}
	if req.Role != nil {
		user.Role = *req.Role
		values["role"] = *req.Role
	}
	if req.WorkerID.Set {
		if req.WorkerID.Value != nil {
			if _, err := getWorker(ctx, f.workerRepo, *req.WorkerID.Value); err != nil {
				return nil, NewBusinessError("USER_UPDATE_FAILED", "Worker lookup failed", err)
			}
		}
		user.WorkerID = req.WorkerID.Value
		values["worker_id"] = optColumn(req.WorkerID.Value)
	}
	if req.IsActive != nil {
		user.IsActive = req.IsActive
		values["is_active"] = *req.IsActive
	}

	if len(values) > 0 {
		if err := f.userRepo.Updates(ctx, user, values); err != nil {
			return nil, NewBusinessError("USER_UPDATE_FAILED", "Failed to update user", err)
		}
	}

	out := toUserDTO(user)
	return &out, nil
}

func (f *UserFlowImpl) ResetPassword(ctx context.Context, actor Actor, userID uint, req *dto.ResetPasswordRequest) error {
	if err := requireAdmin(actor, "USER_RESET_PASSWORD_FAILED"); err != nil {
		return err
	}

	user, err := f.getUser(ctx, userID)
	if err != nil {
		return NewBusinessError("USER_RESET_PASSWORD_FAILED", "User lookup failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return NewBusinessError("USER_RESET_PASSWORD_FAILED", "Failed to hash password", err)
	}

	if err := f.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return NewBusinessError("USER_RESET_PASSWORD_FAILED", "Failed to update password", err)
	}
	return nil
}

func (f *UserFlowImpl) Delete(ctx context.Context, actor Actor, userID uint) error {
	if err := requireAdmin(actor, "USER_DELETE_FAILED"); err != nil {
		return err
	}
	if actor.UserID == userID {
		return NewBusinessError("USER_DELETE_FAILED", "Cannot delete own account", ErrPermissionDenied)
	}

	user, err := f.getUser(ctx, userID)
	if err != nil {
		return NewBusinessError("USER_DELETE_FAILED", "User lookup failed", err)
	}

	if err := f.userRepo.Delete(ctx, user); err != nil {
		return NewBusinessError("USER_DELETE_FAILED", "Failed to delete user", err)
	}
	return nil
}

func (f *UserFlowImpl) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := f.userRepo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

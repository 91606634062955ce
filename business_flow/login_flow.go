package businessflow

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/app/services"
	"github.com/horasobra/backend/repository"
	"github.com/horasobra/backend/utils"
)

// LoginFlow authenticates user accounts and issues bearer tokens
type LoginFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, actor Actor) (*dto.UserDTO, error)
}

// LoginFlowImpl implements LoginFlow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	tokenService services.TokenService
}

// NewLoginFlow constructs a LoginFlow
func NewLoginFlow(userRepo repository.UserRepository, tokenService services.TokenService) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// Login verifies the credentials against the stored bcrypt hash. An unknown
// username and a wrong password return the same error, so login responses
// never reveal which accounts exist.
func (f *LoginFlowImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := f.userRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "User lookup failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Incorrect username or password", ErrIncorrectPassword)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Incorrect username or password", ErrIncorrectPassword)
	}

	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("LOGIN_FAILED", "Account is disabled", ErrUserInactive)
	}

	token, expiresIn, err := f.tokenService.GenerateToken(user)
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Failed to issue token", err)
	}

	now := utils.UTCNow()
	if err := f.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Failed to record login", err)
	}
	user.LastLoginAt = &now

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
		User:        toUserDTO(user),
	}, nil
}

// Me returns the account behind the presented token.
func (f *LoginFlowImpl) Me(ctx context.Context, actor Actor) (*dto.UserDTO, error) {
	user, err := f.userRepo.ByID(ctx, actor.UserID)
	if err != nil {
		return nil, NewBusinessError("ME_FAILED", "User lookup failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("ME_FAILED", "User not found", ErrUserNotFound)
	}
	out := toUserDTO(user)
	return &out, nil
}

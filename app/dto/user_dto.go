package dto

import "time"

// LoginRequest authenticates a user account.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token and the account it belongs to.
type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int     `json:"expires_in"`
	User        UserDTO `json:"user"`
}

// UserDTO is the API view of a login account (never the password hash).
type UserDTO struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	WorkerID    *string    `json:"worker_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// CreateUserRequest creates a login account (admin only).
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,max=50"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,oneof=worker secretary admin"`
	WorkerID *string `json:"worker_id,omitempty" validate:"omitempty,max=64"`
}

// UpdateUserRequest partially updates a login account.
type UpdateUserRequest struct {
	Username *string          `json:"username,omitempty" validate:"omitempty,max=50"`
	Role     *string          `json:"role,omitempty" validate:"omitempty,oneof=worker secretary admin"`
	WorkerID Optional[string] `json:"worker_id,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// ResetPasswordRequest replaces a user's password (admin only).
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

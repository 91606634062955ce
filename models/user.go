package models

import "time"

// Application roles. A worker account is linked to a Worker row through
// WorkerID; secretary and admin accounts usually are not.
const (
	RoleWorker    = "worker"
	RoleSecretary = "secretary"
	RoleAdmin     = "admin"
)

// User is a login account for the API.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:50;not null;uniqueIndex:uk_users_username" json:"username"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	WorkerID     *string    `gorm:"size:64;index:idx_users_worker_id" json:"worker_id,omitempty"`
	Role         string     `gorm:"size:20;not null;default:worker" json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	IsActive     *bool      `gorm:"not null;default:true" json:"is_active"`
}

func (User) TableName() string {
	return "users"
}

// ElevatedRole reports whether a role may act on records belonging to other
// workers. Secretaries and admins may; workers only act for themselves.
func ElevatedRole(role string) bool {
	return role == RoleSecretary || role == RoleAdmin
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Username *string `json:"username,omitempty"`
	WorkerID *string `json:"worker_id,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an application user
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string     `gorm:"column:encrypted_password;not null" json:"-"`
	FullName          string     `json:"full_name"`
	Phone             string     `json:"phone"`
	Role              string     `gorm:"default:viewer" json:"role"`
	Status            string     `gorm:"default:active" json:"status"`
	CreatedBy         *uint      `json:"created_by"`
	DiscardedAt       *time.Time `gorm:"index" json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleViewer     = "viewer"
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleViewer
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsAccountant returns true if user may record and post entries
func (u *User) IsAccountant() bool {
	return u.Role == RoleAccountant
}

// IsActive returns true if user status is active
func (u *User) IsActive() bool {
	return u.Status == StatusActive && u.DiscardedAt == nil
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

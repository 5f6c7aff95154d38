package users

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleMember UserRole = "MEMBER"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleMember:
		return true
	default:
		return false
	}
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusDisabled:
		return true
	default:
		return false
	}
}

type User struct {
	ID             uuid.UUID  `json:"id"        gorm:"column:id;primaryKey"`
	Email          string     `json:"email"     gorm:"column:email"`
	HashedPassword *string    `json:"-"         gorm:"column:hashed_password"`
	Role           UserRole   `json:"role"      gorm:"column:role"`
	Status         UserStatus `json:"status"    gorm:"column:status"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActiveUser() bool {
	return u.Status == UserStatusActive
}

func (u *User) CanManageUsers() bool {
	return u.Role == UserRoleAdmin
}

func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}

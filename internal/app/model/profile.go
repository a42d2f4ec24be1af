package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleSeller    UserRole = "seller"
	RolePublisher UserRole = "publisher"
	RoleAdmin     UserRole = "admin"
)

// Profile holds display data for an account. It is created best-effort during
// sign-up: the account stays usable even when the profile row is missing.
type Profile struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	FullName  string         `json:"full_name"`
	Role      UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

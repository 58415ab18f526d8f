package model

import (
	"time"

	"github.com/google/uuid"
)

// Роль пользователя в системе.
type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPERADMIN"
)

// users
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email        string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string   `gorm:"type:varchar(255);not null"`
	Role         UserRole `gorm:"type:varchar(32);not null;default:'USER';index"`

	FullName string `gorm:"type:varchar(255)"`
	Phone    string `gorm:"type:varchar(32)"`

	// Помечает синтетические аккаунты, созданные для walk-in записей.
	IsWalkIn bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// DisplayName — имя для уведомлений: полное имя, иначе email.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// IsAdmin — админы и суперадмины получают служебные уведомления.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

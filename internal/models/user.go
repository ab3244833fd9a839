package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleManager    UserRole = "MANAGER"
	RoleTeacher    UserRole = "TEACHER"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleManager, RoleTeacher:
		return true
	}
	return false
}

// IsAdminRole reports whether the role may enter the admin area.
func (r UserRole) IsAdminRole() bool {
	return r == RoleAdmin || r == RoleSuperAdmin || r == RoleManager
}

// IsTeacherRole reports whether the role may enter the teacher area.
func (r UserRole) IsTeacherRole() bool {
	return r == RoleTeacher || r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`
	IsActive     bool     `json:"is_active" gorm:"default:true"`

	// Hourly pay rate, used for teacher salary computation.
	HourlyRate float64 `json:"hourly_rate" gorm:"type:numeric(12,2);default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

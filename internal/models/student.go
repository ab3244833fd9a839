package models

import (
	"time"

	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentActive   StudentStatus = "active"
	StudentInactive StudentStatus = "inactive"
)

type Student struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Name          string `json:"name" gorm:"not null;size:100"`
	Phone         string `json:"phone" gorm:"not null;size:20;index"`
	GuardianPhone string `json:"guardian_phone" gorm:"size:20"`
	Email         string `json:"email" gorm:"size:255"`

	// Balance is maintained incrementally by the payment ledger: it equals the
	// sum of this student's "paid" payments plus manual adjustments. Negative
	// means the student owes money.
	Balance float64 `json:"balance" gorm:"type:numeric(12,2);default:0"`

	Status StudentStatus `json:"status" gorm:"default:active;size:20;index"`

	// LeadID links back to the originating inquiry; unique so a lead can be
	// converted at most once.
	LeadID *uint `json:"lead_id" gorm:"uniqueIndex"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:StudentID"`
	Groups   []Group   `json:"groups,omitempty" gorm:"many2many:group_students"`
}

func (Student) TableName() string {
	return "students"
}

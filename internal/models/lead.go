package models

import (
	"time"

	"gorm.io/gorm"
)

type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusProcessing LeadStatus = "processing"
	LeadStatusEnrolled   LeadStatus = "enrolled"
	LeadStatusWon        LeadStatus = "won"
	LeadStatusLost       LeadStatus = "lost"
)

// ValidLeadStatus reports whether s is one of the allowed statuses. Any status
// may move to any other; only enum membership is checked.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusNew, LeadStatusProcessing, LeadStatusEnrolled, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

type Lead struct {
	ID      uint       `json:"id" gorm:"primaryKey"`
	Name    string     `json:"name" gorm:"not null;size:100"`
	Phone   string     `json:"phone" gorm:"not null;size:20;index"`
	Course  string     `json:"course" gorm:"not null;size:100"`
	Message string     `json:"message" gorm:"type:text"`
	Status  LeadStatus `json:"status" gorm:"default:new;size:20;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Notes   []LeadNote `json:"notes,omitempty" gorm:"foreignKey:LeadID"`
	Student *Student   `json:"student,omitempty" gorm:"foreignKey:LeadID"`
}

type LeadNote struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	LeadID  uint   `json:"lead_id" gorm:"not null;index"`
	Content string `json:"content" gorm:"type:text;not null"`
	UserID  *uint  `json:"user_id"`

	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Lead) TableName() string {
	return "leads"
}

func (LeadNote) TableName() string {
	return "lead_notes"
}

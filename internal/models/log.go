package models

import (
	"time"

	"gorm.io/datatypes"
)

// Log is an append-only audit trail entry. Rows are written as a side effect
// of mutating operations and are never updated or deleted.
type Log struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Action  string `json:"action" gorm:"not null;size:50;index"`
	Details string `json:"details" gorm:"type:text"`

	// Meta carries a structured snapshot of the affected entity.
	Meta datatypes.JSON `json:"meta,omitempty"`

	UserID    *uint     `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Log) TableName() string {
	return "logs"
}

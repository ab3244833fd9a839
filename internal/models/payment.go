package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

type Payment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;index"`

	Amount float64       `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method PaymentMethod `json:"method" gorm:"size:20;not null"`
	Status PaymentStatus `json:"status" gorm:"size:20;not null;index"`
	Type   string        `json:"type" gorm:"size:50"`

	// Period is the billing period label, e.g. "2026-08".
	Period  string    `json:"period" gorm:"size:20;index"`
	PaidAt  time.Time `json:"paid_at"`
	Comment string    `json:"comment" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Payment) TableName() string {
	return "payments"
}

type Expense struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Amount      float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Category    string    `json:"category" gorm:"size:50;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	SpentAt     time.Time `json:"spent_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Expense) TableName() string {
	return "expenses"
}

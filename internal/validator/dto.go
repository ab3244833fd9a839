package validator

import (
	"time"

	"github.com/linguahub/crm-service/internal/models"
)

// ===== AUTH =====

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== USERS =====

type UserCreateRequest struct {
	Name       string          `json:"name" validate:"required,min=2,max=100"`
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required,min=8"`
	Role       models.UserRole `json:"role" validate:"required,oneof=ADMIN SUPER_ADMIN MANAGER TEACHER"`
	HourlyRate float64         `json:"hourly_rate" validate:"gte=0"`
}

type UserUpdateRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Email      *string          `json:"email" validate:"omitempty,email"`
	Password   *string          `json:"password" validate:"omitempty,min=8"`
	Role       *models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN SUPER_ADMIN MANAGER TEACHER"`
	IsActive   *bool            `json:"is_active"`
	HourlyRate *float64         `json:"hourly_rate" validate:"omitempty,gte=0"`
}

// ===== LEADS =====

type LeadCreateRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Phone   string `json:"phone" validate:"required,phone"`
	Course  string `json:"course" validate:"required,max=100"`
	Message string `json:"message" validate:"omitempty,max=2000"`
}

type LeadStatusRequest struct {
	Status models.LeadStatus `json:"status" validate:"required,oneof=new processing enrolled won lost"`
}

type LeadNoteRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// ===== STUDENTS =====

type StudentCreateRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Phone         string `json:"phone" validate:"required,phone"`
	GuardianPhone string `json:"guardian_phone" validate:"omitempty,phone"`
	Email         string `json:"email" validate:"omitempty,email"`
}

type StudentUpdateRequest struct {
	Name          *string               `json:"name" validate:"omitempty,min=2,max=100"`
	Phone         *string               `json:"phone" validate:"omitempty,phone"`
	GuardianPhone *string               `json:"guardian_phone" validate:"omitempty,phone"`
	Email         *string               `json:"email" validate:"omitempty,email"`
	Status        *models.StudentStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

type BalanceAdjustRequest struct {
	Amount float64 `json:"amount" validate:"required"`
	Reason string  `json:"reason" validate:"required,max=500"`
}

// ===== PAYMENTS =====

type PaymentCreateRequest struct {
	StudentID uint                 `json:"student_id" validate:"required"`
	Amount    float64              `json:"amount" validate:"required,gt=0"`
	Method    models.PaymentMethod `json:"method" validate:"required,oneof=cash card transfer"`
	Status    models.PaymentStatus `json:"status" validate:"required,oneof=pending paid"`
	Type      string               `json:"type" validate:"omitempty,max=50"`
	Period    string               `json:"period" validate:"omitempty,max=20"`
	PaidAt    *time.Time           `json:"paid_at"`
	Comment   string               `json:"comment" validate:"omitempty,max=2000"`
}

// PaymentUpdateRequest deliberately has no student field: payments cannot be
// reassigned to another student, only deleted and recreated.
type PaymentUpdateRequest struct {
	Amount  *float64              `json:"amount" validate:"omitempty,gt=0"`
	Method  *models.PaymentMethod `json:"method" validate:"omitempty,oneof=cash card transfer"`
	Status  *models.PaymentStatus `json:"status" validate:"omitempty,oneof=pending paid"`
	Type    *string               `json:"type" validate:"omitempty,max=50"`
	Period  *string               `json:"period" validate:"omitempty,max=20"`
	PaidAt  *time.Time            `json:"paid_at"`
	Comment *string               `json:"comment" validate:"omitempty,max=2000"`
}

// ===== EXPENSES =====

type ExpenseRequest struct {
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	Category    string     `json:"category" validate:"required,max=50"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	SpentAt     *time.Time `json:"spent_at"`
}

// ===== SCHEDULE =====

type CourseRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	MonthlyFee  float64 `json:"monthly_fee" validate:"gte=0"`
}

type ClassroomRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

type GroupRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	CourseID    uint   `json:"course_id" validate:"required"`
	TeacherID   uint   `json:"teacher_id" validate:"required"`
	ClassroomID *uint  `json:"classroom_id"`
	Schedule    string `json:"schedule" validate:"omitempty,max=100"`
	StudentIDs  []uint `json:"student_ids"`
}

type LessonRequest struct {
	GroupID         uint      `json:"group_id" validate:"required"`
	Date            time.Time `json:"date" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
	Topic           string    `json:"topic" validate:"omitempty,max=200"`
}

// ===== ATTENDANCE =====

type AttendanceRecordRequest struct {
	StudentID uint                    `json:"student_id" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	Grade     *float64                `json:"grade" validate:"omitempty,gte=0,lte=9"`
	Comment   string                  `json:"comment" validate:"omitempty,max=500"`
}

// AttendanceSubmitRequest targets a lesson either directly by id or by
// group+date (the lesson is created on the fly for that date if absent).
type AttendanceSubmitRequest struct {
	LessonID *uint                     `json:"lesson_id"`
	GroupID  *uint                     `json:"group_id"`
	Date     *time.Time                `json:"date"`
	Records  []AttendanceRecordRequest `json:"records" validate:"required,min=1,dive"`
}

// BandScoreRequest carries the four IELTS module bands of a mock exam.
type BandScoreRequest struct {
	Listening float64 `json:"listening" validate:"gte=0,lte=9"`
	Reading   float64 `json:"reading" validate:"gte=0,lte=9"`
	Writing   float64 `json:"writing" validate:"gte=0,lte=9"`
	Speaking  float64 `json:"speaking" validate:"gte=0,lte=9"`
}

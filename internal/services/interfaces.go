package services

import (
	"context"
	"time"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/validator"
)

// ===== REQUEST DTOs (validated in internal/validator) =====

type LoginRequest = validator.LoginRequest
type UserCreateRequest = validator.UserCreateRequest
type UserUpdateRequest = validator.UserUpdateRequest
type LeadCreateRequest = validator.LeadCreateRequest
type LeadStatusRequest = validator.LeadStatusRequest
type LeadNoteRequest = validator.LeadNoteRequest
type StudentCreateRequest = validator.StudentCreateRequest
type StudentUpdateRequest = validator.StudentUpdateRequest
type BalanceAdjustRequest = validator.BalanceAdjustRequest
type PaymentCreateRequest = validator.PaymentCreateRequest
type PaymentUpdateRequest = validator.PaymentUpdateRequest
type ExpenseRequest = validator.ExpenseRequest
type CourseRequest = validator.CourseRequest
type ClassroomRequest = validator.ClassroomRequest
type GroupRequest = validator.GroupRequest
type LessonRequest = validator.LessonRequest
type AttendanceSubmitRequest = validator.AttendanceSubmitRequest
type BandScoreRequest = validator.BandScoreRequest

// ===== RESPONSE DTOs =====

type LoginResult struct {
	Token     string       `json:"-"`
	ExpiresAt time.Time    `json:"-"`
	User      *models.User `json:"user"`
}

type SalaryResponse struct {
	TeacherID  uint    `json:"teacher_id"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
	Hours      float64 `json:"hours"`
	Amount     float64 `json:"amount"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	VerifyToken(token string) (*Claims, error)
}

type UserService interface {
	Create(ctx context.Context, req *UserCreateRequest) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, id uint, req *UserUpdateRequest) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type LeadService interface {
	Create(ctx context.Context, req *LeadCreateRequest) (*models.Lead, error)
	GetByID(ctx context.Context, id uint) (*models.Lead, error)
	List(ctx context.Context, filters repositories.LeadFilters) ([]*models.Lead, int64, error)
	ChangeStatus(ctx context.Context, id uint, req *LeadStatusRequest, actorID uint) (*models.Lead, error)
	Convert(ctx context.Context, id uint, actorID uint) (*models.Student, error)
	AddNote(ctx context.Context, id uint, req *LeadNoteRequest, actorID uint) (*models.LeadNote, error)
	GetNotes(ctx context.Context, id uint) ([]*models.LeadNote, error)
	Delete(ctx context.Context, id uint, actorID uint) error
}

type StudentService interface {
	Create(ctx context.Context, req *StudentCreateRequest, actorID uint) (*models.Student, error)
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error)
	Update(ctx context.Context, id uint, req *StudentUpdateRequest) (*models.Student, error)
	Delete(ctx context.Context, id uint, actorID uint) error
	AdjustBalance(ctx context.Context, id uint, req *BalanceAdjustRequest, actorID uint) (*models.Student, error)
}

type PaymentService interface {
	Create(ctx context.Context, req *PaymentCreateRequest, actorID uint) (*models.Payment, error)
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	List(ctx context.Context, filters repositories.PaymentFilters) ([]*models.Payment, int64, error)
	Update(ctx context.Context, id uint, req *PaymentUpdateRequest, actorID uint) (*models.Payment, error)
	Delete(ctx context.Context, id uint, actorID uint) error
}

type ExpenseService interface {
	Create(ctx context.Context, req *ExpenseRequest, actorID uint) (*models.Expense, error)
	GetByID(ctx context.Context, id uint) (*models.Expense, error)
	List(ctx context.Context, filters repositories.ExpenseFilters) ([]*models.Expense, int64, error)
	Update(ctx context.Context, id uint, req *ExpenseRequest) (*models.Expense, error)
	Delete(ctx context.Context, id uint) error
}

type FinanceService interface {
	Debtors(ctx context.Context) ([]*models.Student, error)
	Summary(ctx context.Context, from, to time.Time) (*repositories.FinanceSummary, error)
	TeacherSalary(ctx context.Context, teacherID uint, from, to time.Time) (*SalaryResponse, error)
	// InvalidateCaches drops finance aggregates after balance-affecting writes.
	InvalidateCaches(ctx context.Context)
}

type ScheduleService interface {
	CreateCourse(ctx context.Context, req *CourseRequest) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id uint, req *CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uint) error

	CreateClassroom(ctx context.Context, req *ClassroomRequest) (*models.Classroom, error)
	ListClassrooms(ctx context.Context) ([]*models.Classroom, error)
	UpdateClassroom(ctx context.Context, id uint, req *ClassroomRequest) (*models.Classroom, error)
	DeleteClassroom(ctx context.Context, id uint) error

	CreateGroup(ctx context.Context, req *GroupRequest) (*models.Group, error)
	GetGroup(ctx context.Context, id uint) (*models.Group, error)
	ListGroups(ctx context.Context, filters repositories.GroupFilters) ([]*models.Group, int64, error)
	UpdateGroup(ctx context.Context, id uint, req *GroupRequest) (*models.Group, error)
	DeleteGroup(ctx context.Context, id uint) error

	CreateLesson(ctx context.Context, req *LessonRequest) (*models.Lesson, error)
	ListLessons(ctx context.Context, filters repositories.LessonFilters) ([]*models.Lesson, int64, error)
	DeleteLesson(ctx context.Context, id uint) error
}

type TeacherAreaService interface {
	MyGroups(ctx context.Context, teacherID uint) ([]*models.Group, error)
	GroupStudents(ctx context.Context, groupID, teacherID uint) ([]*models.Student, error)
	SubmitAttendance(ctx context.Context, req *AttendanceSubmitRequest, teacherID uint) error
	LessonAttendance(ctx context.Context, lessonID, teacherID uint) ([]*models.Attendance, error)
	ScoreBand(req *BandScoreRequest) (float64, error)
}

type LogService interface {
	List(ctx context.Context, filters repositories.LogFilters) ([]*models.Log, int64, error)
}

// ServiceManager aggregates every service behind one injection point.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Lead() LeadService
	Student() StudentService
	Payment() PaymentService
	Expense() ExpenseService
	Finance() FinanceService
	Schedule() ScheduleService
	TeacherArea() TeacherAreaService
	Log() LogService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

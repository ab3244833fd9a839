package repositories

import (
	"context"
	"time"

	"github.com/linguahub/crm-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type LeadFilters struct {
	Status   *models.LeadStatus `json:"status"`
	DateFrom *time.Time         `json:"date_from"`
	DateTo   *time.Time         `json:"date_to"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

type StudentFilters struct {
	Status *models.StudentStatus `json:"status"`
	Query  string                `json:"query"` // matches name or phone
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

type PaymentFilters struct {
	StudentID *uint                 `json:"student_id"`
	Status    *models.PaymentStatus `json:"status"`
	Period    *string               `json:"period"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

type ExpenseFilters struct {
	Category *string    `json:"category"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

type GroupFilters struct {
	TeacherID *uint `json:"teacher_id"`
	CourseID  *uint `json:"course_id"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
}

type LessonFilters struct {
	GroupID  *uint      `json:"group_id"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

type LogFilters struct {
	Action *string `json:"action"`
	UserID *uint   `json:"user_id"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// ===== AGGREGATE STRUCTS =====

type FinanceSummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uint) (*models.Lead, error)
	List(ctx context.Context, filters LeadFilters) ([]*models.Lead, int64, error)
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, id uint) error
	AddNote(ctx context.Context, note *models.LeadNote) error
	GetNotes(ctx context.Context, leadID uint) ([]*models.LeadNote, error)
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	// GetByIDForUpdate locks the student row for the duration of the
	// surrounding transaction, serializing balance adjustments per student.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Student, error)
	GetByLeadID(ctx context.Context, leadID uint) (*models.Student, error)
	List(ctx context.Context, filters StudentFilters) ([]*models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
	AdjustBalance(ctx context.Context, id uint, delta float64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	List(ctx context.Context, filters PaymentFilters) ([]*models.Payment, int64, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	SumPaidByStudent(ctx context.Context, studentID uint) (float64, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id uint) (*models.Expense, error)
	List(ctx context.Context, filters ExpenseFilters) ([]*models.Expense, int64, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uint) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
}

type ClassroomRepository interface {
	Create(ctx context.Context, room *models.Classroom) error
	GetByID(ctx context.Context, id uint) (*models.Classroom, error)
	List(ctx context.Context) ([]*models.Classroom, error)
	Update(ctx context.Context, room *models.Classroom) error
	Delete(ctx context.Context, id uint) error
}

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	List(ctx context.Context, filters GroupFilters) ([]*models.Group, int64, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uint) error
	ReplaceStudents(ctx context.Context, groupID uint, studentIDs []uint) error
	GetStudents(ctx context.Context, groupID uint) ([]*models.Student, error)
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id uint) (*models.Lesson, error)
	GetByGroupAndDate(ctx context.Context, groupID uint, date time.Time) (*models.Lesson, error)
	List(ctx context.Context, filters LessonFilters) ([]*models.Lesson, int64, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uint) error
	// ReplaceAttendance removes every attendance row of the lesson and writes
	// the given set in its place.
	ReplaceAttendance(ctx context.Context, lessonID uint, records []*models.Attendance) error
	GetAttendance(ctx context.Context, lessonID uint) ([]*models.Attendance, error)
}

type LogRepository interface {
	Create(ctx context.Context, entry *models.Log) error
	List(ctx context.Context, filters LogFilters) ([]*models.Log, int64, error)
}

type FinanceRepository interface {
	// Debtors returns students with balance < 0, most indebted first.
	Debtors(ctx context.Context) ([]*models.Student, error)
	Summary(ctx context.Context, from, to time.Time) (*FinanceSummary, error)
	// TeacherLessonMinutes sums the duration of completed lessons taught by
	// the teacher's groups within [from, to].
	TeacherLessonMinutes(ctx context.Context, teacherID uint, from, to time.Time) (int64, error)
}

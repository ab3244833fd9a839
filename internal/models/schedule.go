package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:100;uniqueIndex"`
	Description string  `json:"description" gorm:"type:text"`
	MonthlyFee  float64 `json:"monthly_fee" gorm:"type:numeric(12,2);default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Classroom struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:50;uniqueIndex"`
	Capacity int    `json:"capacity" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:100"`
	CourseID    uint   `json:"course_id" gorm:"not null;index"`
	TeacherID   uint   `json:"teacher_id" gorm:"not null;index"`
	ClassroomID *uint  `json:"classroom_id"`

	// Schedule is a human-readable slot label, e.g. "Mon/Wed/Fri 18:00".
	Schedule string `json:"schedule" gorm:"size:100"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course    *Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Teacher   *User      `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Classroom *Classroom `json:"classroom,omitempty" gorm:"foreignKey:ClassroomID"`
	Students  []Student  `json:"students,omitempty" gorm:"many2many:group_students"`
}

type Lesson struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	GroupID uint      `json:"group_id" gorm:"not null;index"`
	Date    time.Time `json:"date" gorm:"not null;index"`

	// DurationMinutes feeds the teacher salary computation.
	DurationMinutes int    `json:"duration_minutes" gorm:"default:60"`
	Completed       bool   `json:"completed" gorm:"default:false"`
	Topic           string `json:"topic" gorm:"size:200"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Group      *Group       `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Attendance []Attendance `json:"attendance,omitempty" gorm:"foreignKey:LessonID"`
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

type Attendance struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	LessonID  uint             `json:"lesson_id" gorm:"not null;index:idx_attendance_lesson_student,unique"`
	StudentID uint             `json:"student_id" gorm:"not null;index:idx_attendance_lesson_student,unique"`
	Status    AttendanceStatus `json:"status" gorm:"size:20;not null"`
	Grade     *float64         `json:"grade" gorm:"type:numeric(4,1)"`
	Comment   string           `json:"comment" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Course) TableName() string    { return "courses" }
func (Classroom) TableName() string { return "classrooms" }
func (Group) TableName() string     { return "groups" }
func (Lesson) TableName() string    { return "lessons" }
func (Attendance) TableName() string { return "attendance" }

package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests. WithTransaction
// snapshots state before running fn and restores it when fn fails, mirroring
// rollback semantics.
type mockRepository struct {
	mu sync.Mutex

	users      map[uint]*models.User
	leads      map[uint]*models.Lead
	notes      map[uint][]*models.LeadNote
	students   map[uint]*models.Student
	payments   map[uint]*models.Payment
	expenses   map[uint]*models.Expense
	courses    map[uint]*models.Course
	classrooms map[uint]*models.Classroom
	groups     map[uint]*models.Group
	roster     map[uint][]uint
	lessons    map[uint]*models.Lesson
	attendance map[uint][]*models.Attendance
	logs       []*models.Log
	nextID     uint

	failLogCreate  bool
	failLeadCreate bool

	// staleConversionCheck makes GetByLeadID report not-found, emulating a
	// lookup that ran before a concurrent convert committed.
	staleConversionCheck bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:      make(map[uint]*models.User),
		leads:      make(map[uint]*models.Lead),
		notes:      make(map[uint][]*models.LeadNote),
		students:   make(map[uint]*models.Student),
		payments:   make(map[uint]*models.Payment),
		expenses:   make(map[uint]*models.Expense),
		courses:    make(map[uint]*models.Course),
		classrooms: make(map[uint]*models.Classroom),
		groups:     make(map[uint]*models.Group),
		roster:     make(map[uint][]uint),
		lessons:    make(map[uint]*models.Lesson),
		attendance: make(map[uint][]*models.Attendance),
	}
}

func (m *mockRepository) id() uint {
	m.nextID++
	return m.nextID
}

// snapshot captures the full state for rollback emulation.
type mockSnapshot struct {
	leads      map[uint]models.Lead
	students   map[uint]models.Student
	payments   map[uint]models.Payment
	lessons    map[uint]models.Lesson
	attendance map[uint][]*models.Attendance
	logCount   int
	nextID     uint
}

func (m *mockRepository) snapshot() mockSnapshot {
	s := mockSnapshot{
		leads:      make(map[uint]models.Lead, len(m.leads)),
		students:   make(map[uint]models.Student, len(m.students)),
		payments:   make(map[uint]models.Payment, len(m.payments)),
		lessons:    make(map[uint]models.Lesson, len(m.lessons)),
		attendance: make(map[uint][]*models.Attendance, len(m.attendance)),
		logCount:   len(m.logs),
		nextID:     m.nextID,
	}
	for id, l := range m.leads {
		s.leads[id] = *l
	}
	for id, st := range m.students {
		s.students[id] = *st
	}
	for id, p := range m.payments {
		s.payments[id] = *p
	}
	for id, l := range m.lessons {
		s.lessons[id] = *l
	}
	for id, recs := range m.attendance {
		s.attendance[id] = append([]*models.Attendance(nil), recs...)
	}
	return s
}

func (m *mockRepository) restore(s mockSnapshot) {
	m.leads = make(map[uint]*models.Lead, len(s.leads))
	for id := range s.leads {
		l := s.leads[id]
		m.leads[id] = &l
	}
	m.students = make(map[uint]*models.Student, len(s.students))
	for id := range s.students {
		st := s.students[id]
		m.students[id] = &st
	}
	m.payments = make(map[uint]*models.Payment, len(s.payments))
	for id := range s.payments {
		p := s.payments[id]
		m.payments[id] = &p
	}
	m.lessons = make(map[uint]*models.Lesson, len(s.lessons))
	for id := range s.lessons {
		l := s.lessons[id]
		m.lessons[id] = &l
	}
	m.attendance = s.attendance
	m.logs = m.logs[:s.logCount]
	m.nextID = s.nextID
}

func (m *mockRepository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *mockRepository) Ping(context.Context) error { return nil }
func (m *mockRepository) Close() error               { return nil }

func (m *mockRepository) User() repositories.UserRepository           { return &mockUserRepo{m} }
func (m *mockRepository) Lead() repositories.LeadRepository           { return &mockLeadRepo{m} }
func (m *mockRepository) Student() repositories.StudentRepository     { return &mockStudentRepo{m} }
func (m *mockRepository) Payment() repositories.PaymentRepository     { return &mockPaymentRepo{m} }
func (m *mockRepository) Expense() repositories.ExpenseRepository     { return &mockExpenseRepo{m} }
func (m *mockRepository) Course() repositories.CourseRepository       { return &mockCourseRepo{m} }
func (m *mockRepository) Classroom() repositories.ClassroomRepository { return &mockClassroomRepo{m} }
func (m *mockRepository) Group() repositories.GroupRepository         { return &mockGroupRepo{m} }
func (m *mockRepository) Lesson() repositories.LessonRepository       { return &mockLessonRepo{m} }
func (m *mockRepository) Log() repositories.LogRepository             { return &mockLogRepo{m} }
func (m *mockRepository) Finance() repositories.FinanceRepository     { return &mockFinanceRepo{m} }

// ===== USERS =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.m.id()
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.m.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) List(_ context.Context, _ repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range r.m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *mockUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.users, id)
	return nil
}

func (r *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ===== LEADS =====

type mockLeadRepo struct{ m *mockRepository }

func (r *mockLeadRepo) Create(_ context.Context, lead *models.Lead) error {
	if r.m.failLeadCreate {
		return errors.New("forced lead create failure")
	}
	lead.ID = r.m.id()
	lead.CreatedAt = time.Now()
	r.m.leads[lead.ID] = lead
	return nil
}

func (r *mockLeadRepo) GetByID(_ context.Context, id uint) (*models.Lead, error) {
	if l, ok := r.m.leads[id]; ok {
		return l, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockLeadRepo) List(_ context.Context, _ repositories.LeadFilters) ([]*models.Lead, int64, error) {
	var out []*models.Lead
	for _, l := range r.m.leads {
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *mockLeadRepo) Update(_ context.Context, lead *models.Lead) error {
	if _, ok := r.m.leads[lead.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.leads[lead.ID] = lead
	return nil
}

func (r *mockLeadRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.leads, id)
	return nil
}

func (r *mockLeadRepo) AddNote(_ context.Context, note *models.LeadNote) error {
	note.ID = r.m.id()
	r.m.notes[note.LeadID] = append(r.m.notes[note.LeadID], note)
	return nil
}

func (r *mockLeadRepo) GetNotes(_ context.Context, leadID uint) ([]*models.LeadNote, error) {
	return r.m.notes[leadID], nil
}

// ===== STUDENTS =====

type mockStudentRepo struct{ m *mockRepository }

func (r *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	if student.LeadID != nil {
		for _, s := range r.m.students {
			if s.LeadID != nil && *s.LeadID == *student.LeadID {
				return repositories.ErrDuplicateKey
			}
		}
	}
	student.ID = r.m.id()
	r.m.students[student.ID] = student
	return nil
}

func (r *mockStudentRepo) GetByID(_ context.Context, id uint) (*models.Student, error) {
	if s, ok := r.m.students[id]; ok {
		return s, nil
	}
	return nil, repositories.ErrNotFound
}

// GetByIDForUpdate hands back a fresh copy the way a row scan would, so
// callers mutating their copy do not touch stored state directly.
func (r *mockStudentRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Student, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row := *s
	return &row, nil
}

func (r *mockStudentRepo) GetByLeadID(_ context.Context, leadID uint) (*models.Student, error) {
	if r.m.staleConversionCheck {
		return nil, repositories.ErrNotFound
	}
	for _, s := range r.m.students {
		if s.LeadID != nil && *s.LeadID == leadID {
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockStudentRepo) List(_ context.Context, _ repositories.StudentFilters) ([]*models.Student, int64, error) {
	var out []*models.Student
	for _, s := range r.m.students {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *mockStudentRepo) Update(_ context.Context, student *models.Student) error {
	if _, ok := r.m.students[student.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.students[student.ID] = student
	return nil
}

func (r *mockStudentRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.students, id)
	return nil
}

func (r *mockStudentRepo) AdjustBalance(_ context.Context, id uint, delta float64) error {
	s, ok := r.m.students[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.Balance += delta
	return nil
}

// ===== PAYMENTS =====

type mockPaymentRepo struct{ m *mockRepository }

func (r *mockPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	payment.ID = r.m.id()
	r.m.payments[payment.ID] = payment
	return nil
}

func (r *mockPaymentRepo) GetByID(_ context.Context, id uint) (*models.Payment, error) {
	if p, ok := r.m.payments[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockPaymentRepo) List(_ context.Context, _ repositories.PaymentFilters) ([]*models.Payment, int64, error) {
	var out []*models.Payment
	for _, p := range r.m.payments {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *mockPaymentRepo) Update(_ context.Context, payment *models.Payment) error {
	if _, ok := r.m.payments[payment.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.payments[payment.ID] = payment
	return nil
}

func (r *mockPaymentRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.payments, id)
	return nil
}

func (r *mockPaymentRepo) SumPaidByStudent(_ context.Context, studentID uint) (float64, error) {
	var sum float64
	for _, p := range r.m.payments {
		if p.StudentID == studentID && p.Status == models.PaymentPaid {
			sum += p.Amount
		}
	}
	return sum, nil
}

// ===== EXPENSES =====

type mockExpenseRepo struct{ m *mockRepository }

func (r *mockExpenseRepo) Create(_ context.Context, expense *models.Expense) error {
	expense.ID = r.m.id()
	r.m.expenses[expense.ID] = expense
	return nil
}

func (r *mockExpenseRepo) GetByID(_ context.Context, id uint) (*models.Expense, error) {
	if e, ok := r.m.expenses[id]; ok {
		return e, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockExpenseRepo) List(_ context.Context, _ repositories.ExpenseFilters) ([]*models.Expense, int64, error) {
	var out []*models.Expense
	for _, e := range r.m.expenses {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *mockExpenseRepo) Update(_ context.Context, expense *models.Expense) error {
	r.m.expenses[expense.ID] = expense
	return nil
}

func (r *mockExpenseRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.expenses, id)
	return nil
}

// ===== COURSES =====

type mockCourseRepo struct{ m *mockRepository }

func (r *mockCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = r.m.id()
	r.m.courses[course.ID] = course
	return nil
}

func (r *mockCourseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	if c, ok := r.m.courses[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockCourseRepo) List(_ context.Context) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range r.m.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r *mockCourseRepo) Update(_ context.Context, course *models.Course) error {
	r.m.courses[course.ID] = course
	return nil
}

func (r *mockCourseRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.courses, id)
	return nil
}

// ===== CLASSROOMS =====

type mockClassroomRepo struct{ m *mockRepository }

func (r *mockClassroomRepo) Create(_ context.Context, room *models.Classroom) error {
	room.ID = r.m.id()
	r.m.classrooms[room.ID] = room
	return nil
}

func (r *mockClassroomRepo) GetByID(_ context.Context, id uint) (*models.Classroom, error) {
	if room, ok := r.m.classrooms[id]; ok {
		return room, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockClassroomRepo) List(_ context.Context) ([]*models.Classroom, error) {
	var out []*models.Classroom
	for _, room := range r.m.classrooms {
		out = append(out, room)
	}
	return out, nil
}

func (r *mockClassroomRepo) Update(_ context.Context, room *models.Classroom) error {
	r.m.classrooms[room.ID] = room
	return nil
}

func (r *mockClassroomRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.classrooms, id)
	return nil
}

// ===== GROUPS =====

type mockGroupRepo struct{ m *mockRepository }

func (r *mockGroupRepo) Create(_ context.Context, group *models.Group) error {
	group.ID = r.m.id()
	r.m.groups[group.ID] = group
	return nil
}

func (r *mockGroupRepo) GetByID(_ context.Context, id uint) (*models.Group, error) {
	if g, ok := r.m.groups[id]; ok {
		return g, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockGroupRepo) List(_ context.Context, filters repositories.GroupFilters) ([]*models.Group, int64, error) {
	var out []*models.Group
	for _, g := range r.m.groups {
		if filters.TeacherID != nil && g.TeacherID != *filters.TeacherID {
			continue
		}
		out = append(out, g)
	}
	return out, int64(len(out)), nil
}

func (r *mockGroupRepo) Update(_ context.Context, group *models.Group) error {
	r.m.groups[group.ID] = group
	return nil
}

func (r *mockGroupRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.groups, id)
	return nil
}

func (r *mockGroupRepo) ReplaceStudents(_ context.Context, groupID uint, studentIDs []uint) error {
	r.m.roster[groupID] = studentIDs
	return nil
}

func (r *mockGroupRepo) GetStudents(_ context.Context, groupID uint) ([]*models.Student, error) {
	var out []*models.Student
	for _, id := range r.m.roster[groupID] {
		if s, ok := r.m.students[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// ===== LESSONS =====

type mockLessonRepo struct{ m *mockRepository }

func (r *mockLessonRepo) Create(_ context.Context, lesson *models.Lesson) error {
	lesson.ID = r.m.id()
	r.m.lessons[lesson.ID] = lesson
	return nil
}

func (r *mockLessonRepo) GetByID(_ context.Context, id uint) (*models.Lesson, error) {
	if l, ok := r.m.lessons[id]; ok {
		return l, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockLessonRepo) GetByGroupAndDate(_ context.Context, groupID uint, date time.Time) (*models.Lesson, error) {
	for _, l := range r.m.lessons {
		if l.GroupID == groupID && l.Date.Equal(date) {
			return l, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockLessonRepo) List(_ context.Context, _ repositories.LessonFilters) ([]*models.Lesson, int64, error) {
	var out []*models.Lesson
	for _, l := range r.m.lessons {
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *mockLessonRepo) Update(_ context.Context, lesson *models.Lesson) error {
	r.m.lessons[lesson.ID] = lesson
	return nil
}

func (r *mockLessonRepo) Delete(_ context.Context, id uint) error {
	delete(r.m.lessons, id)
	return nil
}

func (r *mockLessonRepo) ReplaceAttendance(_ context.Context, lessonID uint, records []*models.Attendance) error {
	r.m.attendance[lessonID] = records
	return nil
}

func (r *mockLessonRepo) GetAttendance(_ context.Context, lessonID uint) ([]*models.Attendance, error) {
	return r.m.attendance[lessonID], nil
}

// ===== LOGS =====

type mockLogRepo struct{ m *mockRepository }

func (r *mockLogRepo) Create(_ context.Context, entry *models.Log) error {
	if r.m.failLogCreate {
		return errors.New("forced log write failure")
	}
	entry.ID = r.m.id()
	r.m.logs = append(r.m.logs, entry)
	return nil
}

func (r *mockLogRepo) List(_ context.Context, filters repositories.LogFilters) ([]*models.Log, int64, error) {
	out := make([]*models.Log, 0, len(r.m.logs))
	for _, entry := range r.m.logs {
		if filters.Action != nil && entry.Action != *filters.Action {
			continue
		}
		out = append(out, entry)
	}
	return out, int64(len(out)), nil
}

// ===== FINANCE =====

type mockFinanceRepo struct{ m *mockRepository }

func (r *mockFinanceRepo) Debtors(_ context.Context) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range r.m.students {
		if s.Balance < 0 {
			out = append(out, s)
		}
	}
	// Most indebted first, matching the balance asc ordering of the real query.
	sort.Slice(out, func(i, j int) bool { return out[i].Balance < out[j].Balance })
	return out, nil
}

func (r *mockFinanceRepo) Summary(_ context.Context, from, to time.Time) (*repositories.FinanceSummary, error) {
	var income, expenses float64
	for _, p := range r.m.payments {
		if p.Status == models.PaymentPaid && !p.PaidAt.Before(from) && !p.PaidAt.After(to) {
			income += p.Amount
		}
	}
	for _, e := range r.m.expenses {
		if !e.SpentAt.Before(from) && !e.SpentAt.After(to) {
			expenses += e.Amount
		}
	}
	return &repositories.FinanceSummary{Income: income, Expenses: expenses, Net: income - expenses}, nil
}

func (r *mockFinanceRepo) TeacherLessonMinutes(_ context.Context, teacherID uint, from, to time.Time) (int64, error) {
	var minutes int64
	for _, l := range r.m.lessons {
		if !l.Completed || l.Date.Before(from) || l.Date.After(to) {
			continue
		}
		g, ok := r.m.groups[l.GroupID]
		if !ok || g.TeacherID != teacherID {
			continue
		}
		minutes += int64(l.DurationMinutes)
	}
	return minutes, nil
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/linguahub/crm-service/internal/models"
)

func TestFinanceService_TeacherSalary(t *testing.T) {
	repo := newMockRepository()
	service := NewFinanceService(repo, nil, testLogger())
	ctx := context.Background()

	teacher := &models.User{Name: "Saltanat", Email: "saltanat@school.kz", Role: models.RoleTeacher, IsActive: true, HourlyRate: 4000}
	if err := repo.User().Create(ctx, teacher); err != nil {
		t.Fatalf("failed to seed teacher: %v", err)
	}
	group := &models.Group{Name: "IELTS-A1", CourseID: 1, TeacherID: teacher.ID}
	if err := repo.Group().Create(ctx, group); err != nil {
		t.Fatalf("failed to seed group: %v", err)
	}

	august := func(day int) time.Time { return time.Date(2026, 8, day, 10, 0, 0, 0, time.UTC) }

	lessons := []*models.Lesson{
		{GroupID: group.ID, Date: august(3), DurationMinutes: 90, Completed: true},
		{GroupID: group.ID, Date: august(5), DurationMinutes: 90, Completed: true},
		{GroupID: group.ID, Date: august(7), DurationMinutes: 60, Completed: false}, // not completed, excluded
	}
	for _, l := range lessons {
		if err := repo.Lesson().Create(ctx, l); err != nil {
			t.Fatalf("failed to seed lesson: %v", err)
		}
	}

	salary, err := service.TeacherSalary(ctx, teacher.ID, august(1), august(31))
	if err != nil {
		t.Fatalf("failed to compute salary: %v", err)
	}

	// 180 completed minutes = 3 h at 4000/h.
	if salary.Hours != 3 {
		t.Errorf("expected 3 hours, got %.2f", salary.Hours)
	}
	if salary.Amount != 12000 {
		t.Errorf("expected amount 12000, got %.2f", salary.Amount)
	}

	t.Run("non-teacher", func(t *testing.T) {
		admin := &models.User{Name: "Admin", Email: "admin@school.kz", Role: models.RoleAdmin, IsActive: true}
		if err := repo.User().Create(ctx, admin); err != nil {
			t.Fatalf("failed to seed admin: %v", err)
		}
		if _, err := service.TeacherSalary(ctx, admin.ID, august(1), august(31)); err == nil {
			t.Error("expected error for non-teacher user")
		}
	})
}

func TestFinanceService_SummaryWithoutCache(t *testing.T) {
	repo := newMockRepository()
	service := NewFinanceService(repo, nil, testLogger())
	ctx := context.Background()

	student := &models.Student{Name: "Dana", Phone: "+77010000001", Status: models.StudentActive}
	if err := repo.Student().Create(ctx, student); err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}

	paidAt := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	payments := []*models.Payment{
		{StudentID: student.ID, Amount: 25000, Status: models.PaymentPaid, PaidAt: paidAt},
		{StudentID: student.ID, Amount: 10000, Status: models.PaymentPending, PaidAt: paidAt},
	}
	for _, p := range payments {
		if err := repo.Payment().Create(ctx, p); err != nil {
			t.Fatalf("failed to seed payment: %v", err)
		}
	}
	if err := repo.Expense().Create(ctx, &models.Expense{Amount: 7000, Category: "rent", SpentAt: paidAt}); err != nil {
		t.Fatalf("failed to seed expense: %v", err)
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	summary, err := service.Summary(ctx, from, to)
	if err != nil {
		t.Fatalf("failed to build summary: %v", err)
	}

	// Only the paid payment counts as income.
	if summary.Income != 25000 || summary.Expenses != 7000 || summary.Net != 18000 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

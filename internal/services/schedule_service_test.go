package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/validator"
)

func newScheduleFixture(t *testing.T) (*mockRepository, ScheduleService) {
	t.Helper()
	repo := newMockRepository()
	service := NewScheduleService(repo, testLogger(), validator.New())
	return repo, service
}

func seedScheduleRefs(t *testing.T, repo *mockRepository) (*models.Course, *models.User) {
	t.Helper()
	ctx := context.Background()

	course := &models.Course{Name: "IELTS", MonthlyFee: 45000}
	if err := repo.Course().Create(ctx, course); err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}
	teacher := &models.User{Name: "Saltanat", Email: "saltanat@school.kz", Role: models.RoleTeacher, IsActive: true}
	if err := repo.User().Create(ctx, teacher); err != nil {
		t.Fatalf("failed to seed teacher: %v", err)
	}
	return course, teacher
}

func TestScheduleService_CreateGroup(t *testing.T) {
	repo, service := newScheduleFixture(t)
	course, teacher := seedScheduleRefs(t, repo)
	ctx := context.Background()

	group, err := service.CreateGroup(ctx, &GroupRequest{
		Name:      "IELTS-A1",
		CourseID:  course.ID,
		TeacherID: teacher.ID,
		Schedule:  "Mon/Wed/Fri 18:00",
	})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	if group.TeacherID != teacher.ID || group.CourseID != course.ID {
		t.Errorf("group references not persisted: %+v", group)
	}
}

func TestScheduleService_CreateGroupBadRefs(t *testing.T) {
	repo, service := newScheduleFixture(t)
	course, teacher := seedScheduleRefs(t, repo)
	ctx := context.Background()

	manager := &models.User{Name: "Miras", Email: "miras@school.kz", Role: models.RoleManager, IsActive: true}
	if err := repo.User().Create(ctx, manager); err != nil {
		t.Fatalf("failed to seed manager: %v", err)
	}

	t.Run("missing course", func(t *testing.T) {
		_, err := service.CreateGroup(ctx, &GroupRequest{Name: "G", CourseID: 999, TeacherID: teacher.ID})
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
	})

	t.Run("missing teacher", func(t *testing.T) {
		_, err := service.CreateGroup(ctx, &GroupRequest{Name: "G", CourseID: course.ID, TeacherID: 999})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("non-teacher user", func(t *testing.T) {
		_, err := service.CreateGroup(ctx, &GroupRequest{Name: "G", CourseID: course.ID, TeacherID: manager.ID})
		if err == nil {
			t.Error("expected error assigning a non-teacher")
		}
	})

	t.Run("missing classroom", func(t *testing.T) {
		room := uint(999)
		_, err := service.CreateGroup(ctx, &GroupRequest{Name: "G", CourseID: course.ID, TeacherID: teacher.ID, ClassroomID: &room})
		if !errors.Is(err, ErrClassroomNotFound) {
			t.Errorf("expected ErrClassroomNotFound, got %v", err)
		}
	})
}

func TestScheduleService_UpdateGroupRoster(t *testing.T) {
	repo, service := newScheduleFixture(t)
	course, teacher := seedScheduleRefs(t, repo)
	ctx := context.Background()

	var studentIDs []uint
	for _, name := range []string{"Dana", "Miras"} {
		student := &models.Student{Name: name, Phone: "+77010000001", Status: models.StudentActive}
		if err := repo.Student().Create(ctx, student); err != nil {
			t.Fatalf("failed to seed student: %v", err)
		}
		studentIDs = append(studentIDs, student.ID)
	}

	group, err := service.CreateGroup(ctx, &GroupRequest{
		Name:       "IELTS-A1",
		CourseID:   course.ID,
		TeacherID:  teacher.ID,
		StudentIDs: studentIDs,
	})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	students, err := repo.Group().GetStudents(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to list roster: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("expected 2 students in roster, got %d", len(students))
	}

	// A full-replace update with one id shrinks the roster.
	if _, err := service.UpdateGroup(ctx, group.ID, &GroupRequest{
		Name:       group.Name,
		CourseID:   course.ID,
		TeacherID:  teacher.ID,
		StudentIDs: studentIDs[:1],
	}); err != nil {
		t.Fatalf("failed to update group: %v", err)
	}

	students, err = repo.Group().GetStudents(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to list roster: %v", err)
	}
	if len(students) != 1 || students[0].ID != studentIDs[0] {
		t.Errorf("expected roster [%d], got %v", studentIDs[0], students)
	}
}

func TestScheduleService_CreateLesson(t *testing.T) {
	repo, service := newScheduleFixture(t)
	course, teacher := seedScheduleRefs(t, repo)
	ctx := context.Background()

	group, err := service.CreateGroup(ctx, &GroupRequest{Name: "IELTS-A1", CourseID: course.ID, TeacherID: teacher.ID})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	lesson, err := service.CreateLesson(ctx, &LessonRequest{
		GroupID: group.ID,
		Date:    time.Date(2026, 8, 3, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to create lesson: %v", err)
	}
	// Duration defaults to a standard hour when omitted.
	if lesson.DurationMinutes != 60 {
		t.Errorf("expected default duration 60, got %d", lesson.DurationMinutes)
	}

	t.Run("missing group", func(t *testing.T) {
		_, err := service.CreateLesson(ctx, &LessonRequest{GroupID: 999, Date: time.Now()})
		if !errors.Is(err, ErrGroupNotFound) {
			t.Errorf("expected ErrGroupNotFound, got %v", err)
		}
	})
}

func TestScheduleService_Courses(t *testing.T) {
	_, service := newScheduleFixture(t)
	ctx := context.Background()

	course, err := service.CreateCourse(ctx, &CourseRequest{Name: "General English", MonthlyFee: 38000})
	if err != nil {
		t.Fatalf("failed to create course: %v", err)
	}

	updated, err := service.UpdateCourse(ctx, course.ID, &CourseRequest{Name: "General English", MonthlyFee: 42000})
	if err != nil {
		t.Fatalf("failed to update course: %v", err)
	}
	if updated.MonthlyFee != 42000 {
		t.Errorf("expected fee 42000, got %.2f", updated.MonthlyFee)
	}

	if err := service.DeleteCourse(ctx, course.ID); err != nil {
		t.Fatalf("failed to delete course: %v", err)
	}
	if err := service.DeleteCourse(ctx, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/validator"
)

type scheduleService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewScheduleService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ScheduleService {
	return &scheduleService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

// ===== COURSES =====

func (s *scheduleService) CreateCourse(ctx context.Context, req *CourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		MonthlyFee:  req.MonthlyFee,
	}
	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

func (s *scheduleService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.repo.Course().List(ctx)
}

func (s *scheduleService) UpdateCourse(ctx context.Context, id uint, req *CourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	course.Name = req.Name
	course.Description = req.Description
	course.MonthlyFee = req.MonthlyFee

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

func (s *scheduleService) DeleteCourse(ctx context.Context, id uint) error {
	if _, err := s.repo.Course().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}
	return s.repo.Course().Delete(ctx, id)
}

// ===== CLASSROOMS =====

func (s *scheduleService) CreateClassroom(ctx context.Context, req *ClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	room := &models.Classroom{
		Name:     req.Name,
		Capacity: req.Capacity,
	}
	if err := s.repo.Classroom().Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create classroom: %w", err)
	}
	return room, nil
}

func (s *scheduleService) ListClassrooms(ctx context.Context) ([]*models.Classroom, error) {
	return s.repo.Classroom().List(ctx)
}

func (s *scheduleService) UpdateClassroom(ctx context.Context, id uint, req *ClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	room, err := s.repo.Classroom().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	room.Name = req.Name
	room.Capacity = req.Capacity

	if err := s.repo.Classroom().Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update classroom: %w", err)
	}
	return room, nil
}

func (s *scheduleService) DeleteClassroom(ctx context.Context, id uint) error {
	if _, err := s.repo.Classroom().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrClassroomNotFound
		}
		return fmt.Errorf("failed to get classroom: %w", err)
	}
	return s.repo.Classroom().Delete(ctx, id)
}

// ===== GROUPS =====

// CreateGroup checks the referenced course and teacher up front so a broken
// reference surfaces as a clean error instead of a constraint violation.
func (s *scheduleService) CreateGroup(ctx context.Context, req *GroupRequest) (*models.Group, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.checkGroupRefs(ctx, req); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        req.Name,
		CourseID:    req.CourseID,
		TeacherID:   req.TeacherID,
		ClassroomID: req.ClassroomID,
		Schedule:    req.Schedule,
	}

	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Group().Create(ctx, group); err != nil {
			return err
		}
		if len(req.StudentIDs) > 0 {
			return r.Group().ReplaceStudents(ctx, group.ID, req.StudentIDs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("group created", "group_id", group.ID, "teacher_id", group.TeacherID)
	return s.GetGroup(ctx, group.ID)
}

func (s *scheduleService) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	group, err := s.repo.Group().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

func (s *scheduleService) ListGroups(ctx context.Context, filters repositories.GroupFilters) ([]*models.Group, int64, error) {
	return s.repo.Group().List(ctx, filters)
}

func (s *scheduleService) UpdateGroup(ctx context.Context, id uint, req *GroupRequest) (*models.Group, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkGroupRefs(ctx, req); err != nil {
		return nil, err
	}

	group.Name = req.Name
	group.CourseID = req.CourseID
	group.TeacherID = req.TeacherID
	group.ClassroomID = req.ClassroomID
	group.Schedule = req.Schedule

	err = s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Group().Update(ctx, group); err != nil {
			return err
		}
		if req.StudentIDs != nil {
			return r.Group().ReplaceStudents(ctx, group.ID, req.StudentIDs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return s.GetGroup(ctx, id)
}

func (s *scheduleService) DeleteGroup(ctx context.Context, id uint) error {
	if _, err := s.GetGroup(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Group().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (s *scheduleService) checkGroupRefs(ctx context.Context, req *GroupRequest) error {
	if _, err := s.repo.Course().GetByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	teacher, err := s.repo.User().GetByID(ctx, req.TeacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher.Role != models.RoleTeacher {
		return fmt.Errorf("user %d is not a teacher", teacher.ID)
	}

	if req.ClassroomID != nil {
		if _, err := s.repo.Classroom().GetByID(ctx, *req.ClassroomID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrClassroomNotFound
			}
			return fmt.Errorf("failed to get classroom: %w", err)
		}
	}
	return nil
}

// ===== LESSONS =====

func (s *scheduleService) CreateLesson(ctx context.Context, req *LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.GetGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	lesson := &models.Lesson{
		GroupID:         req.GroupID,
		Date:            req.Date,
		DurationMinutes: duration,
		Topic:           req.Topic,
	}
	if err := s.repo.Lesson().Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return lesson, nil
}

func (s *scheduleService) ListLessons(ctx context.Context, filters repositories.LessonFilters) ([]*models.Lesson, int64, error) {
	return s.repo.Lesson().List(ctx, filters)
}

func (s *scheduleService) DeleteLesson(ctx context.Context, id uint) error {
	if _, err := s.repo.Lesson().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("failed to get lesson: %w", err)
	}
	return s.repo.Lesson().Delete(ctx, id)
}

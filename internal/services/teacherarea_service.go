package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/validator"
)

// teacherAreaService backs the teacher-facing surface. Every operation is
// scoped to the calling teacher: touching a group or lesson owned by someone
// else yields a PermissionError, not a not-found.
type teacherAreaService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTeacherAreaService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) TeacherAreaService {
	return &teacherAreaService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *teacherAreaService) MyGroups(ctx context.Context, teacherID uint) ([]*models.Group, error) {
	groups, _, err := s.repo.Group().List(ctx, repositories.GroupFilters{TeacherID: &teacherID})
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher groups: %w", err)
	}
	return groups, nil
}

func (s *teacherAreaService) GroupStudents(ctx context.Context, groupID, teacherID uint) ([]*models.Student, error) {
	if _, err := s.ownedGroup(ctx, groupID, teacherID); err != nil {
		return nil, err
	}

	students, err := s.repo.Group().GetStudents(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group students: %w", err)
	}
	return students, nil
}

// SubmitAttendance records a full attendance sheet for one lesson. The lesson
// is addressed either by id or by group+date; in the latter case a missing
// lesson is created on the spot. Resubmitting replaces the previous sheet
// wholesale, and the lesson is marked completed either way.
func (s *teacherAreaService) SubmitAttendance(ctx context.Context, req *AttendanceSubmitRequest, teacherID uint) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if req.LessonID == nil && (req.GroupID == nil || req.Date == nil) {
		return errors.New("either lesson_id or group_id with date is required")
	}

	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		lesson, err := s.resolveLesson(ctx, r, req, teacherID)
		if err != nil {
			return err
		}

		records := make([]*models.Attendance, 0, len(req.Records))
		for _, rec := range req.Records {
			records = append(records, &models.Attendance{
				LessonID:  lesson.ID,
				StudentID: rec.StudentID,
				Status:    rec.Status,
				Grade:     rec.Grade,
				Comment:   rec.Comment,
			})
		}

		if err := r.Lesson().ReplaceAttendance(ctx, lesson.ID, records); err != nil {
			return err
		}

		if !lesson.Completed {
			lesson.Completed = true
			if err := r.Lesson().Update(ctx, lesson); err != nil {
				return err
			}
		}

		return r.Log().Create(ctx, &models.Log{
			Action:  "attendance.submitted",
			Details: fmt.Sprintf("lesson %d: %d attendance records", lesson.ID, len(records)),
			Meta:    logMeta(lesson),
			UserID:  &teacherID,
		})
	})
	if err != nil {
		if IsPermissionError(err) || err == ErrLessonNotFound || err == ErrGroupNotFound {
			return err
		}
		return fmt.Errorf("failed to submit attendance: %w", err)
	}

	s.logger.Info("attendance submitted", "teacher_id", teacherID, "records", len(req.Records))
	return nil
}

func (s *teacherAreaService) LessonAttendance(ctx context.Context, lessonID, teacherID uint) ([]*models.Attendance, error) {
	lesson, err := s.repo.Lesson().GetByID(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	if _, err := s.ownedGroup(ctx, lesson.GroupID, teacherID); err != nil {
		return nil, err
	}

	records, err := s.repo.Lesson().GetAttendance(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return records, nil
}

// resolveLesson finds the target lesson for a submission and enforces that
// the calling teacher owns its group.
func (s *teacherAreaService) resolveLesson(ctx context.Context, r repositories.Repository, req *AttendanceSubmitRequest, teacherID uint) (*models.Lesson, error) {
	if req.LessonID != nil {
		lesson, err := r.Lesson().GetByID(ctx, *req.LessonID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrLessonNotFound
			}
			return nil, err
		}
		if _, err := s.ownedGroupWith(ctx, r, lesson.GroupID, teacherID); err != nil {
			return nil, err
		}
		return lesson, nil
	}

	if _, err := s.ownedGroupWith(ctx, r, *req.GroupID, teacherID); err != nil {
		return nil, err
	}

	lesson, err := r.Lesson().GetByGroupAndDate(ctx, *req.GroupID, *req.Date)
	if err == nil {
		return lesson, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	lesson = &models.Lesson{
		GroupID:         *req.GroupID,
		Date:            *req.Date,
		DurationMinutes: 60,
	}
	if err := r.Lesson().Create(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// ScoreBand turns four mock-exam module bands into the overall band teachers
// record in grade comments.
func (s *teacherAreaService) ScoreBand(req *BandScoreRequest) (float64, error) {
	if err := s.validator.Validate(req); err != nil {
		return 0, err
	}
	return OverallBand(req.Listening, req.Reading, req.Writing, req.Speaking), nil
}

func (s *teacherAreaService) ownedGroup(ctx context.Context, groupID, teacherID uint) (*models.Group, error) {
	return s.ownedGroupWith(ctx, s.repo, groupID, teacherID)
}

func (s *teacherAreaService) ownedGroupWith(ctx context.Context, r repositories.Repository, groupID, teacherID uint) (*models.Group, error) {
	group, err := r.Group().GetByID(ctx, groupID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group.TeacherID != teacherID {
		return nil, NewPermissionError(teacherID, groupID, "group", "access", "group belongs to another teacher")
	}
	return group, nil
}

package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

type lessonRepository struct {
	baseRepository
}

func NewLessonPostgreSQL(db *gorm.DB) repositories.LessonRepository {
	return &lessonRepository{baseRepository{db: db}}
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if err := r.db.WithContext(ctx).Create(lesson).Error; err != nil {
		return r.handleDBError(err, "create lesson")
	}
	return nil
}

func (r *lessonRepository) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).Preload("Group").First(&lesson, id).Error; err != nil {
		return nil, r.handleDBError(err, "get lesson by id")
	}
	return &lesson, nil
}

func (r *lessonRepository) GetByGroupAndDate(ctx context.Context, groupID uint, date time.Time) (*models.Lesson, error) {
	day := date.Truncate(24 * time.Hour)
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND date >= ? AND date < ?", groupID, day, day.Add(24*time.Hour)).
		First(&lesson).Error; err != nil {
		return nil, r.handleDBError(err, "get lesson by group and date")
	}
	return &lesson, nil
}

func (r *lessonRepository) List(ctx context.Context, filters repositories.LessonFilters) ([]*models.Lesson, int64, error) {
	var lessons []*models.Lesson
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Lesson{})
	if filters.GroupID != nil {
		query = query.Where("group_id = ?", *filters.GroupID)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count lessons")
	}

	query = applyPagination(query.Order("date desc"), filters.Limit, filters.Offset)
	if err := query.Find(&lessons).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list lessons")
	}

	return lessons, total, nil
}

func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	if err := r.db.WithContext(ctx).Save(lesson).Error; err != nil {
		return r.handleDBError(err, "update lesson")
	}
	return nil
}

func (r *lessonRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Lesson{}, id).Error; err != nil {
		return r.handleDBError(err, "delete lesson")
	}
	return nil
}

func (r *lessonRepository) ReplaceAttendance(ctx context.Context, lessonID uint, records []*models.Attendance) error {
	if err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Delete(&models.Attendance{}).Error; err != nil {
		return r.handleDBError(err, "clear lesson attendance")
	}
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(records).Error; err != nil {
		return r.handleDBError(err, "write lesson attendance")
	}
	return nil
}

func (r *lessonRepository) GetAttendance(ctx context.Context, lessonID uint) ([]*models.Attendance, error) {
	var records []*models.Attendance
	if err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Preload("Student").
		Find(&records).Error; err != nil {
		return nil, r.handleDBError(err, "get lesson attendance")
	}
	return records, nil
}

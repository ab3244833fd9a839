package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

// ===== COURSES =====

type courseRepository struct {
	baseRepository
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &courseRepository{baseRepository{db: db}}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return r.handleDBError(err, "create course")
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, r.handleDBError(err, "get course by id")
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	if err := r.db.WithContext(ctx).Order("name asc").Find(&courses).Error; err != nil {
		return nil, r.handleDBError(err, "list courses")
	}
	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return r.handleDBError(err, "update course")
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return r.handleDBError(err, "delete course")
	}
	return nil
}

// ===== CLASSROOMS =====

type classroomRepository struct {
	baseRepository
}

func NewClassroomPostgreSQL(db *gorm.DB) repositories.ClassroomRepository {
	return &classroomRepository{baseRepository{db: db}}
}

func (r *classroomRepository) Create(ctx context.Context, room *models.Classroom) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return r.handleDBError(err, "create classroom")
	}
	return nil
}

func (r *classroomRepository) GetByID(ctx context.Context, id uint) (*models.Classroom, error) {
	var room models.Classroom
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, r.handleDBError(err, "get classroom by id")
	}
	return &room, nil
}

func (r *classroomRepository) List(ctx context.Context) ([]*models.Classroom, error) {
	var rooms []*models.Classroom
	if err := r.db.WithContext(ctx).Order("name asc").Find(&rooms).Error; err != nil {
		return nil, r.handleDBError(err, "list classrooms")
	}
	return rooms, nil
}

func (r *classroomRepository) Update(ctx context.Context, room *models.Classroom) error {
	if err := r.db.WithContext(ctx).Save(room).Error; err != nil {
		return r.handleDBError(err, "update classroom")
	}
	return nil
}

func (r *classroomRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Classroom{}, id).Error; err != nil {
		return r.handleDBError(err, "delete classroom")
	}
	return nil
}

// ===== GROUPS =====

type groupRepository struct {
	baseRepository
}

func NewGroupPostgreSQL(db *gorm.DB) repositories.GroupRepository {
	return &groupRepository{baseRepository{db: db}}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return r.handleDBError(err, "create group")
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Teacher").
		Preload("Classroom").
		First(&group, id).Error; err != nil {
		return nil, r.handleDBError(err, "get group by id")
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context, filters repositories.GroupFilters) ([]*models.Group, int64, error) {
	var groups []*models.Group
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Group{})
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count groups")
	}

	query = applyPagination(query.Order("name asc"), filters.Limit, filters.Offset)
	if err := query.Preload("Course").Preload("Teacher").Find(&groups).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list groups")
	}

	return groups, total, nil
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return r.handleDBError(err, "update group")
	}
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Group{}, id).Error; err != nil {
		return r.handleDBError(err, "delete group")
	}
	return nil
}

func (r *groupRepository) ReplaceStudents(ctx context.Context, groupID uint, studentIDs []uint) error {
	var students []models.Student
	if len(studentIDs) > 0 {
		if err := r.db.WithContext(ctx).Find(&students, studentIDs).Error; err != nil {
			return r.handleDBError(err, "load group students")
		}
	}
	group := models.Group{ID: groupID}
	if err := r.db.WithContext(ctx).Model(&group).Association("Students").Replace(students); err != nil {
		return r.handleDBError(err, "replace group students")
	}
	return nil
}

func (r *groupRepository) GetStudents(ctx context.Context, groupID uint) ([]*models.Student, error) {
	group := models.Group{ID: groupID}
	var students []*models.Student
	if err := r.db.WithContext(ctx).Model(&group).Association("Students").Find(&students); err != nil {
		return nil, r.handleDBError(err, "get group students")
	}
	return students, nil
}

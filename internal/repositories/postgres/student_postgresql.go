package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

type studentRepository struct {
	baseRepository
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &studentRepository{baseRepository{db: db}}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return r.handleDBError(err, "create student")
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, r.handleDBError(err, "get student by id")
	}
	return &student, nil
}

// GetByIDForUpdate takes a row-level lock; only meaningful inside
// WithTransaction, where the lock is held until commit or rollback.
func (r *studentRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&student, id).Error; err != nil {
		return nil, r.handleDBError(err, "get student for update")
	}
	return &student, nil
}

func (r *studentRepository) GetByLeadID(ctx context.Context, leadID uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("lead_id = ?", leadID).First(&student).Error; err != nil {
		return nil, r.handleDBError(err, "get student by lead id")
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	var students []*models.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Student{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count students")
	}

	query = applyPagination(query.Order("name asc"), filters.Limit, filters.Offset)
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list students")
	}

	return students, total, nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		return r.handleDBError(err, "update student")
	}
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Student{}, id).Error; err != nil {
		return r.handleDBError(err, "delete student")
	}
	return nil
}

// AdjustBalance applies a signed delta atomically on the student row.
func (r *studentRepository) AdjustBalance(ctx context.Context, id uint, delta float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return r.handleDBError(result.Error, "adjust student balance")
	}
	if result.RowsAffected == 0 {
		return r.handleDBError(gorm.ErrRecordNotFound, "adjust student balance")
	}
	return nil
}

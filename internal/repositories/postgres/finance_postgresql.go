package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

type financeRepository struct {
	baseRepository
}

func NewFinancePostgreSQL(db *gorm.DB) repositories.FinanceRepository {
	return &financeRepository{baseRepository{db: db}}
}

func (r *financeRepository) Debtors(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	if err := r.db.WithContext(ctx).
		Where("balance < 0").
		Order("balance asc").
		Find(&students).Error; err != nil {
		return nil, r.handleDBError(err, "list debtors")
	}
	return students, nil
}

func (r *financeRepository) Summary(ctx context.Context, from, to time.Time) (*repositories.FinanceSummary, error) {
	var income float64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ? AND paid_at >= ? AND paid_at <= ?", models.PaymentPaid, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&income).Error; err != nil {
		return nil, r.handleDBError(err, "sum income")
	}

	var expenses float64
	if err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("spent_at >= ? AND spent_at <= ?", from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&expenses).Error; err != nil {
		return nil, r.handleDBError(err, "sum expenses")
	}

	return &repositories.FinanceSummary{
		Income:   income,
		Expenses: expenses,
		Net:      income - expenses,
	}, nil
}

func (r *financeRepository) TeacherLessonMinutes(ctx context.Context, teacherID uint, from, to time.Time) (int64, error) {
	var minutes int64
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Joins("JOIN groups ON groups.id = lessons.group_id").
		Where("groups.teacher_id = ? AND lessons.completed = ? AND lessons.date >= ? AND lessons.date <= ?",
			teacherID, true, from, to).
		Select("COALESCE(SUM(lessons.duration_minutes), 0)").
		Scan(&minutes).Error
	if err != nil {
		return 0, r.handleDBError(err, "sum teacher lesson minutes")
	}
	return minutes, nil
}

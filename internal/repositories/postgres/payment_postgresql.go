package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

type paymentRepository struct {
	baseRepository
}

func NewPaymentPostgreSQL(db *gorm.DB) repositories.PaymentRepository {
	return &paymentRepository{baseRepository{db: db}}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return r.handleDBError(err, "create payment")
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, r.handleDBError(err, "get payment by id")
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, filters repositories.PaymentFilters) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Period != nil {
		query = query.Where("period = ?", *filters.Period)
	}
	if filters.DateFrom != nil {
		query = query.Where("paid_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("paid_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count payments")
	}

	query = applyPagination(query.Order("paid_at desc"), filters.Limit, filters.Offset)
	if err := query.Preload("Student").Find(&payments).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list payments")
	}

	return payments, total, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return r.handleDBError(err, "update payment")
	}
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error; err != nil {
		return r.handleDBError(err, "delete payment")
	}
	return nil
}

// SumPaidByStudent recomputes the paid total from scratch; used for
// consistency checks, not for serving reads.
func (r *paymentRepository) SumPaidByStudent(ctx context.Context, studentID uint) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("student_id = ? AND status = ?", studentID, models.PaymentPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, r.handleDBError(err, "sum paid payments")
	}
	return sum, nil
}

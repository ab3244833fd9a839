package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

type expenseRepository struct {
	baseRepository
}

func NewExpensePostgreSQL(db *gorm.DB) repositories.ExpenseRepository {
	return &expenseRepository{baseRepository{db: db}}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return r.handleDBError(err, "create expense")
	}
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, r.handleDBError(err, "get expense by id")
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, filters repositories.ExpenseFilters) ([]*models.Expense, int64, error) {
	var expenses []*models.Expense
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Expense{})
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.DateFrom != nil {
		query = query.Where("spent_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("spent_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count expenses")
	}

	query = applyPagination(query.Order("spent_at desc"), filters.Limit, filters.Offset)
	if err := query.Find(&expenses).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list expenses")
	}

	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	if err := r.db.WithContext(ctx).Save(expense).Error; err != nil {
		return r.handleDBError(err, "update expense")
	}
	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Expense{}, id).Error; err != nil {
		return r.handleDBError(err, "delete expense")
	}
	return nil
}

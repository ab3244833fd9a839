package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

type logRepository struct {
	baseRepository
}

func NewLogPostgreSQL(db *gorm.DB) repositories.LogRepository {
	return &logRepository{baseRepository{db: db}}
}

func (r *logRepository) Create(ctx context.Context, entry *models.Log) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return r.handleDBError(err, "create log entry")
	}
	return nil
}

func (r *logRepository) List(ctx context.Context, filters repositories.LogFilters) ([]*models.Log, int64, error) {
	var entries []*models.Log
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Log{})
	if filters.Action != nil {
		query = query.Where("action = ?", *filters.Action)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count log entries")
	}

	query = applyPagination(query.Order("created_at desc"), filters.Limit, filters.Offset)
	if err := query.Preload("User").Find(&entries).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list log entries")
	}

	return entries, total, nil
}

package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

type leadRepository struct {
	baseRepository
}

func NewLeadPostgreSQL(db *gorm.DB) repositories.LeadRepository {
	return &leadRepository{baseRepository{db: db}}
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return r.handleDBError(err, "create lead")
	}
	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).First(&lead, id).Error; err != nil {
		return nil, r.handleDBError(err, "get lead by id")
	}
	return &lead, nil
}

func (r *leadRepository) List(ctx context.Context, filters repositories.LeadFilters) ([]*models.Lead, int64, error) {
	var leads []*models.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Lead{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count leads")
	}

	query = applyPagination(query.Order("created_at desc"), filters.Limit, filters.Offset)
	if err := query.Find(&leads).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list leads")
	}

	return leads, total, nil
}

func (r *leadRepository) Update(ctx context.Context, lead *models.Lead) error {
	if err := r.db.WithContext(ctx).Save(lead).Error; err != nil {
		return r.handleDBError(err, "update lead")
	}
	return nil
}

func (r *leadRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Lead{}, id).Error; err != nil {
		return r.handleDBError(err, "delete lead")
	}
	return nil
}

func (r *leadRepository) AddNote(ctx context.Context, note *models.LeadNote) error {
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return r.handleDBError(err, "add lead note")
	}
	return nil
}

func (r *leadRepository) GetNotes(ctx context.Context, leadID uint) ([]*models.LeadNote, error) {
	var notes []*models.LeadNote
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at desc").
		Find(&notes).Error; err != nil {
		return nil, r.handleDBError(err, "get lead notes")
	}
	return notes, nil
}

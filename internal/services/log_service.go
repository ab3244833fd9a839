package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

// logService exposes the append-only audit trail; entries are written by the
// other services inside their own transactions.
type logService struct {
	repo repositories.Repository
}

func NewLogService(repo repositories.Repository) LogService {
	return &logService{repo: repo}
}

func (s *logService) List(ctx context.Context, filters repositories.LogFilters) ([]*models.Log, int64, error) {
	return s.repo.Log().List(ctx, filters)
}

// logMeta marshals an entity snapshot for a log entry's Meta column. A
// marshal failure degrades to a null column; it never fails the write.
func logMeta(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

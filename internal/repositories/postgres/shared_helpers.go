package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/repositories"
)

// baseRepository carries the shared connection handle and error translation
// used by every entity repository in this package.
type baseRepository struct {
	db *gorm.DB
}

// handleDBError translates driver errors into repository-level errors.
func (r *baseRepository) handleDBError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// applyPagination applies limit/offset with sane defaults.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

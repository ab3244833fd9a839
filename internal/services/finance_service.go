package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linguahub/crm-service/internal/cache"
	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
)

type financeService struct {
	repo         repositories.Repository
	logger       *slog.Logger
	financeCache *cache.CacheHelper
	debtorsCache *cache.CacheHelper
}

func NewFinanceService(repo repositories.Repository, redisClient *redis.Client, logger *slog.Logger) FinanceService {
	return &financeService{
		repo:         repo,
		logger:       logger,
		financeCache: cache.NewCacheHelper(redisClient, cache.FinanceCacheConfig.Prefix),
		debtorsCache: cache.NewCacheHelper(redisClient, cache.DebtorsCacheConfig.Prefix),
	}
}

// Debtors lists students owing money, most indebted first.
func (s *financeService) Debtors(ctx context.Context) ([]*models.Student, error) {
	var cached []*models.Student
	if err := s.debtorsCache.Get(ctx, "all", &cached); err == nil {
		return cached, nil
	}

	debtors, err := s.repo.Finance().Debtors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list debtors: %w", err)
	}

	if err := s.debtorsCache.Set(ctx, "all", debtors, cache.DebtorsCacheConfig.TTL); err != nil {
		s.logger.Warn("failed to cache debtors", "error", err)
	}
	return debtors, nil
}

func (s *financeService) Summary(ctx context.Context, from, to time.Time) (*repositories.FinanceSummary, error) {
	key := fmt.Sprintf("summary:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	var cached repositories.FinanceSummary
	if err := s.financeCache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	summary, err := s.repo.Finance().Summary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build finance summary: %w", err)
	}

	if err := s.financeCache.Set(ctx, key, summary, cache.FinanceCacheConfig.TTL); err != nil {
		s.logger.Warn("failed to cache finance summary", "error", err)
	}
	return summary, nil
}

// TeacherSalary computes pay as hourly rate times completed lesson hours of
// the teacher's groups in the period.
func (s *financeService) TeacherSalary(ctx context.Context, teacherID uint, from, to time.Time) (*SalaryResponse, error) {
	teacher, err := s.repo.User().GetByID(ctx, teacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher.Role != models.RoleTeacher {
		return nil, errors.New("user is not a teacher")
	}

	minutes, err := s.repo.Finance().TeacherLessonMinutes(ctx, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum lesson minutes: %w", err)
	}

	hours := float64(minutes) / 60
	return &SalaryResponse{
		TeacherID:  teacher.ID,
		Name:       teacher.Name,
		HourlyRate: teacher.HourlyRate,
		Hours:      hours,
		Amount:     hours * teacher.HourlyRate,
	}, nil
}

// InvalidateCaches drops finance aggregates; called after every
// balance-affecting mutation.
func (s *financeService) InvalidateCaches(ctx context.Context) {
	if err := s.financeCache.DeletePrefix(ctx); err != nil {
		s.logger.Warn("failed to invalidate finance cache", "error", err)
	}
	if err := s.debtorsCache.DeletePrefix(ctx); err != nil {
		s.logger.Warn("failed to invalidate debtors cache", "error", err)
	}
}

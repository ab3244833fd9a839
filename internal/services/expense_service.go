package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/validator"
)

type expenseService struct {
	repo      repositories.Repository
	finance   FinanceService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewExpenseService(repo repositories.Repository, finance FinanceService, logger *slog.Logger, v *validator.Validator) ExpenseService {
	return &expenseService{
		repo:      repo,
		finance:   finance,
		logger:    logger,
		validator: v,
	}
}

func (s *expenseService) Create(ctx context.Context, req *ExpenseRequest, actorID uint) (*models.Expense, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	spentAt := time.Now()
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	expense := &models.Expense{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		SpentAt:     spentAt,
	}

	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Expense().Create(ctx, expense); err != nil {
			return err
		}
		return r.Log().Create(ctx, &models.Log{
			Action:  "expense.created",
			Details: fmt.Sprintf("expense %.2f (%s)", expense.Amount, expense.Category),
			UserID:  &actorID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.finance.InvalidateCaches(ctx)
	return expense, nil
}

func (s *expenseService) GetByID(ctx context.Context, id uint) (*models.Expense, error) {
	expense, err := s.repo.Expense().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, filters repositories.ExpenseFilters) ([]*models.Expense, int64, error) {
	return s.repo.Expense().List(ctx, filters)
}

func (s *expenseService) Update(ctx context.Context, id uint, req *ExpenseRequest) (*models.Expense, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	expense, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expense.Amount = req.Amount
	expense.Category = req.Category
	expense.Description = req.Description
	if req.SpentAt != nil {
		expense.SpentAt = *req.SpentAt
	}

	if err := s.repo.Expense().Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.finance.InvalidateCaches(ctx)
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Expense().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	s.finance.InvalidateCaches(ctx)
	return nil
}

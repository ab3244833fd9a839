package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/utils"
	"github.com/linguahub/crm-service/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	finance   FinanceService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, finance FinanceService, logger *slog.Logger, v *validator.Validator) StudentService {
	return &studentService{
		repo:      repo,
		finance:   finance,
		logger:    logger,
		validator: v,
	}
}

func (s *studentService) Create(ctx context.Context, req *StudentCreateRequest, actorID uint) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:          req.Name,
		Phone:         utils.NormalizePhone(req.Phone),
		GuardianPhone: utils.NormalizePhone(req.GuardianPhone),
		Email:         req.Email,
		Status:        models.StudentActive,
	}

	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Student().Create(ctx, student); err != nil {
			return err
		}
		return r.Log().Create(ctx, &models.Log{
			Action:  "student.created",
			Details: fmt.Sprintf("student %q (%s) enrolled", student.Name, student.Phone),
			Meta:    logMeta(student),
			UserID:  &actorID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("student created", "student_id", student.ID)
	return student, nil
}

func (s *studentService) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	return s.repo.Student().List(ctx, filters)
}

func (s *studentService) Update(ctx context.Context, id uint, req *StudentUpdateRequest) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Phone != nil {
		student.Phone = utils.NormalizePhone(*req.Phone)
	}
	if req.GuardianPhone != nil {
		student.GuardianPhone = utils.NormalizePhone(*req.GuardianPhone)
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.Status != nil {
		student.Status = *req.Status
	}

	if err := s.repo.Student().Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

// Delete removes a student without reconciling outstanding balance; the
// audit entry keeps the final balance on record.
func (s *studentService) Delete(ctx context.Context, id uint, actorID uint) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Student().Delete(ctx, id); err != nil {
			return err
		}
		return r.Log().Create(ctx, &models.Log{
			Action:  "student.deleted",
			Details: fmt.Sprintf("student %d deleted with balance %.2f", id, student.Balance),
			Meta:    logMeta(student),
			UserID:  &actorID,
		})
	})
}

// AdjustBalance applies a manual correction outside the payment ledger,
// serialized against concurrent payment mutations by the same row lock.
func (s *studentService) AdjustBalance(ctx context.Context, id uint, req *BalanceAdjustRequest, actorID uint) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var student *models.Student
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		var err error
		student, err = r.Student().GetByIDForUpdate(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrStudentNotFound
			}
			return err
		}

		if err := r.Student().AdjustBalance(ctx, id, req.Amount); err != nil {
			return err
		}
		student.Balance += req.Amount

		return r.Log().Create(ctx, &models.Log{
			Action:  "student.balance_adjusted",
			Details: fmt.Sprintf("student %d balance adjusted by %.2f: %s", id, req.Amount, req.Reason),
			Meta:    logMeta(student),
			UserID:  &actorID,
		})
	})
	if err != nil {
		if err == ErrStudentNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to adjust balance: %w", err)
	}

	s.finance.InvalidateCaches(ctx)
	s.logger.Info("balance adjusted", "student_id", id, "delta", req.Amount)

	return student, nil
}

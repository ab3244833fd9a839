package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linguahub/crm-service/internal/events"
	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/validator"
)

type paymentService struct {
	repo           repositories.Repository
	finance        FinanceService
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewPaymentService(repo repositories.Repository, finance FinanceService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) PaymentService {
	return &paymentService{
		repo:           repo,
		finance:        finance,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
	}
}

// ledgerDelta computes the balance adjustments for a payment mutation using
// the pre-mutation and post-mutation snapshots. Only "paid" rows count:
// revert removes the old row's contribution, apply adds the new one's. Both
// legs are returned separately so callers preserve the revert-then-apply
// order.
func ledgerDelta(oldStatus models.PaymentStatus, oldAmount float64, newStatus models.PaymentStatus, newAmount float64) (revert, apply float64) {
	if oldStatus == models.PaymentPaid {
		revert = -oldAmount
	}
	if newStatus == models.PaymentPaid {
		apply = newAmount
	}
	return revert, apply
}

// Create records a payment; a "paid" payment immediately credits the
// student's balance. The student row is locked so concurrent mutations
// against the same student serialize.
func (s *paymentService) Create(ctx context.Context, req *PaymentCreateRequest, actorID uint) (*models.Payment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment := &models.Payment{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    req.Status,
		Type:      req.Type,
		Period:    req.Period,
		PaidAt:    paidAt,
		Comment:   req.Comment,
	}

	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		student, err := r.Student().GetByIDForUpdate(ctx, req.StudentID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrStudentNotFound
			}
			return err
		}

		if err := r.Payment().Create(ctx, payment); err != nil {
			return err
		}

		if payment.Status == models.PaymentPaid {
			if err := r.Student().AdjustBalance(ctx, student.ID, payment.Amount); err != nil {
				return err
			}
		}

		return r.Log().Create(ctx, &models.Log{
			Action:  "payment.created",
			Details: fmt.Sprintf("payment %d: %.2f (%s) for student %d", payment.ID, payment.Amount, payment.Status, student.ID),
			Meta:    logMeta(payment),
			UserID:  &actorID,
		})
	})
	if err != nil {
		if err == ErrStudentNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.finance.InvalidateCaches(ctx)
	if payment.Status == models.PaymentPaid {
		s.publishEvent(ctx, events.TypePaymentReceived, payment)
	}
	s.logger.Info("payment created", "payment_id", payment.ID, "student_id", payment.StudentID, "amount", payment.Amount, "status", payment.Status)

	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.Payment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) List(ctx context.Context, filters repositories.PaymentFilters) ([]*models.Payment, int64, error) {
	return s.repo.Payment().List(ctx, filters)
}

// Update edits a payment in place. The balance effect is derived from the
// pre-update and post-update snapshots (revert the old row's contribution,
// then apply the new one's) because amount and status may change together.
// Reassigning the payment to another student is not supported.
func (s *paymentService) Update(ctx context.Context, id uint, req *PaymentUpdateRequest, actorID uint) (*models.Payment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var payment *models.Payment
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		var err error
		payment, err = r.Payment().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPaymentNotFound
			}
			return err
		}

		if _, err := r.Student().GetByIDForUpdate(ctx, payment.StudentID); err != nil {
			return err
		}

		oldStatus, oldAmount := payment.Status, payment.Amount

		if req.Amount != nil {
			payment.Amount = *req.Amount
		}
		if req.Method != nil {
			payment.Method = *req.Method
		}
		if req.Status != nil {
			payment.Status = *req.Status
		}
		if req.Type != nil {
			payment.Type = *req.Type
		}
		if req.Period != nil {
			payment.Period = *req.Period
		}
		if req.PaidAt != nil {
			payment.PaidAt = *req.PaidAt
		}
		if req.Comment != nil {
			payment.Comment = *req.Comment
		}

		if err := r.Payment().Update(ctx, payment); err != nil {
			return err
		}

		revert, apply := ledgerDelta(oldStatus, oldAmount, payment.Status, payment.Amount)
		if revert != 0 {
			if err := r.Student().AdjustBalance(ctx, payment.StudentID, revert); err != nil {
				return err
			}
		}
		if apply != 0 {
			if err := r.Student().AdjustBalance(ctx, payment.StudentID, apply); err != nil {
				return err
			}
		}

		return r.Log().Create(ctx, &models.Log{
			Action:  "payment.updated",
			Details: fmt.Sprintf("payment %d: %.2f (%s) -> %.2f (%s)", payment.ID, oldAmount, oldStatus, payment.Amount, payment.Status),
			Meta:    logMeta(payment),
			UserID:  &actorID,
		})
	})
	if err != nil {
		if err == ErrPaymentNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	s.finance.InvalidateCaches(ctx)
	s.logger.Info("payment updated", "payment_id", payment.ID, "student_id", payment.StudentID)

	return payment, nil
}

// Delete removes a payment, first withdrawing its contribution from the
// student's balance if it was paid.
func (s *paymentService) Delete(ctx context.Context, id uint, actorID uint) error {
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		payment, err := r.Payment().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPaymentNotFound
			}
			return err
		}

		if _, err := r.Student().GetByIDForUpdate(ctx, payment.StudentID); err != nil {
			return err
		}

		if payment.Status == models.PaymentPaid {
			if err := r.Student().AdjustBalance(ctx, payment.StudentID, -payment.Amount); err != nil {
				return err
			}
		}

		if err := r.Payment().Delete(ctx, payment.ID); err != nil {
			return err
		}

		return r.Log().Create(ctx, &models.Log{
			Action:  "payment.deleted",
			Details: fmt.Sprintf("payment %d: %.2f (%s) for student %d removed", payment.ID, payment.Amount, payment.Status, payment.StudentID),
			Meta:    logMeta(payment),
			UserID:  &actorID,
		})
	})
	if err != nil {
		if err == ErrPaymentNotFound {
			return err
		}
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	s.finance.InvalidateCaches(ctx)
	s.logger.Info("payment deleted", "payment_id", id)

	return nil
}

func (s *paymentService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Error("failed to publish event", "type", eventType, "error", err)
	}
}

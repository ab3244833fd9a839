package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linguahub/crm-service/internal/events"
	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/utils"
	"github.com/linguahub/crm-service/internal/validator"
)

type leadService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewLeadService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) LeadService {
	return &leadService{
		repo:           repo,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
	}
}

// Create registers an inbound inquiry. The lead row and its audit log entry
// are one atomic unit; the outbound notification is published after commit
// and its failure never fails the request.
func (s *leadService) Create(ctx context.Context, req *LeadCreateRequest) (*models.Lead, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lead := &models.Lead{
		Name:    req.Name,
		Phone:   utils.NormalizePhone(req.Phone),
		Course:  req.Course,
		Message: req.Message,
		Status:  models.LeadStatusNew,
	}

	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Lead().Create(ctx, lead); err != nil {
			return err
		}
		return r.Log().Create(ctx, &models.Log{
			Action:  "lead.created",
			Details: fmt.Sprintf("lead %q (%s) inquired about %s", lead.Name, lead.Phone, lead.Course),
			Meta:    logMeta(lead),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.publishEvent(ctx, events.TypeLeadCreated, lead)
	s.logger.Info("lead created", "lead_id", lead.ID, "course", lead.Course)

	return lead, nil
}

func (s *leadService) GetByID(ctx context.Context, id uint) (*models.Lead, error) {
	lead, err := s.repo.Lead().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

func (s *leadService) List(ctx context.Context, filters repositories.LeadFilters) ([]*models.Lead, int64, error) {
	return s.repo.Lead().List(ctx, filters)
}

// ChangeStatus moves a lead to any other allowed status. Transitions are
// deliberately unrestricted beyond enum membership.
func (s *leadService) ChangeStatus(ctx context.Context, id uint, req *LeadStatusRequest, actorID uint) (*models.Lead, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := lead.Status
	lead.Status = req.Status

	err = s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Lead().Update(ctx, lead); err != nil {
			return err
		}
		return r.Log().Create(ctx, &models.Log{
			Action:  "lead.status_changed",
			Details: fmt.Sprintf("lead %d: %s -> %s", lead.ID, previous, lead.Status),
			Meta:    logMeta(lead),
			UserID:  &actorID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change lead status: %w", err)
	}

	return lead, nil
}

// Convert turns a lead into a billable student, exactly once. The student
// create, the lead's move to "won" and the audit entry commit together or
// not at all.
func (s *leadService) Convert(ctx context.Context, id uint, actorID uint) (*models.Student, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Student().GetByLeadID(ctx, id); err == nil {
		return nil, ErrLeadAlreadyConverted
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing conversion: %w", err)
	}

	student := &models.Student{
		Name:   lead.Name,
		Phone:  lead.Phone,
		Status: models.StudentActive,
		LeadID: &lead.ID,
	}

	err = s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		// A concurrent convert can slip past the check above; the unique lead
		// reference on students rejects the second insert, which maps to the
		// same conflict error.
		if err := r.Student().Create(ctx, student); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrLeadAlreadyConverted
			}
			return err
		}
		lead.Status = models.LeadStatusWon
		if err := r.Lead().Update(ctx, lead); err != nil {
			return err
		}
		return r.Log().Create(ctx, &models.Log{
			Action:  "lead.converted",
			Details: fmt.Sprintf("lead %d converted to student %d", lead.ID, student.ID),
			Meta:    logMeta(student),
			UserID:  &actorID,
		})
	})
	if err != nil {
		if err == ErrLeadAlreadyConverted {
			return nil, err
		}
		return nil, fmt.Errorf("failed to convert lead: %w", err)
	}

	s.publishEvent(ctx, events.TypeLeadConverted, student)
	s.logger.Info("lead converted", "lead_id", lead.ID, "student_id", student.ID)

	return student, nil
}

func (s *leadService) AddNote(ctx context.Context, id uint, req *LeadNoteRequest, actorID uint) (*models.LeadNote, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	note := &models.LeadNote{
		LeadID:  id,
		Content: req.Content,
		UserID:  &actorID,
	}
	if err := s.repo.Lead().AddNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return note, nil
}

func (s *leadService) GetNotes(ctx context.Context, id uint) ([]*models.LeadNote, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Lead().GetNotes(ctx, id)
}

func (s *leadService) Delete(ctx context.Context, id uint, actorID uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	return s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Lead().Delete(ctx, id); err != nil {
			return err
		}
		return r.Log().Create(ctx, &models.Log{
			Action:  "lead.deleted",
			Details: fmt.Sprintf("lead %d deleted", id),
			UserID:  &actorID,
		})
	})
}

func (s *leadService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Error("failed to publish event", "type", eventType, "error", err)
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/linguahub/crm-service/internal/config"
	"github.com/linguahub/crm-service/internal/events"
	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/validator"
)

// Manager wires every service together over one repository, cache and event
// bus. Finance is built first so the balance-affecting services can
// invalidate its caches.
type Manager struct {
	cfg    *config.Config
	repo   repositories.Repository
	logger *slog.Logger

	auth        AuthService
	user        UserService
	lead        LeadService
	student     StudentService
	payment     PaymentService
	expense     ExpenseService
	finance     FinanceService
	schedule    ScheduleService
	teacherArea TeacherAreaService
	log         LogService
}

func NewServiceManager(
	cfg *config.Config,
	repo repositories.Repository,
	redisClient *redis.Client,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) *Manager {
	finance := NewFinanceService(repo, redisClient, logger)

	return &Manager{
		cfg:         cfg,
		repo:        repo,
		logger:      logger,
		auth:        NewAuthService(repo, logger, v, cfg.JWTSecret, cfg.TokenLifetime),
		user:        NewUserService(repo, logger, v, cfg.BcryptCost),
		lead:        NewLeadService(repo, publisher, logger, v),
		student:     NewStudentService(repo, finance, logger, v),
		payment:     NewPaymentService(repo, finance, publisher, logger, v),
		expense:     NewExpenseService(repo, finance, logger, v),
		finance:     finance,
		schedule:    NewScheduleService(repo, logger, v),
		teacherArea: NewTeacherAreaService(repo, logger, v),
		log:         NewLogService(repo),
	}
}

func (m *Manager) Auth() AuthService               { return m.auth }
func (m *Manager) User() UserService               { return m.user }
func (m *Manager) Lead() LeadService               { return m.lead }
func (m *Manager) Student() StudentService         { return m.student }
func (m *Manager) Payment() PaymentService         { return m.payment }
func (m *Manager) Expense() ExpenseService         { return m.expense }
func (m *Manager) Finance() FinanceService         { return m.finance }
func (m *Manager) Schedule() ScheduleService       { return m.schedule }
func (m *Manager) TeacherArea() TeacherAreaService { return m.teacherArea }
func (m *Manager) Log() LogService                 { return m.log }

// Initialize seeds the first super-admin account when ADMIN_SEED_EMAIL is
// configured and the account does not exist yet.
func (m *Manager) Initialize(ctx context.Context) error {
	if m.cfg.AdminSeedEmail == "" {
		return nil
	}
	if m.cfg.AdminSeedPassword == "" {
		return fmt.Errorf("ADMIN_SEED_PASSWORD is required when ADMIN_SEED_EMAIL is set")
	}

	exists, err := m.repo.User().ExistsByEmail(ctx, m.cfg.AdminSeedEmail)
	if err != nil {
		return fmt.Errorf("failed to check seed admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := HashPassword(m.cfg.AdminSeedPassword, m.cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        m.cfg.AdminSeedEmail,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := m.repo.User().Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	m.logger.Info("seeded super admin", "email", admin.Email)
	return nil
}

func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("service manager shutting down")
	return nil
}

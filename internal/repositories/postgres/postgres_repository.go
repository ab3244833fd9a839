package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/linguahub/crm-service/internal/repositories"
)

// PostgreSQLRepository implements the aggregate Repository interface.
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client

	user      repositories.UserRepository
	lead      repositories.LeadRepository
	student   repositories.StudentRepository
	payment   repositories.PaymentRepository
	expense   repositories.ExpenseRepository
	course    repositories.CourseRepository
	classroom repositories.ClassroomRepository
	group     repositories.GroupRepository
	lesson    repositories.LessonRepository
	log       repositories.LogRepository
	finance   repositories.FinanceRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository wires all entity repositories onto one pool.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		db:          config.DB,
		redisClient: config.RedisClient,
	}
	repo.initSubRepositories(config.DB)
	return repo
}

func (r *PostgreSQLRepository) initSubRepositories(db *gorm.DB) {
	r.user = NewUserPostgreSQL(db)
	r.lead = NewLeadPostgreSQL(db)
	r.student = NewStudentPostgreSQL(db)
	r.payment = NewPaymentPostgreSQL(db)
	r.expense = NewExpensePostgreSQL(db)
	r.course = NewCoursePostgreSQL(db)
	r.classroom = NewClassroomPostgreSQL(db)
	r.group = NewGroupPostgreSQL(db)
	r.lesson = NewLessonPostgreSQL(db)
	r.log = NewLogPostgreSQL(db)
	r.finance = NewFinancePostgreSQL(db)
}

func (r *PostgreSQLRepository) User() repositories.UserRepository           { return r.user }
func (r *PostgreSQLRepository) Lead() repositories.LeadRepository           { return r.lead }
func (r *PostgreSQLRepository) Student() repositories.StudentRepository     { return r.student }
func (r *PostgreSQLRepository) Payment() repositories.PaymentRepository     { return r.payment }
func (r *PostgreSQLRepository) Expense() repositories.ExpenseRepository     { return r.expense }
func (r *PostgreSQLRepository) Course() repositories.CourseRepository       { return r.course }
func (r *PostgreSQLRepository) Classroom() repositories.ClassroomRepository { return r.classroom }
func (r *PostgreSQLRepository) Group() repositories.GroupRepository         { return r.group }
func (r *PostgreSQLRepository) Lesson() repositories.LessonRepository       { return r.lesson }
func (r *PostgreSQLRepository) Log() repositories.LogRepository             { return r.log }
func (r *PostgreSQLRepository) Finance() repositories.FinanceRepository     { return r.finance }

// WithTransaction executes fn within a database transaction. The repository
// passed to fn is bound to the transaction; row locks taken through it are
// held until commit or rollback.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:          tx,
			redisClient: r.redisClient,
		}
		txRepo.initSubRepositories(tx)
		return fn(txRepo)
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if r.redisClient != nil {
		if err := r.redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}
	return nil
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}

// Manager implements repositories.RepositoryManager.
type Manager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &Manager{config: config}
}

func (m *Manager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := m.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if m.config.RedisClient != nil {
		if err := m.config.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *Manager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}

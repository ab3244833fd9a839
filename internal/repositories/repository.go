package repositories

import "context"

// Repository aggregates every entity repository behind one injection point.
type Repository interface {
	User() UserRepository
	Lead() LeadRepository
	Student() StudentRepository
	Payment() PaymentRepository
	Expense() ExpenseRepository
	Course() CourseRepository
	Classroom() ClassroomRepository
	Group() GroupRepository
	Lesson() LessonRepository
	Log() LogRepository
	Finance() FinanceRepository

	// WithTransaction executes fn against a repository bound to a single
	// database transaction; fn returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/linguahub/crm-service/internal/config"
	"github.com/linguahub/crm-service/internal/models"
)

// InitDatabase opens the single process-wide connection pool and migrates the
// schema. All repositories share this pool; nothing else opens connections.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		// Surface unique violations as gorm.ErrDuplicatedKey so repositories
		// can classify them.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.LeadNote{},
		&models.Student{},
		&models.Payment{},
		&models.Expense{},
		&models.Course{},
		&models.Classroom{},
		&models.Group{},
		&models.Lesson{},
		&models.Attendance{},
		&models.Log{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

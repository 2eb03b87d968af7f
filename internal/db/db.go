package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/app"
	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

// Service owns the gorm handle. Postgres is the production driver; the
// sqlite driver backs local development and tests.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(cfg app.Config, log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}

	serviceLog.Info("Connecting to database...", "driver", cfg.DBDriver)
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &Service{db: gormDB, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(
		&types.Teacher{},
		&types.Assistant{},
		&types.Group{},
		&types.Enrollment{},
	); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}

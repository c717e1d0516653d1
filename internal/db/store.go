package db

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/types"
	"github.com/lecturelab/lectura-backend/internal/utils"
)

// Store wraps the gorm handle. When Postgres is not configured (POSTGRES_HOST
// unset) it falls back to an in-memory sqlite database: the local "demo" path,
// where sessions work but nothing survives a restart.
type Store struct {
	db   *gorm.DB
	log  *logger.Logger
	demo bool
}

func NewStore(log *logger.Logger) (*Store, error) {
	serviceLog := log.With("service", "Store")

	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	if host == "" {
		serviceLog.Warn("POSTGRES_HOST not set, falling back to in-memory sqlite (demo mode)")
		gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Store{db: gdb, log: serviceLog, demo: true}, nil
	}

	port := utils.GetEnv("POSTGRES_PORT", "5432", log)
	user := utils.GetEnv("POSTGRES_USER", "postgres", log)
	password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	name := utils.GetEnv("POSTGRES_NAME", "lectura", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Store{db: gdb, log: serviceLog}, nil
}

func (s *Store) DB() *gorm.DB { return s.db }

// Demo reports whether the store is backed by the in-memory fallback.
func (s *Store) Demo() bool { return s.demo }

func (s *Store) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Lecture{},
		&types.StudyBundle{},
		&types.ChatMessage{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

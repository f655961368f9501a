package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"hotelbooking/internal/domain"
)

// Store is the single database handle of the process. It is opened once at
// startup and passed to every repository and service that needs it.
type Store struct {
	db *gorm.DB
}

type Options struct {
	Logger     *logrus.Logger
	GormLogger gormlogger.Interface
}

// Open picks postgres for postgres:// DSNs and the pure-Go sqlite driver
// for anything else.
func Open(dsn string, opts Options) (*Store, error) {
	cfg := &gorm.Config{
		Logger:         opts.GormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	if cfg.Logger == nil {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	postgresDSN := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")

	var (
		db  *gorm.DB
		err error
	)
	if postgresDSN {
		if opts.Logger != nil {
			opts.Logger.Info("connecting to PostgreSQL")
		}
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		if opts.Logger != nil {
			opts.Logger.WithField("dsn", dsn).Info("using SQLite")
		}
		db, err = gorm.Open(
			gormsqlite.New(gormsqlite.Config{
				DriverName: "sqlite",
				DSN:        dsn,
			}),
			cfg,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if !postgresDSN {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one connection: sqlite has a single writer and in-memory
		// databases live as long as their connection
		sqlDB.SetMaxOpenConns(1)
	}

	return &Store{db: db}, nil
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTransaction runs fn in one transaction. Every write fn makes commits
// together or not at all; a returned error or a panic rolls back.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Hotel{},
		&domain.Room{},
		&domain.RoomAvailability{},
		&domain.Booking{},
		&domain.Refund{},
	)
}

// IsUniqueViolation reports whether err comes from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}

// IsCheckViolation reports whether err comes from a CHECK constraint.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}

	return strings.Contains(strings.ToLower(err.Error()), "check constraint")
}

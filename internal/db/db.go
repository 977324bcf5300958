// Package db opens the relational store shared by all request handlers.
package db

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db/dsn"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
	gormlog "github.com/clinic-crm/clinic-crm/internal/logger/adapter/gorm"
)

// ErrDBNil is returned when a nil gorm handle is passed to a constructor.
var ErrDBNil = errors.New("database connection is nil")

// Store is the process wide store client. It is created once at startup and
// handed to every component that queries the database.
type Store struct {
	DB           *gorm.DB
	cfg          *config.Config
	queryTimeout time.Duration
}

// Open connects to the configured engine, sizes the pool and verifies the
// connection with a ping. Any failure here is fatal for the service.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gormCfg := &gorm.Config{
		Logger:         gormlog.New(time.Duration(cfg.Log.SlowQueryMillis) * time.Millisecond),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector(cfg), gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	store, err := New(db, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB from gorm")
	}

	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.DB.ConnectTimeout)*time.Second)
	defer cancel()

	if err = store.Ping(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, errors.Wrap(err, "database ping failed")
	}

	log.Info().Fields(dsn.Describe(cfg)).Msg("database connected")

	return store, nil
}

// New wraps an already opened gorm handle, used by tests with a substitute store.
func New(db *gorm.DB, cfg *config.Config) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if cfg == nil {
		c := config.Default()
		cfg = &c
	}

	timeout := time.Duration(cfg.DB.QueryTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Store{DB: db, cfg: cfg, queryTimeout: timeout}, nil
}

func dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}

// Migrate creates or updates the tables owned by the service.
func (s *Store) Migrate() error {
	if err := s.DB.AutoMigrate(&models.Certificate{}, &models.AppSetting{}); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}

// Ping checks that a connection can be obtained and answers a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from gorm")
	}

	return sqlDB.PingContext(ctx) //nolint:wrapcheck
}

// WithTimeout returns a session bound to ctx with the store deadline applied.
// Waiting for a pooled connection counts against the same deadline.
func (s *Store) WithTimeout(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)

	return s.DB.WithContext(ctx), cancel
}

// QueryTimeout is the deadline applied to every store operation.
func (s *Store) QueryTimeout() time.Duration {
	return s.queryTimeout
}

// Describe returns the connection parameters for logs, without secrets.
func (s *Store) Describe() map[string]any {
	return dsn.Describe(s.cfg)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from gorm")
	}

	return sqlDB.Close() //nolint:wrapcheck
}

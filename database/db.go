package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/quorumbot/logger"
)

// DB is an open SQLite database.
type DB struct {
	gorm      *gorm.DB
	log       *logger.Logger
	closeOnce sync.Once
	closeErr  error
}

// Open connects to cfg.DSN. A failed attempt is retried after a pause
// that grows by a second per attempt, until cfg.MaxRetries attempts are
// spent or ctx ends.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	gormCfg := &gorm.Config{Logger: newGormLogger(log, cfg.SlowQueryThreshold, cfg.gormLevel())}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.DSN, err)
		}
		db, err := connect(ctx, cfg, gormCfg)
		if err == nil {
			log.Info("history database open", logger.Fields("dsn", cfg.DSN, "attempt", attempt))
			return &DB{gorm: db, log: log}, nil
		}
		lastErr = err
		if attempt == cfg.MaxRetries {
			break
		}
		pause := time.Duration(attempt) * time.Second
		log.Warn("history database not reachable, retrying", logger.Fields(
			"attempt", attempt, logger.FieldError, err.Error(), "pause", pause.String(),
		))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("open %s: %w", cfg.DSN, ctx.Err())
		case <-time.After(pause):
		}
	}
	return nil, fmt.Errorf("open %s: gave up after %d attempts: %w", cfg.DSN, cfg.MaxRetries, lastErr)
}

func connect(ctx context.Context, cfg Config, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	if err != nil {
		return nil, err
	}
	pool, err := db.DB()
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return db, nil
}

// Close may be called more than once; later calls return the first result.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		pool, err := d.gorm.DB()
		if err != nil {
			d.closeErr = err
			return
		}
		d.log.Info("closing history database")
		d.closeErr = pool.Close()
	})
	return d.closeErr
}

func (d *DB) PingContext(ctx context.Context) error {
	pool, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

// WithContext starts a GORM session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.gorm.WithContext(ctx)
}

// AutoMigrate creates or alters the tables for models.
func (d *DB) AutoMigrate(models ...any) error {
	if err := d.gorm.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	d.log.Info("schema migrated", logger.Fields("models", len(models)))
	return nil
}

package database

import (
	"errors"
	"fmt"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// Config selects and tunes the SQLite history database.
type Config struct {
	// Enabled persists chat history; otherwise it is kept in memory.
	Enabled bool `mapstructure:"enabled"`
	// DSN is the database file, or ":memory:".
	DSN string `mapstructure:"dsn"`
	// SQLite has one writer and ":memory:" is private to a connection,
	// hence a default pool of one.
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// MaxRetries counts connection attempts, one second apart times the
	// attempt number.
	MaxRetries  int  `mapstructure:"max_retries"`
	AutoMigrate bool `mapstructure:"auto_migrate"`
	// Statements slower than this are logged at warn level.
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	// LogLevel is silent, error, warn or info.
	LogLevel string `mapstructure:"log_level"`
}

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
}

func (c *Config) ApplyDefaults() {
	if c.DSN == "" {
		c.DSN = "quorumbot.db"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 1
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 1
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.SlowQueryThreshold == 0 {
		c.SlowQueryThreshold = 200 * time.Millisecond
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate is a no-op for a disabled database.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.DSN == "" {
		errs = append(errs, errors.New("dsn is required"))
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errs = append(errs, fmt.Errorf("max_idle_conns %d exceeds max_open_conns %d", c.MaxIdleConns, c.MaxOpenConns))
	}
	if c.ConnMaxLifetime < 0 || c.SlowQueryThreshold < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if _, ok := gormLevels[c.LogLevel]; !ok {
		errs = append(errs, fmt.Errorf("log_level %q is not one of silent, error, warn, info", c.LogLevel))
	}
	return errors.Join(errs...)
}

func (c *Config) gormLevel() gormlogger.LogLevel {
	if lvl, ok := gormLevels[c.LogLevel]; ok {
		return lvl
	}
	return gormlogger.Warn
}

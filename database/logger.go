package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/quorumbot/logger"
)

// gormLog sends GORM's output to the application logger. Statement
// traces go out at error level on failure, warn when slow, and debug
// otherwise when the level is info.
type gormLog struct {
	log   *logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

var _ gormlogger.Interface = (*gormLog)(nil)

func newGormLogger(log *logger.Logger, slow time.Duration, level gormlogger.LogLevel) *gormLog {
	return &gormLog{log: log.WithComponent("gorm"), level: level, slow: slow}
}

func (g *gormLog) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormLog) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		g.log.WithContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.log.WithContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		g.log.WithContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Trace(ctx context.Context, begin time.Time, stmt func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	took := time.Since(begin)
	fields := func() map[string]any {
		sql, rows := stmt()
		return logger.Fields("sql", sql, "rows", rows, "duration", took.String())
	}
	log := g.log.WithContext(ctx)
	switch {
	// A missing row is an answer, not a failure.
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		f := fields()
		f[logger.FieldError] = err.Error()
		log.Error("statement failed", f)
	case g.slow > 0 && took > g.slow && g.level >= gormlogger.Warn:
		log.Warn("slow statement", fields())
	case g.level >= gormlogger.Info:
		log.Debug("statement", fields())
	}
}

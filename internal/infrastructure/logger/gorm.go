package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM output through zap. Every entry carries the
// correlation fields of the statement's context, including the tenant schema.
type GormLogger struct {
	logger       *zap.Logger
	level        gormlogger.LogLevel
	slow         time.Duration
	skipNotFound bool
	logSQL       bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is logged as slow.
// Zero disables slow statement warnings.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slow = threshold }
}

// WithIgnoreRecordNotFoundError controls whether gorm.ErrRecordNotFound is logged
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) { l.skipNotFound = ignore }
}

// WithSQL controls whether statements are included in log entries.
// Statements may carry tenant data, so production keeps them off.
func WithSQL(enabled bool) GormLoggerOption {
	return func(l *GormLogger) { l.logSQL = enabled }
}

func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:       zapLogger.Named("gorm"),
		level:        level,
		slow:         200 * time.Millisecond,
		skipNotFound: true,
		logSQL:       true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, at gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < at {
		return
	}
	if ce := l.logger.Check(lvl, fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write(Fields(ctx)...)
	}
}

// Trace logs one executed statement: errors at error level, slow statements
// at warn and everything else at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !(l.skipNotFound && errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slow > 0 && elapsed > l.slow

	var (
		lvl zapcore.Level
		msg string
	)
	switch {
	case failed && l.level >= gormlogger.Error:
		lvl, msg = zapcore.ErrorLevel, "SQL Error"
	case slow && l.level >= gormlogger.Warn:
		lvl, msg = zapcore.WarnLevel, fmt.Sprintf("SLOW SQL >= %v", l.slow)
	case err == nil && l.level >= gormlogger.Info:
		lvl, msg = zapcore.DebugLevel, "SQL Query"
	default:
		return
	}

	ce := l.logger.Check(lvl, msg)
	if ce == nil {
		return
	}
	sql, rows := fc()
	fields := append(Fields(ctx), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows))
	if l.logSQL {
		fields = append(fields, zap.String("sql", sql))
	}
	if failed {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}

// MapGormLogLevel maps an application log level to a GORM level.
// Unknown levels fall back to Warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

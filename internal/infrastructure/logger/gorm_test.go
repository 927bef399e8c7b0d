package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func stockQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger_Options(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info)
	assert.Equal(t, 200*time.Millisecond, l.slow)
	assert.True(t, l.skipNotFound)
	assert.True(t, l.logSQL)

	l, _ = newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
		WithSQL(false),
	)
	assert.Equal(t, 500*time.Millisecond, l.slow)
	assert.False(t, l.skipNotFound)
	assert.False(t, l.logSQL)
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info)

	warn, ok := l.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, warn.level)
	assert.Equal(t, gormlogger.Info, l.level)
}

func TestGormLogger_Printf(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		call  func(l *GormLogger, ctx context.Context)
		want  string
		lvl   zapcore.Level
	}{
		{"info", gormlogger.Info, func(l *GormLogger, ctx context.Context) { l.Info(ctx, "opened %s", "pool") }, "opened pool", zapcore.InfoLevel},
		{"warn", gormlogger.Warn, func(l *GormLogger, ctx context.Context) { l.Warn(ctx, "retry %d", 2) }, "retry 2", zapcore.WarnLevel},
		{"error", gormlogger.Error, func(l *GormLogger, ctx context.Context) { l.Error(ctx, "lost connection") }, "lost connection", zapcore.ErrorLevel},
		{"info suppressed at warn", gormlogger.Warn, func(l *GormLogger, ctx context.Context) { l.Info(ctx, "opened") }, "", 0},
		{"error suppressed when silent", gormlogger.Silent, func(l *GormLogger, ctx context.Context) { l.Error(ctx, "lost") }, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, recorded := newObservedGormLogger(tt.level)
			tt.call(l, WithRequestID(context.Background(), "req-7"))

			if tt.want == "" {
				assert.Empty(t, recorded.All())
				return
			}
			logs := recorded.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.want, logs[0].Message)
			assert.Equal(t, tt.lvl, logs[0].Level)
			assert.Equal(t, "req-7", logs[0].ContextMap()["request_id"])
		})
	}
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		elapsed time.Duration
		err     error
		want    string
		lvl     zapcore.Level
	}{
		{name: "error", level: gormlogger.Error, err: errors.New("deadlock detected"), want: "SQL Error", lvl: zapcore.ErrorLevel},
		{name: "not found skipped", level: gormlogger.Error, err: gormlogger.ErrRecordNotFound},
		{name: "not found kept", level: gormlogger.Error, opts: []GormLoggerOption{WithIgnoreRecordNotFoundError(false)},
			err: gormlogger.ErrRecordNotFound, want: "SQL Error", lvl: zapcore.ErrorLevel},
		{name: "slow", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(time.Millisecond)},
			elapsed: time.Second, want: "SLOW SQL >= 1ms", lvl: zapcore.WarnLevel},
		{name: "slow disabled", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(0)}, elapsed: time.Second},
		{name: "query at info", level: gormlogger.Info, want: "SQL Query", lvl: zapcore.DebugLevel},
		{name: "query hidden at warn", level: gormlogger.Warn},
		{name: "silent", level: gormlogger.Silent, err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, recorded := newObservedGormLogger(tt.level, tt.opts...)
			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), stockQuery("SELECT * FROM stocks", 3), tt.err)

			if tt.want == "" {
				assert.Empty(t, recorded.All())
				return
			}
			logs := recorded.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.want, logs[0].Message)
			assert.Equal(t, tt.lvl, logs[0].Level)
			fields := logs[0].ContextMap()
			assert.Equal(t, "SELECT * FROM stocks", fields["sql"])
			assert.EqualValues(t, 3, fields["rows"])
		})
	}
}

func TestGormLogger_Trace_CorrelationFields(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Info)

	ns, err := tenant.NewNamespace(uuid.New(), "tenant_acme")
	require.NoError(t, err)
	ctx := tenant.WithNamespace(WithRequestID(context.Background(), "test-req-id"), ns)

	l.Trace(ctx, time.Now(), stockQuery("SELECT * FROM stocks", 5), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "test-req-id", fields["request_id"])
	assert.Equal(t, "tenant_acme", fields["schema"])
	assert.Equal(t, ns.TenantID().String(), fields["tenant_id"])
}

func TestGormLogger_Trace_WithoutSQL(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Info, WithSQL(false))

	l.Trace(context.Background(), time.Now(), stockQuery("UPDATE partners SET balance = 1", 1), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.NotContains(t, logs[0].ContextMap(), "sql")
}

func TestMapGormLogLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"unknown": gormlogger.Warn,
		"":        gormlogger.Warn,
	}
	for level, want := range cases {
		assert.Equal(t, want, MapGormLogLevel(level), level)
	}
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueryTracer(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		err     error
		level   zapcore.Level
		message string
	}{
		{"fast", time.Millisecond, nil, zapcore.DebugLevel, "query"},
		{"slow", time.Second, nil, zapcore.WarnLevel, "slow query"},
		{"failed", time.Millisecond, errors.New("deadlock detected"), zapcore.WarnLevel, "query failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			tr := newQueryTracer(zap.New(core), 100*time.Millisecond)

			clock := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
			tr.now = func() time.Time { return clock }

			ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
			clock = clock.Add(tt.elapsed)
			tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1"), Err: tt.err})

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, tt.message, entries[0].Message)
			assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
		})
	}
}

func TestQueryTracerWithoutStart(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := newQueryTracer(zap.New(core), 0)

	tr.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})

	assert.Zero(t, logs.Len())
}

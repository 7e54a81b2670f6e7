package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// queryTracer logs failed and slow queries. It implements pgx.QueryTracer.
type queryTracer struct {
	logger *zap.Logger
	slow   time.Duration
	now    func() time.Time
}

func newQueryTracer(logger *zap.Logger, slow time.Duration) *queryTracer {
	return &queryTracer{logger: logger, slow: slow, now: time.Now}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: t.now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(start.at)

	switch {
	case data.Err != nil:
		t.logger.Warn("query failed",
			zap.String("sql", start.sql),
			zap.Duration("elapsed", elapsed),
			zap.Error(data.Err),
		)
	case t.slow > 0 && elapsed >= t.slow:
		t.logger.Warn("slow query",
			zap.String("sql", start.sql),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", data.CommandTag.RowsAffected()),
		)
	default:
		t.logger.Debug("query",
			zap.String("sql", start.sql),
			zap.Duration("elapsed", elapsed),
		)
	}
}

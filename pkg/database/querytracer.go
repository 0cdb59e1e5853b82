package database

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/KartikVerma96/paregrose/pkg/database"

const maxStatementLen = 512

type queryStartKey struct{}

type queryStart struct {
	at  time.Time
	sql string
}

// QueryTracer implements pgx.QueryTracer. It opens a client span per query
// and logs statements whose duration reaches the slow threshold.
type QueryTracer struct {
	tracer        trace.Tracer
	slowThreshold time.Duration
	logger        *slog.Logger
}

// NewQueryTracer creates a tracer; a zero threshold or nil logger disables slow query logging.
func NewQueryTracer(slowThreshold time.Duration, logger *slog.Logger) *QueryTracer {
	return &QueryTracer{
		tracer:        otel.Tracer(tracerName),
		slowThreshold: slowThreshold,
		logger:        logger,
	}
}

// TraceQueryStart implements pgx.QueryTracer.
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	stmt := compactSQL(data.SQL)
	ctx, _ = t.tracer.Start(ctx, "db."+operationName(stmt),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", stmt),
		),
	)
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: time.Now(), sql: stmt})
}

// TraceQueryEnd implements pgx.QueryTracer.
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span := trace.SpanFromContext(ctx)
	if data.Err != nil && !errors.Is(data.Err, pgx.ErrNoRows) {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, data.Err.Error())
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
	span.End()

	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok || t.slowThreshold <= 0 || t.logger == nil {
		return
	}
	if elapsed := time.Since(start.at); elapsed >= t.slowThreshold {
		attrs := []any{
			slog.String("statement", start.sql),
			slog.Duration("duration", elapsed),
		}
		if data.Err != nil {
			attrs = append(attrs, slog.String("error", data.Err.Error()))
		}
		t.logger.WarnContext(ctx, "slow query detected", attrs...)
	}
}

// compactSQL collapses whitespace and truncates long statements for span attributes.
func compactSQL(sql string) string {
	s := strings.Join(strings.Fields(sql), " ")
	if len(s) > maxStatementLen {
		s = s[:maxStatementLen] + "..."
	}
	return s
}

// operationName returns the leading SQL verb, e.g. "select" or "insert".
func operationName(stmt string) string {
	verb, _, _ := strings.Cut(stmt, " ")
	if verb == "" {
		return "query"
	}
	return strings.ToLower(verb)
}

package postgresdb

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jrazmi/crudgen/sdk/logger"
)

// LoggingQueryTracer logs every catalog query at debug level with its
// duration.
// https://github.com/jackc/pgx/issues/1061#issuecomment-1186250809
type LoggingQueryTracer struct {
	log *logger.Logger
}

func NewLoggingQueryTracer(log *logger.Logger) *LoggingQueryTracer {
	return &LoggingQueryTracer{log: log}
}

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

var (
	collapseSpaces   = regexp.MustCompile(`\s+`)
	spaceAroundParen = regexp.MustCompile(`\s*([()])\s*`)
)

// compactSQL folds a multi-line query onto one line.
func compactSQL(sql string) string {
	out := collapseSpaces.ReplaceAllString(sql, " ")
	out = spaceAroundParen.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

func (l *LoggingQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: compactSQL(data.SQL), at: time.Now()})
}

func (l *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, _ := ctx.Value(queryStartKey{}).(queryStart)
	args := []any{"sql", start.sql, "command_tag", data.CommandTag.String()}
	if !start.at.IsZero() {
		args = append(args, "duration", time.Since(start.at))
	}

	if data.Err != nil {
		l.log.ErrorContext(ctx, "query failed", append(args, "err", data.Err)...)
		return
	}
	l.log.DebugContext(ctx, "query", args...)
}

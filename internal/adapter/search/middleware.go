package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/tracer"
)

// fetchFunc performs the provider-specific lookup for one query.
type fetchFunc func(ctx context.Context, span trace.Span) ([]domain.ResultItem, error)

// run wraps a provider lookup with tracing and logging, and converts errors
// and panics into a failed ToolResult so callers never see an error.
func run(ctx context.Context, key domain.ProviderKey, toolName, query string, logger *slog.Logger, fetch fetchFunc) (result domain.ToolResult) {
	ctx, span := tracer.StartSpan(ctx, "search."+string(key),
		trace.WithAttributes(
			tracer.StringAttr("search.tool", toolName),
			tracer.StringAttr("search.query", query),
		),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			tracer.RecordError(span, err)
			logger.ErrorContext(ctx, "search panicked", "tool", toolName, "query", query, "panic", r)
			result = domain.FailedResult(toolName, query, err)
		}
	}()

	if strings.TrimSpace(query) == "" {
		err := domain.NewSubSystemError("search", toolName, domain.ErrInvalidInput, "query must not be empty")
		tracer.RecordError(span, err)
		return domain.FailedResult(toolName, query, err)
	}

	items, err := fetch(ctx, span)
	if err != nil {
		tracer.RecordError(span, err)
		logger.WarnContext(ctx, "search failed",
			"tool", toolName,
			"query", query,
			"code", domain.ErrorCodeOf(err),
			"transient", isTransient(err),
			"error", err,
		)
		return domain.FailedResult(toolName, query, err)
	}

	span.SetAttributes(tracer.IntAttr("search.results", len(items)))
	tracer.SetOK(span)
	logger.DebugContext(ctx, "search completed", "tool", toolName, "query", query, "results", len(items))

	return domain.ToolResult{ToolName: toolName, Query: query, Items: items}
}

// transientSentinels are domain errors that usually clear up on their own.
var transientSentinels = []error{
	domain.ErrTimeout,
	domain.ErrProviderError,
	domain.ErrRateLimit,
}

// transientPatterns are checked case-insensitively against errors that
// carry no sentinel.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"timeout",
	"deadline exceeded",
	"temporarily unavailable",
	"eof",
}

// isTransient reports whether err looks like a network or backend hiccup
// rather than a permanent failure such as a bad credential.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range transientSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	lower := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

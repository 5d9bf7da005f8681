package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.ModelRepository
	logger *slog.Logger
}

// NewLoggingMiddleware logs every repository call at debug level and
// failures at warn level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ModelRepository) ports.ModelRepository {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, name string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if name != "" {
		attrs = append(attrs, "model", name)
	}
	if err != nil {
		m.logger.WarnContext(ctx, "repository call failed", append(attrs, "error", err)...)
		return
	}
	m.logger.DebugContext(ctx, "repository call", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, name string, doc *domain.Document) error {
	start := time.Now()
	err := m.next.Save(ctx, name, doc)
	m.log(ctx, "save", name, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, name string) (*domain.Document, error) {
	start := time.Now()
	doc, err := m.next.Load(ctx, name)
	m.log(ctx, "load", name, start, err)
	return doc, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := m.next.Delete(ctx, name)
	m.log(ctx, "delete", name, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return names, err
}

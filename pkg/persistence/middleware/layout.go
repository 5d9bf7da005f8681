package middleware

import (
	"context"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/ports"
)

type layoutMiddleware struct {
	next ports.ModelRepository
}

// NewLayoutStripMiddleware drops diagram payload (element positions and
// relationship vertices) before saving. The caller's document is not modified.
func NewLayoutStripMiddleware() Middleware {
	return func(next ports.ModelRepository) ports.ModelRepository {
		return &layoutMiddleware{next: next}
	}
}

func (m *layoutMiddleware) Save(ctx context.Context, name string, doc *domain.Document) error {
	if doc == nil {
		return m.next.Save(ctx, name, doc)
	}
	stripped, err := doc.Clone()
	if err != nil {
		return err
	}
	for _, e := range stripped.Elements {
		e.Attrs().Position = nil
	}
	for i := range stripped.Relationships {
		stripped.Relationships[i].Vertices = nil
	}
	return m.next.Save(ctx, name, stripped)
}

func (m *layoutMiddleware) Load(ctx context.Context, name string) (*domain.Document, error) {
	return m.next.Load(ctx, name)
}

func (m *layoutMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *layoutMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

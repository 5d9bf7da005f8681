package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/ports"
	"github.com/aretw0/sysml/pkg/validator"
)

// ErrModelRejected is returned by a validating repository when a document
// has findings. The wrapped *validator.AggregateError lists them.
var ErrModelRejected = errors.New("model rejected")

type validationMiddleware struct {
	next ports.ModelRepository
}

// NewValidationMiddleware refuses to save documents that do not validate.
// Documents already stored are loaded as they are.
func NewValidationMiddleware() Middleware {
	return func(next ports.ModelRepository) ports.ModelRepository {
		return &validationMiddleware{next: next}
	}
}

func (m *validationMiddleware) Save(ctx context.Context, name string, doc *domain.Document) error {
	if doc != nil {
		if err := validator.ValidateModel(doc.Elements, validator.Index(doc.Elements)); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrModelRejected, name, err)
		}
	}
	return m.next.Save(ctx, name, doc)
}

func (m *validationMiddleware) Load(ctx context.Context, name string) (*domain.Document, error) {
	return m.next.Load(ctx, name)
}

func (m *validationMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *validationMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

package ports

import (
	"context"

	"github.com/aretw0/sysml/pkg/domain"
)

// ModelRepository persists whole model documents under a name.
// This lets a model outlive the process that edits it.
type ModelRepository interface {
	// Save stores doc under name, replacing any previous document.
	Save(ctx context.Context, name string, doc *domain.Document) error

	// Load retrieves the document stored under name.
	// Returns domain.ErrModelNotFound if there is none.
	Load(ctx context.Context, name string) (*domain.Document, error)

	// Delete removes the document stored under name.
	// Deleting a missing document is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored documents.
	List(ctx context.Context) ([]string, error)
}

package model

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/sysml/pkg/ports"
)

// lockTTL bounds how long a crashed writer can hold a model name.
const lockTTL = 30 * time.Second

// SaveTo writes the model to repo under name. When the store has a locker,
// the name is locked for the duration of the write.
func (s *Store) SaveTo(ctx context.Context, repo ports.ModelRepository, name string) error {
	doc, err := s.Document()
	if err != nil {
		return err
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "model:"+name, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock model %q: %w", name, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release model lock", "model", name, "error", err)
			}
		}()
	}

	if err := repo.Save(ctx, name, doc); err != nil {
		return fmt.Errorf("failed to save model %q: %w", name, err)
	}
	s.logger.Info("model saved", "model", name, "elements", len(doc.Elements), "relationships", len(doc.Relationships))
	return nil
}

// LoadFrom replaces the model with the document stored under name and
// clears the history.
func (s *Store) LoadFrom(ctx context.Context, repo ports.ModelRepository, name string) error {
	doc, err := repo.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load model %q: %w", name, err)
	}
	return s.load(doc)
}

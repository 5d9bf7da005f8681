package model

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/sysml/pkg/domain"
)

// ModelJSON returns the model in the interchange format, pretty-printed.
func (s *Store) ModelJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}
	return data, nil
}

// LoadModelJSON replaces the whole model with the decoded document and
// clears the history. Malformed input fails without touching the model.
// Elements of unknown type are skipped with a warning.
func (s *Store) LoadModelJSON(data []byte) error {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	return s.load(&doc)
}

// Document returns a deep copy of the model.
func (s *Store) Document() (*domain.Document, error) {
	s.mu.RLock()
	snap, err := json.Marshal(s.document())
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(snap, &doc); err != nil {
		return nil, fmt.Errorf("failed to copy model: %w", err)
	}
	return &doc, nil
}

// LoadDocument replaces the whole model with a copy of doc and clears the history.
func (s *Store) LoadDocument(doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrMalformedModel)
	}
	clone, err := doc.Clone()
	if err != nil {
		return fmt.Errorf("failed to copy document: %w", err)
	}
	clone.Skipped = append(clone.Skipped, doc.Skipped...)
	return s.load(clone)
}

// Reset empties the model and its history.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replace(&domain.Document{})
	s.clearHistory()
	s.observeSize()
	s.logger.Debug("model reset")
}

// load takes ownership of doc.
func (s *Store) load(doc *domain.Document) error {
	if err := checkUnique(doc); err != nil {
		return err
	}
	for _, k := range doc.Skipped {
		s.logger.Warn("skipping element of unknown type", "type", k)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replace(doc)
	s.attributeEffects()
	s.clearHistory()
	for _, r := range doc.Relationships {
		if _, ok := s.elements[r.SourceID]; !ok {
			s.logger.Warn("relationship source not in model", "relationship", r.ID, "source", r.SourceID)
		}
		if _, ok := s.elements[r.TargetID]; !ok {
			s.logger.Warn("relationship target not in model", "relationship", r.ID, "target", r.TargetID)
		}
	}
	s.observeSize()
	s.logger.Info("model loaded", "elements", len(doc.Elements), "relationships", len(doc.Relationships), "skipped", len(doc.Skipped))
	return nil
}

func checkUnique(doc *domain.Document) error {
	seen := make(map[string]bool, len(doc.Elements)+len(doc.Relationships))
	for _, e := range doc.Elements {
		id := e.Attrs().ID
		if id == "" {
			return fmt.Errorf("%w: %s element without id", domain.ErrMalformedModel, e.Kind())
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, id)
		}
		seen[id] = true
	}
	for _, r := range doc.Relationships {
		if r.ID == "" {
			return fmt.Errorf("%w: relationship without id", domain.ErrMalformedModel)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

package model

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/ports"
)

// Store is the in-memory model: elements, relationships and their history.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	elements      map[string]domain.Element
	elementOrder  []string
	relationships map[string]domain.Relationship
	relOrder      []string
	// effects maps a relationship id to what it changed on its endpoints.
	effects       map[string]sideEffect

	// past and future hold encoded documents, most recent last in past and
	// first in future.
	past   [][]byte
	future [][]byte

	historyLimit int
	newID        func() string
	logger       *slog.Logger
	metrics      *Metrics
	locker       ports.DistributedLocker
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := defaultStore()
	for _, opt := range opts {
		opt(s)
	}
	s.observeSize()
	return s
}

// AddElement stores a copy of e and returns its id. An id is generated when
// e has none; a taken id fails with domain.ErrDuplicateID.
func (s *Store) AddElement(e domain.Element) (string, error) {
	if e == nil {
		return "", fmt.Errorf("cannot add nil element")
	}
	el, err := domain.CloneElement(e)
	if err != nil {
		return "", fmt.Errorf("failed to copy element: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attrs := el.Attrs()
	if attrs.ID == "" {
		attrs.ID = s.newID()
	}
	if s.idTaken(attrs.ID) {
		return "", fmt.Errorf("%w: %s", domain.ErrDuplicateID, attrs.ID)
	}
	if err := s.record(); err != nil {
		return "", err
	}

	s.elements[attrs.ID] = el
	s.elementOrder = append(s.elementOrder, attrs.ID)

	s.logger.Debug("element added", "id", attrs.ID, "type", el.Kind())
	s.metrics.mutation("add_element")
	s.observeSize()
	return attrs.ID, nil
}

// UpdateElement shallow-merges patch into the element. Keys are JSON field
// names, either in-memory ("definitionId") or wire form ("portDefinition").
// The id and type of an element cannot change, and a patch may not name
// one field in both forms.
func (s *Store) UpdateElement(id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.elements[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrElementNotFound, id)
	}
	updated, err := patchElement(current, patch)
	if err != nil {
		return fmt.Errorf("failed to update element %s: %w", id, err)
	}
	if err := s.record(); err != nil {
		return err
	}
	s.elements[id] = updated

	s.logger.Debug("element updated", "id", id, "fields", len(patch))
	s.metrics.mutation("update_element")
	return nil
}

// RemoveElement deletes the element and every relationship naming it as
// source or target.
func (s *Store) RemoveElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.elements[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrElementNotFound, id)
	}
	if err := s.record(); err != nil {
		return err
	}

	cascaded := 0
	for _, rid := range append([]string(nil), s.relOrder...) {
		r := s.relationships[rid]
		if !r.Touches(id) {
			continue
		}
		s.deleteRelationship(r)
		cascaded++
	}
	delete(s.elements, id)
	s.elementOrder, _ = domain.RemoveID(s.elementOrder, id)

	s.logger.Debug("element removed", "id", id, "cascaded", cascaded)
	s.metrics.mutation("remove_element")
	s.observeSize()
	return nil
}

// Element returns a copy of the element with the given id.
func (s *Store) Element(id string) (domain.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrElementNotFound, id)
	}
	return domain.CloneElement(e)
}

// Elements returns copies of all elements in insertion order.
func (s *Store) Elements() ([]domain.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Element, 0, len(s.elementOrder))
	for _, id := range s.elementOrder {
		e, err := domain.CloneElement(s.elements[id])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Lookup resolves id to a copy of its element. Its signature matches
// validator.Lookup.
func (s *Store) Lookup(id string) (domain.Element, bool) {
	e, err := s.Element(id)
	if err != nil {
		return nil, false
	}
	return e, true
}

// Len returns the number of elements and relationships.
func (s *Store) Len() (elements, relationships int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements), len(s.relationships)
}

func (s *Store) idTaken(id string) bool {
	_, isElement := s.elements[id]
	_, isRelationship := s.relationships[id]
	return isElement || isRelationship
}

// document builds the interchange form of the live model. The result shares
// memory with the store and must be encoded before the lock is released.
func (s *Store) document() domain.Document {
	doc := domain.Document{
		Elements:      make([]domain.Element, 0, len(s.elementOrder)),
		Relationships: make([]domain.Relationship, 0, len(s.relOrder)),
	}
	for _, id := range s.elementOrder {
		doc.Elements = append(doc.Elements, s.elements[id])
	}
	for _, id := range s.relOrder {
		doc.Relationships = append(doc.Relationships, s.relationships[id])
	}
	return doc
}

// historyEntry is one undo or redo snapshot.
type historyEntry struct {
	Document domain.Document       `json:"document"`
	Effects  map[string]sideEffect `json:"effects,omitempty"`
}

func (s *Store) snapshot() ([]byte, error) {
	return json.Marshal(historyEntry{Document: s.document(), Effects: s.effects})
}

// replace swaps the whole model for doc, which the store takes ownership of.
func (s *Store) replace(doc *domain.Document) {
	s.elements = make(map[string]domain.Element, len(doc.Elements))
	s.elementOrder = make([]string, 0, len(doc.Elements))
	for _, e := range doc.Elements {
		id := e.Attrs().ID
		s.elements[id] = e
		s.elementOrder = append(s.elementOrder, id)
	}
	s.relationships = make(map[string]domain.Relationship, len(doc.Relationships))
	s.relOrder = make([]string, 0, len(doc.Relationships))
	for _, r := range doc.Relationships {
		s.relationships[r.ID] = r
		s.relOrder = append(s.relOrder, r.ID)
	}
	s.effects = make(map[string]sideEffect)
	s.observeSize()
}

func (s *Store) observeSize() {
	s.metrics.size(len(s.elements), len(s.relationships))
	s.metrics.history(len(s.past), len(s.future))
}

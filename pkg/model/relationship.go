package model

import (
	"fmt"
	"slices"

	"github.com/aretw0/sysml/pkg/domain"
)

// AddRelationship stores r and returns its id. Both endpoints must exist.
//
// featureMembership relationships set the feature's ownerId and list it in
// the owner's ownedFeatures. specialization and subclassification
// relationships list the target in the source's specializationIds. Removing
// the relationship later reverts only what it changed here.
func (s *Store) AddRelationship(r domain.Relationship) (string, error) {
	r = r.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.newID()
	}
	if s.idTaken(r.ID) {
		return "", fmt.Errorf("%w: %s", domain.ErrDuplicateID, r.ID)
	}
	if err := s.checkRelationship(r); err != nil {
		return "", err
	}
	if err := s.record(); err != nil {
		return "", err
	}

	s.relationships[r.ID] = r
	s.relOrder = append(s.relOrder, r.ID)
	s.applySideEffects(r)

	s.logger.Debug("relationship added", "id", r.ID, "type", r.Type, "source", r.SourceID, "target", r.TargetID)
	s.metrics.mutation("add_relationship")
	s.observeSize()
	return r.ID, nil
}

// AddSpecialization records that subID specializes superID.
func (s *Store) AddSpecialization(subID, superID string) (string, error) {
	return s.AddRelationship(domain.Relationship{
		Type:     domain.RelSpecialization,
		SourceID: subID,
		TargetID: superID,
	})
}

// AddFeatureMembership records that ownerID owns featureID.
func (s *Store) AddFeatureMembership(ownerID, featureID string) (string, error) {
	return s.AddRelationship(domain.Relationship{
		Type:     domain.RelFeatureMembership,
		SourceID: ownerID,
		TargetID: featureID,
	})
}

// UpdateRelationship shallow-merges patch into the relationship. Only when the
// type or an endpoint changes are the side effects of the old relationship
// reverted and those of the new one applied.
func (s *Store) UpdateRelationship(id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.relationships[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrRelationshipNotFound, id)
	}
	updated, err := patchRelationship(current, patch)
	if err != nil {
		return fmt.Errorf("failed to update relationship %s: %w", id, err)
	}
	if err := s.checkRelationship(updated); err != nil {
		return err
	}
	if err := s.record(); err != nil {
		return err
	}

	relinked := updated.Type != current.Type || updated.SourceID != current.SourceID || updated.TargetID != current.TargetID
	if relinked {
		s.revertSideEffects(current)
	}
	s.relationships[id] = updated
	if relinked {
		s.applySideEffects(updated)
	}

	s.logger.Debug("relationship updated", "id", id, "fields", len(patch))
	s.metrics.mutation("update_relationship")
	return nil
}

// RemoveRelationship deletes the relationship and reverts its side effects.
func (s *Store) RemoveRelationship(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.relationships[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrRelationshipNotFound, id)
	}
	if err := s.record(); err != nil {
		return err
	}
	s.deleteRelationship(r)

	s.logger.Debug("relationship removed", "id", id)
	s.metrics.mutation("remove_relationship")
	s.observeSize()
	return nil
}

// Relationship returns a copy of the relationship with the given id.
func (s *Store) Relationship(id string) (domain.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.relationships[id]
	if !ok {
		return domain.Relationship{}, fmt.Errorf("%w: %s", domain.ErrRelationshipNotFound, id)
	}
	return r.Clone(), nil
}

// Relationships returns copies of all relationships in insertion order.
func (s *Store) Relationships() []domain.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Relationship, 0, len(s.relOrder))
	for _, id := range s.relOrder {
		out = append(out, s.relationships[id].Clone())
	}
	return out
}

// RelationshipsOf returns the relationships naming id as source or target.
// It scans the whole collection; there is no reverse index.
func (s *Store) RelationshipsOf(id string) []domain.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Relationship
	for _, rid := range s.relOrder {
		if r := s.relationships[rid]; r.Touches(id) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (s *Store) checkRelationship(r domain.Relationship) error {
	if r.Type == "" {
		return fmt.Errorf("relationship %s has no type", r.ID)
	}
	if _, ok := s.elements[r.SourceID]; !ok {
		return fmt.Errorf("relationship %s source: %w: %q", r.ID, domain.ErrElementNotFound, r.SourceID)
	}
	if _, ok := s.elements[r.TargetID]; !ok {
		return fmt.Errorf("relationship %s target: %w: %q", r.ID, domain.ErrElementNotFound, r.TargetID)
	}
	return nil
}

func (s *Store) deleteRelationship(r domain.Relationship) {
	delete(s.relationships, r.ID)
	s.relOrder, _ = domain.RemoveID(s.relOrder, r.ID)
	s.revertSideEffects(r)
}

// sideEffect records what applying a relationship changed on its endpoints.
// Removing the relationship reverts exactly that, so links an element
// declared itself survive.
type sideEffect struct {
	// Listed: the target id was appended to ownedFeatures or specializationIds.
	Listed    bool   `json:"listed,omitempty"`
	// Owned: the target's ownerId was set; PrevOwner is the value it replaced.
	Owned     bool   `json:"owned,omitempty"`
	PrevOwner string `json:"prevOwner,omitempty"`
}

// linkedIDs returns the id list of the source that r maintains.
func (s *Store) linkedIDs(r domain.Relationship) *[]string {
	source, ok := s.elements[r.SourceID]
	if !ok {
		return nil
	}
	switch r.Type {
	case domain.RelFeatureMembership:
		if t, ok := domain.TypeOf(source); ok {
			return &t.OwnedFeatures
		}
	case domain.RelSpecialization, domain.RelSubclassification:
		if c, ok := domain.ClassifierOf(source); ok {
			return &c.SpecializationIDs
		}
	}
	return nil
}

func (s *Store) applySideEffects(r domain.Relationship) {
	var eff sideEffect
	if r.Type == domain.RelFeatureMembership {
		if feature, ok := s.elements[r.TargetID]; ok && feature.Attrs().OwnerID != r.SourceID {
			eff.Owned, eff.PrevOwner = true, feature.Attrs().OwnerID
			feature.Attrs().OwnerID = r.SourceID
		}
	}
	if ids := s.linkedIDs(r); ids != nil && !slices.Contains(*ids, r.TargetID) {
		*ids = append(*ids, r.TargetID)
		eff.Listed = true
	}
	if eff != (sideEffect{}) {
		s.effects[r.ID] = eff
	}
}

// revertSideEffects undoes what applySideEffects changed for r. When another
// relationship still asserts the same link, the effect is handed over to it
// instead. r must already be out of the collection or about to be replaced.
func (s *Store) revertSideEffects(r domain.Relationship) {
	eff, ok := s.effects[r.ID]
	if !ok {
		return
	}
	delete(s.effects, r.ID)

	if twin, ok := s.twin(r); ok {
		held := s.effects[twin]
		held.Listed = held.Listed || eff.Listed
		if eff.Owned && !held.Owned {
			held.Owned, held.PrevOwner = true, eff.PrevOwner
		}
		s.effects[twin] = held
		return
	}

	if eff.Owned {
		if feature, ok := s.elements[r.TargetID]; ok && feature.Attrs().OwnerID == r.SourceID {
			prev := eff.PrevOwner
			if _, exists := s.elements[prev]; !exists {
				prev = ""
			}
			feature.Attrs().OwnerID = prev
		}
	}
	if eff.Listed {
		if ids := s.linkedIDs(r); ids != nil {
			*ids, _ = domain.RemoveID(*ids, r.TargetID)
		}
	}
}

// attributeEffects rebuilds the effect records of a model loaded from a
// document. A link present on an element is credited to the first
// relationship asserting it.
func (s *Store) attributeEffects() {
	s.effects = make(map[string]sideEffect)
	for _, id := range s.relOrder {
		r := s.relationships[id]
		if s.credited(r) {
			continue
		}
		var eff sideEffect
		if r.Type == domain.RelFeatureMembership {
			if feature, ok := s.elements[r.TargetID]; ok && feature.Attrs().OwnerID == r.SourceID {
				eff.Owned = true
			}
		}
		if ids := s.linkedIDs(r); ids != nil && slices.Contains(*ids, r.TargetID) {
			eff.Listed = true
		}
		if eff != (sideEffect{}) {
			s.effects[r.ID] = eff
		}
	}
}

// credited reports whether a relationship asserting the same link as r
// already holds an effect record.
func (s *Store) credited(r domain.Relationship) bool {
	for id := range s.effects {
		other := s.relationships[id]
		if other.SourceID == r.SourceID && other.TargetID == r.TargetID && sameEffect(other.Type, r.Type) {
			return true
		}
	}
	return false
}

// twin returns the first stored relationship other than r that links the
// same endpoints with an equivalent type.
func (s *Store) twin(r domain.Relationship) (string, bool) {
	for _, id := range s.relOrder {
		other := s.relationships[id]
		if other.ID == r.ID || other.SourceID != r.SourceID || other.TargetID != r.TargetID {
			continue
		}
		if sameEffect(other.Type, r.Type) {
			return other.ID, true
		}
	}
	return "", false
}

func sameEffect(a, b domain.RelationshipType) bool {
	generalizes := func(t domain.RelationshipType) bool {
		return t == domain.RelSpecialization || t == domain.RelSubclassification
	}
	return a == b || (generalizes(a) && generalizes(b))
}

package model_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/model"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ignoreCaches = cmpopts.IgnoreUnexported(
	domain.PartDefinition{},
	domain.PortDefinition{},
	domain.ConnectionDefinition{},
	domain.InterfaceDefinition{},
	domain.ActionDefinition{},
)

// sequentialIDs returns a deterministic id generator.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func partDef(id, name string) *domain.PartDefinition {
	d := &domain.PartDefinition{}
	d.ID = id
	d.Name = name
	return d
}

func feature(id, name string) *domain.Feature {
	f := &domain.Feature{}
	f.ID = id
	f.Name = name
	return f
}

func TestStore_AddElement(t *testing.T) {
	s := model.New(model.WithIDGenerator(sequentialIDs()))

	id, err := s.AddElement(partDef("", "Engine"))
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	id, err = s.AddElement(partDef("explicit", "Tank"))
	require.NoError(t, err)
	assert.Equal(t, "explicit", id)

	_, err = s.AddElement(partDef("explicit", "Again"))
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	_, err = s.AddElement(nil)
	assert.Error(t, err)

	elements, err := s.Elements()
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, "Engine", elements[0].Attrs().Name)
	assert.Equal(t, "Tank", elements[1].Attrs().Name)
}

func TestStore_ElementsAreCopies(t *testing.T) {
	s := model.New()
	original := partDef("pd", "Engine")
	_, err := s.AddElement(original)
	require.NoError(t, err)

	original.Name = "changed by caller"
	got, err := s.Element("pd")
	require.NoError(t, err)
	assert.Equal(t, "Engine", got.Attrs().Name)

	got.Attrs().Name = "changed again"
	again, err := s.Element("pd")
	require.NoError(t, err)
	assert.Equal(t, "Engine", again.Attrs().Name)

	_, err = s.Element("missing")
	assert.ErrorIs(t, err, domain.ErrElementNotFound)

	_, ok := s.Lookup("pd")
	assert.True(t, ok)
	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestStore_UpdateElement(t *testing.T) {
	s := model.New()
	port := &domain.PortUsage{}
	port.ID, port.Name = "pu", "fuelIn"
	_, err := s.AddElement(port)
	require.NoError(t, err)

	t.Run("shallow merge", func(t *testing.T) {
		err := s.UpdateElement("pu", map[string]any{
			"name":           "fuelInlet",
			"portDefinition": "fuel-port",
			"multiplicity":   "1..*",
			"direction":      "in",
			"isConjugated":   true,
			"ownedFeatures":  []any{"a", "b"},
			"position":       map[string]any{"x": 10, "y": 20},
		})
		require.NoError(t, err)

		e, err := s.Element("pu")
		require.NoError(t, err)
		got := e.(*domain.PortUsage)
		assert.Equal(t, "fuelInlet", got.Name)
		assert.Equal(t, "fuel-port", got.DefinitionID)
		require.NotNil(t, got.Multiplicity)
		assert.Equal(t, "1..*", got.Multiplicity.String())
		assert.Equal(t, domain.DirectionIn, got.Direction)
		assert.True(t, got.IsConjugated)
		assert.Equal(t, []string{"a", "b"}, got.OwnedFeatures)
		assert.JSONEq(t, `{"x":10,"y":20}`, string(got.Position))
	})

	t.Run("slices are replaced, not merged", func(t *testing.T) {
		require.NoError(t, s.UpdateElement("pu", map[string]any{"ownedFeatures": []any{"c"}}))
		e, err := s.Element("pu")
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, e.(*domain.PortUsage).OwnedFeatures)
	})

	t.Run("in-memory field names work too", func(t *testing.T) {
		require.NoError(t, s.UpdateElement("pu", map[string]any{"definitionId": "other-port"}))
		e, err := s.Element("pu")
		require.NoError(t, err)
		assert.Equal(t, "other-port", e.(*domain.PortUsage).DefinitionID)
	})

	t.Run("both names of one field", func(t *testing.T) {
		err := s.UpdateElement("pu", map[string]any{
			"definitionId":   "left",
			"portDefinition": "right",
		})
		assert.ErrorContains(t, err, "twice")
		e, err := s.Element("pu")
		require.NoError(t, err)
		assert.Equal(t, "other-port", e.(*domain.PortUsage).DefinitionID)
	})

	t.Run("unknown field", func(t *testing.T) {
		err := s.UpdateElement("pu", map[string]any{"wheels": 4})
		assert.Error(t, err)
	})

	t.Run("id cannot change", func(t *testing.T) {
		err := s.UpdateElement("pu", map[string]any{"id": "other"})
		assert.Error(t, err)
	})

	t.Run("type cannot change", func(t *testing.T) {
		err := s.UpdateElement("pu", map[string]any{"__type": "PartUsage"})
		assert.Error(t, err)
	})

	t.Run("failed update leaves element untouched", func(t *testing.T) {
		before, err := s.Element("pu")
		require.NoError(t, err)
		require.Error(t, s.UpdateElement("pu", map[string]any{"name": "x", "bogus": true}))
		after, err := s.Element("pu")
		require.NoError(t, err)
		assert.Equal(t, before.Attrs().Name, after.Attrs().Name)
	})

	t.Run("missing element", func(t *testing.T) {
		err := s.UpdateElement("ghost", map[string]any{"name": "x"})
		assert.ErrorIs(t, err, domain.ErrElementNotFound)
	})
}

func TestStore_RemoveElementCascades(t *testing.T) {
	s := model.New()
	_, err := s.AddElement(partDef("A", "A"))
	require.NoError(t, err)
	_, err = s.AddElement(partDef("B", "B"))
	require.NoError(t, err)

	_, err = s.AddSpecialization("A", "B")
	require.NoError(t, err)
	require.Len(t, s.Relationships(), 1)

	require.NoError(t, s.RemoveElement("A"))
	assert.Empty(t, s.Relationships())

	_, err = s.Element("A")
	assert.ErrorIs(t, err, domain.ErrElementNotFound)
	assert.ErrorIs(t, s.RemoveElement("A"), domain.ErrElementNotFound)
}

func TestStore_RemoveElementCascadesBothDirections(t *testing.T) {
	s := model.New()
	for _, id := range []string{"A", "B", "C"} {
		_, err := s.AddElement(partDef(id, id))
		require.NoError(t, err)
	}
	_, err := s.AddSpecialization("A", "B")
	require.NoError(t, err)
	_, err = s.AddSpecialization("B", "C")
	require.NoError(t, err)
	_, err = s.AddSpecialization("A", "C")
	require.NoError(t, err)

	require.NoError(t, s.RemoveElement("B"))

	rels := s.Relationships()
	require.Len(t, rels, 1)
	assert.Equal(t, "A", rels[0].SourceID)
	assert.Equal(t, "C", rels[0].TargetID)

	a, err := s.Element("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, a.(*domain.PartDefinition).SpecializationIDs)
}

func TestStore_Relationships(t *testing.T) {
	s := model.New(model.WithIDGenerator(sequentialIDs()))
	_, err := s.AddElement(partDef("vehicle", "Vehicle"))
	require.NoError(t, err)
	_, err = s.AddElement(feature("mass", "mass"))
	require.NoError(t, err)

	t.Run("endpoints must exist", func(t *testing.T) {
		_, err := s.AddFeatureMembership("vehicle", "ghost")
		assert.ErrorIs(t, err, domain.ErrElementNotFound)
		_, err = s.AddRelationship(domain.Relationship{Type: domain.RelDependency, SourceID: "ghost", TargetID: "mass"})
		assert.ErrorIs(t, err, domain.ErrElementNotFound)
		assert.Empty(t, s.Relationships())
	})

	t.Run("type is required", func(t *testing.T) {
		_, err := s.AddRelationship(domain.Relationship{SourceID: "vehicle", TargetID: "mass"})
		assert.Error(t, err)
	})

	t.Run("feature membership sets owner", func(t *testing.T) {
		id, err := s.AddFeatureMembership("vehicle", "mass")
		require.NoError(t, err)

		r, err := s.Relationship(id)
		require.NoError(t, err)
		assert.Equal(t, domain.RelFeatureMembership, r.Type)

		f, err := s.Element("mass")
		require.NoError(t, err)
		assert.Equal(t, "vehicle", f.Attrs().OwnerID)

		v, err := s.Element("vehicle")
		require.NoError(t, err)
		assert.Equal(t, []string{"mass"}, v.(*domain.PartDefinition).OwnedFeatures)

		assert.Len(t, s.RelationshipsOf("mass"), 1)
		assert.Len(t, s.RelationshipsOf("vehicle"), 1)
		assert.Empty(t, s.RelationshipsOf("nobody"))

		require.NoError(t, s.RemoveRelationship(id))
		f, err = s.Element("mass")
		require.NoError(t, err)
		assert.Empty(t, f.Attrs().OwnerID)
		v, err = s.Element("vehicle")
		require.NoError(t, err)
		assert.Empty(t, v.(*domain.PartDefinition).OwnedFeatures)

		assert.ErrorIs(t, s.RemoveRelationship(id), domain.ErrRelationshipNotFound)
		_, err = s.Relationship(id)
		assert.ErrorIs(t, err, domain.ErrRelationshipNotFound)
	})

	t.Run("duplicate id across elements and relationships", func(t *testing.T) {
		_, err := s.AddRelationship(domain.Relationship{ID: "mass", Type: domain.RelDependency, SourceID: "vehicle", TargetID: "mass"})
		assert.ErrorIs(t, err, domain.ErrDuplicateID)
	})

	t.Run("update", func(t *testing.T) {
		id, err := s.AddRelationship(domain.Relationship{Type: domain.RelDependency, SourceID: "vehicle", TargetID: "mass"})
		require.NoError(t, err)

		require.NoError(t, s.UpdateRelationship(id, map[string]any{
			"name":     "needs",
			"vertices": []any{map[string]any{"x": 1, "y": 2}},
		}))
		r, err := s.Relationship(id)
		require.NoError(t, err)
		assert.Equal(t, "needs", r.Name)
		assert.JSONEq(t, `[{"x":1,"y":2}]`, string(r.Vertices))

		require.NoError(t, s.UpdateRelationship(id, map[string]any{"type": "featureMembership"}))
		f, err := s.Element("mass")
		require.NoError(t, err)
		assert.Equal(t, "vehicle", f.Attrs().OwnerID, "switching to featureMembership applies its side effect")

		assert.ErrorIs(t, s.UpdateRelationship(id, map[string]any{"targetId": "ghost"}), domain.ErrElementNotFound)
		assert.Error(t, s.UpdateRelationship(id, map[string]any{"id": "other"}))
		assert.ErrorIs(t, s.UpdateRelationship("ghost", map[string]any{"name": "x"}), domain.ErrRelationshipNotFound)
	})
}

func specializations(t *testing.T, s *model.Store, id string) []string {
	t.Helper()
	e, err := s.Element(id)
	require.NoError(t, err)
	return e.(*domain.PartDefinition).SpecializationIDs
}

func TestStore_RemoveRelationshipKeepsDeclaredLinks(t *testing.T) {
	s := model.New()

	declared := partDef("D", "D")
	declared.SpecializationIDs = []string{"B"}
	owner := partDef("O", "O")
	owner.OwnedFeatures = []string{"f"}
	owned := feature("f", "f")
	owned.OwnerID = "O"
	for _, e := range []domain.Element{partDef("B", "B"), declared, owner, owned} {
		_, err := s.AddElement(e)
		require.NoError(t, err)
	}

	spec, err := s.AddSpecialization("D", "B")
	require.NoError(t, err)
	membership, err := s.AddFeatureMembership("O", "f")
	require.NoError(t, err)
	require.NoError(t, s.RemoveRelationship(spec))
	require.NoError(t, s.RemoveRelationship(membership))

	assert.Equal(t, []string{"B"}, specializations(t, s, "D"))
	o, err := s.Element("O")
	require.NoError(t, err)
	assert.Equal(t, []string{"f"}, o.(*domain.PartDefinition).OwnedFeatures)
	f, err := s.Element("f")
	require.NoError(t, err)
	assert.Equal(t, "O", f.Attrs().OwnerID)

	// Removing B cascades no relationship, so D keeps its declared link.
	require.NoError(t, s.RemoveElement("B"))
	assert.Equal(t, []string{"B"}, specializations(t, s, "D"))
}

func TestStore_FeatureMembershipRestoresPreviousOwner(t *testing.T) {
	s := model.New()
	owned := feature("f", "f")
	owned.OwnerID = "first"
	for _, e := range []domain.Element{partDef("first", "First"), partDef("second", "Second"), owned} {
		_, err := s.AddElement(e)
		require.NoError(t, err)
	}

	id, err := s.AddFeatureMembership("second", "f")
	require.NoError(t, err)
	f, err := s.Element("f")
	require.NoError(t, err)
	assert.Equal(t, "second", f.Attrs().OwnerID)

	require.NoError(t, s.RemoveRelationship(id))
	f, err = s.Element("f")
	require.NoError(t, err)
	assert.Equal(t, "first", f.Attrs().OwnerID)
}

func TestStore_TwinRelationshipsShareLink(t *testing.T) {
	s := model.New()
	for _, id := range []string{"A", "B"} {
		_, err := s.AddElement(partDef(id, id))
		require.NoError(t, err)
	}
	first, err := s.AddSpecialization("A", "B")
	require.NoError(t, err)
	second, err := s.AddRelationship(domain.Relationship{Type: domain.RelSubclassification, SourceID: "A", TargetID: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, specializations(t, s, "A"))

	require.NoError(t, s.RemoveRelationship(first))
	assert.Equal(t, []string{"B"}, specializations(t, s, "A"), "the remaining relationship still asserts the link")

	require.NoError(t, s.RemoveRelationship(second))
	assert.Empty(t, specializations(t, s, "A"))

	ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, specializations(t, s, "A"))

	require.NoError(t, s.RemoveRelationship(second))
	assert.Empty(t, specializations(t, s, "A"), "undo restores what the relationship changed")
}

func TestStore_LoadedLinksFollowTheirRelationships(t *testing.T) {
	s := model.New()
	require.NoError(t, s.InitializeSampleModel())

	require.NoError(t, s.RemoveRelationship("rel-engine-power"))
	assert.Empty(t, specializations(t, s, model.SampleEngineID))
}

func TestStore_UpdateRelationshipKeepsLinkOrder(t *testing.T) {
	s := model.New()
	for _, id := range []string{"A", "B", "C"} {
		_, err := s.AddElement(partDef(id, id))
		require.NoError(t, err)
	}
	first, err := s.AddSpecialization("A", "B")
	require.NoError(t, err)
	_, err = s.AddSpecialization("A", "C")
	require.NoError(t, err)

	require.NoError(t, s.UpdateRelationship(first, map[string]any{"name": "is a"}))
	assert.Equal(t, []string{"B", "C"}, specializations(t, s, "A"))

	require.NoError(t, s.UpdateRelationship(first, map[string]any{"targetId": "C"}))
	assert.Equal(t, []string{"C"}, specializations(t, s, "A"))

	require.NoError(t, s.UpdateRelationship(first, map[string]any{"type": "dependency"}))
	assert.Equal(t, []string{"C"}, specializations(t, s, "A"))
}

func TestStore_UndoRedo(t *testing.T) {
	s := model.New()

	ok, err := s.Undo()
	require.NoError(t, err)
	assert.False(t, ok, "undo on empty history is a no-op")

	x := &domain.PortDefinition{IsConjugated: true, FlowItemTypes: []string{"Fuel"}}
	x.ID, x.Name = "X", "FuelPort"
	_, err = s.AddElement(x)
	require.NoError(t, err)
	before, err := s.Element("X")
	require.NoError(t, err)

	ok, err = s.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.Element("X")
	assert.ErrorIs(t, err, domain.ErrElementNotFound)
	assert.True(t, s.CanRedo())

	ok, err = s.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	after, err := s.Element("X")
	require.NoError(t, err)
	if diff := cmp.Diff(before, after, ignoreCaches); diff != "" {
		t.Errorf("redo did not restore X (-want +got):\n%s", diff)
	}

	ok, err = s.Redo()
	require.NoError(t, err)
	assert.False(t, ok, "redo on empty future is a no-op")
}

func TestStore_NewEditClearsRedo(t *testing.T) {
	s := model.New()
	_, err := s.AddElement(partDef("A", "A"))
	require.NoError(t, err)
	_, err = s.Undo()
	require.NoError(t, err)
	require.True(t, s.CanRedo())

	_, err = s.AddElement(partDef("B", "B"))
	require.NoError(t, err)
	assert.False(t, s.CanRedo())
}

func TestStore_UndoRestoresCascade(t *testing.T) {
	s := model.New()
	_, err := s.AddElement(partDef("A", "A"))
	require.NoError(t, err)
	_, err = s.AddElement(partDef("B", "B"))
	require.NoError(t, err)
	_, err = s.AddSpecialization("A", "B")
	require.NoError(t, err)
	require.NoError(t, s.RemoveElement("B"))

	ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Len(t, s.Relationships(), 1)
	a, err := s.Element("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, a.(*domain.PartDefinition).SpecializationIDs)
}

func TestStore_HistoryLimit(t *testing.T) {
	s := model.New(model.WithHistoryLimit(2))
	for _, id := range []string{"A", "B", "C"} {
		_, err := s.AddElement(partDef(id, id))
		require.NoError(t, err)
	}

	undone := 0
	for s.CanUndo() {
		ok, err := s.Undo()
		require.NoError(t, err)
		require.True(t, ok)
		undone++
	}
	assert.Equal(t, 2, undone)

	elements, err := s.Elements()
	require.NoError(t, err)
	require.Len(t, elements, 1, "the oldest snapshot was dropped")
	assert.Equal(t, "A", elements[0].Attrs().ID)
}

func TestStore_Reset(t *testing.T) {
	s := model.New()
	require.NoError(t, s.InitializeSampleModel())
	_, err := s.AddElement(partDef("extra", "Extra"))
	require.NoError(t, err)

	s.Reset()
	elements, relationships := s.Len()
	assert.Zero(t, elements)
	assert.Zero(t, relationships)
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := model.New()
	require.NoError(t, s.InitializeSampleModel())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AddElement(partDef(fmt.Sprintf("p%d", i), fmt.Sprintf("P%d", i)))
			assert.NoError(t, err)
			assert.NoError(t, s.Validate())
			_, err = s.ModelJSON()
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	elements, _ := s.Len()
	assert.Equal(t, len(model.SampleDocument().Elements)+8, elements)
}

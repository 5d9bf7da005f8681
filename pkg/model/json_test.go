package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ModelJSON(t *testing.T) {
	s := model.New()
	usage := &domain.PartUsage{}
	usage.ID, usage.Name, usage.DefinitionID = "u1", "engine", "d1"
	_, err := s.AddElement(usage)
	require.NoError(t, err)

	data, err := s.ModelJSON()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "{\n  \""), "output is indented with two spaces")
	assert.Contains(t, string(data), `"__type": "PartUsage"`)
	assert.Contains(t, string(data), `"partDefinition": "d1"`)
	assert.NotContains(t, string(data), "definitionId")
	assert.Contains(t, string(data), `"relationships": []`)
}

func TestStore_ModelJSONRoundTrip(t *testing.T) {
	src := model.New()
	require.NoError(t, src.InitializeSampleModel())
	data, err := src.ModelJSON()
	require.NoError(t, err)

	dst := model.New()
	require.NoError(t, dst.LoadModelJSON(data))

	want, err := src.Document()
	require.NoError(t, err)
	got, err := dst.Document()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, ignoreCaches); diff != "" {
		t.Errorf("round trip changed the model (-want +got):\n%s", diff)
	}

	again, err := dst.ModelJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestStore_LoadModelJSON(t *testing.T) {
	t.Run("replaces model and clears history", func(t *testing.T) {
		s := model.New()
		_, err := s.AddElement(partDef("old", "Old"))
		require.NoError(t, err)
		require.True(t, s.CanUndo())

		err = s.LoadModelJSON([]byte(`{
			"elements": [{"__type": "PartDefinition", "id": "new", "name": "New"}],
			"relationships": []
		}`))
		require.NoError(t, err)

		_, err = s.Element("old")
		assert.ErrorIs(t, err, domain.ErrElementNotFound)
		_, err = s.Element("new")
		assert.NoError(t, err)
		assert.False(t, s.CanUndo())
		assert.False(t, s.CanRedo())
	})

	t.Run("unknown element types are skipped", func(t *testing.T) {
		s := model.New()
		err := s.LoadModelJSON([]byte(`{
			"elements": [
				{"__type": "StateDefinition", "id": "sd", "name": "Idle"},
				{"__type": "Feature", "id": "f", "name": "mass", "multiplicity": "0..1"}
			],
			"relationships": []
		}`))
		require.NoError(t, err)

		elements, err := s.Elements()
		require.NoError(t, err)
		require.Len(t, elements, 1)
		f := elements[0].(*domain.Feature)
		assert.Equal(t, "0..1", f.EffectiveMultiplicity().String())
	})

	malformed := map[string]string{
		"not json":             `{`,
		"missing elements":     `{"relationships": []}`,
		"elements not array":   `{"elements": {}, "relationships": []}`,
		"element without type": `{"elements": [{"id": "x"}], "relationships": []}`,
		"duplicate ids":        `{"elements": [{"__type": "Package", "id": "x", "name": "a"}, {"__type": "Package", "id": "x", "name": "b"}], "relationships": []}`,
		"element without id":   `{"elements": [{"__type": "Package", "name": "a"}], "relationships": []}`,
	}
	for name, input := range malformed {
		t.Run(name, func(t *testing.T) {
			s := model.New()
			_, err := s.AddElement(partDef("keep", "Keep"))
			require.NoError(t, err)

			assert.Error(t, s.LoadModelJSON([]byte(input)))

			elements, err := s.Elements()
			require.NoError(t, err)
			require.Len(t, elements, 1, "a failed load leaves the model untouched")
			assert.Equal(t, "keep", elements[0].Attrs().ID)
			assert.True(t, s.CanUndo(), "a failed load leaves the history untouched")
		})
	}
}

func TestStore_LoadModelJSONKeepsDanglingRelationships(t *testing.T) {
	s := model.New()
	err := s.LoadModelJSON([]byte(`{
		"elements": [{"__type": "Package", "id": "p", "name": "P"}],
		"relationships": [{"id": "r", "type": "import", "sourceId": "p", "targetId": "gone"}]
	}`))
	require.NoError(t, err)
	assert.Len(t, s.Relationships(), 1)
}

func TestStore_DocumentIsACopy(t *testing.T) {
	s := model.New()
	require.NoError(t, s.InitializeSampleModel())

	doc, err := s.Document()
	require.NoError(t, err)
	doc.Elements[0].Attrs().Name = "changed"
	doc.Relationships = nil

	fresh, err := s.Document()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", fresh.Elements[0].Attrs().Name)
	assert.NotEmpty(t, fresh.Relationships)

	other := model.New()
	require.NoError(t, other.LoadDocument(fresh))
	fresh.Elements[0].Attrs().Name = "changed"
	e, err := other.Element(fresh.Elements[0].Attrs().ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", e.Attrs().Name)

	assert.ErrorIs(t, other.LoadDocument(nil), domain.ErrMalformedModel)
}

func TestSampleDocument_Encodes(t *testing.T) {
	data, err := json.Marshal(model.SampleDocument())
	require.NoError(t, err)

	var doc domain.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Empty(t, doc.Skipped)
	assert.Len(t, doc.Relationships, 4)
}

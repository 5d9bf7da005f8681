package model_test

import (
	"testing"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/model"
	"github.com/aretw0/sysml/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SampleModelIsValid(t *testing.T) {
	s := model.New()
	require.NoError(t, s.InitializeSampleModel())
	assert.NoError(t, s.Validate())
	assert.False(t, s.CanUndo(), "loading the sample clears the history")

	elements, relationships := s.Len()
	assert.Equal(t, len(model.SampleDocument().Elements), elements)
	assert.Equal(t, 4, relationships)

	engine, err := s.Element(model.SampleEngineID)
	require.NoError(t, err)
	assert.Equal(t, []string{model.SamplePowerSourceID}, engine.(*domain.PartDefinition).SpecializationIDs)

	usage, err := s.Element(model.SampleFuelInID)
	require.NoError(t, err)
	assert.Equal(t, model.SampleFuelPortID, usage.(*domain.PortUsage).DefinitionID)
}

func TestStore_ValidateReportsFindings(t *testing.T) {
	s := model.New()
	require.NoError(t, s.InitializeSampleModel())

	require.NoError(t, s.UpdateElement(model.SampleEngineUsageID, map[string]any{"partDefinition": model.SampleFuelPortID}))
	require.NoError(t, s.UpdateElement(model.SampleVehicleID, map[string]any{"name": ""}))

	err := s.Validate()
	require.Error(t, err)

	findings := validator.ValidationErrors(err)
	require.Len(t, findings, 2)
	assert.Equal(t, model.SampleVehicleID, findings[0].ElementID)
	assert.Equal(t, domain.RuleNameRequired, findings[0].Rule)
	assert.Equal(t, model.SampleEngineUsageID, findings[1].ElementID)
	assert.Equal(t, domain.RuleDefinitionKind, findings[1].Rule)

	ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.NoError(t, s.Validate())
}

func TestStore_ValidateSeesDanglingReferences(t *testing.T) {
	s := model.New()
	require.NoError(t, s.InitializeSampleModel())
	require.NoError(t, s.RemoveElement(model.SampleFuelPortID))

	findings := validator.ValidationErrors(s.Validate())
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, domain.RuleUnresolvedReference, f.Rule)
	}
	assert.Equal(t, model.SampleFuelInID, findings[0].ElementID)
	assert.Equal(t, model.SampleFuelOutID, findings[1].ElementID)
}

package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ignoreCaches skips the live usage caches, which are never encoded.
var ignoreCaches = cmpopts.IgnoreUnexported(
	domain.PartDefinition{},
	domain.PortDefinition{},
	domain.ConnectionDefinition{},
	domain.InterfaceDefinition{},
	domain.ActionDefinition{},
)

func base(id, name string) domain.Base {
	return domain.Base{ID: id, Name: name, Description: name + " description"}
}

func fixtureElements() []domain.Element {
	many := domain.NewMultiplicity(1, domain.Unbounded)
	maxIter := 10

	feature := &domain.Feature{}
	feature.Base = base("f1", "mass")
	feature.Multiplicity = &many
	feature.TypeIDs = []string{"real"}
	feature.Direction = domain.DirectionIn
	feature.IsReadOnly = true

	assoc := &domain.Association{EndFeatures: []string{"f1", "f2"}}
	assoc.Base = base("as1", "Link")

	conn := &domain.Connector{ConnectedFeatures: []string{"f1", "f2"}, AssociationID: "as1"}
	conn.Base = base("cn1", "wire")

	flow := &domain.SuccessionItemFlow{ItemTypeID: "fuel", SourceOutput: "out", TargetInput: "in"}
	flow.Base = base("sf1", "fuelFlow")
	flow.ConnectedFeatures = []string{"f1", "f2"}

	behavior := &domain.Behavior{Steps: []string{"s1", "s2"}}
	behavior.Base = base("b1", "Run")
	behavior.SpecializationIDs = []string{"b0"}

	function := &domain.Function{ExpressionID: "e1", ResultID: "r1"}
	function.Base = base("fn1", "Compute")

	pkg := &domain.Package{Members: []string{"pd1"}, Imports: []string{"lib"}}
	pkg.Base = base("pkg1", "Vehicle")

	partDef := &domain.PartDefinition{PartUsages: []string{"pu1"}, OwnedPorts: []string{"pt1"}}
	partDef.Base = base("pd1", "Engine")
	partDef.Position = json.RawMessage(`{"x":10,"y":20}`)
	partDef.IsAbstract = true

	partUsage := &domain.PartUsage{PortUsages: []string{"ptu1"}}
	partUsage.Base = base("pu1", "engine")
	partUsage.DefinitionID = "pd1"
	partUsage.IsComposite = true

	portDef := &domain.PortDefinition{PortUsages: []string{"ptu1"}, IsConjugated: true, FlowItemTypes: []string{"fuel"}}
	portDef.Base = base("pt1", "FuelPort")

	portUsage := &domain.PortUsage{IsConjugated: true}
	portUsage.Base = base("ptu1", "fuelIn")
	portUsage.DefinitionID = "pt1"
	portUsage.Direction = domain.DirectionIn

	connDef := &domain.ConnectionDefinition{ConnectionUsages: []string{"cu1"}, SourceTypeID: "pd1", TargetTypeID: "pd2"}
	connDef.Base = base("cd1", "FuelLine")

	connUsage := &domain.ConnectionUsage{SourceID: "pu1", TargetID: "pu2", SourceTypeID: "pd1", TargetTypeID: "pd2"}
	connUsage.Base = base("cu1", "line")
	connUsage.DefinitionID = "cd1"

	ifaceDef := &domain.InterfaceDefinition{InterfaceUsages: []string{"iu1"}, EndPorts: []string{"pt1"}}
	ifaceDef.Base = base("id1", "FuelInterface")

	ifaceUsage := &domain.InterfaceUsage{SourcePortID: "ptu1", TargetPortID: "ptu2"}
	ifaceUsage.Base = base("iu1", "fuelIface")
	ifaceUsage.DefinitionID = "id1"

	concern := &domain.ConcernDefinition{Stakeholders: []string{"driver"}, ConcernText: "safety", FramedRequirements: []string{"req1"}}
	concern.Base = base("cc1", "Safety")

	useCase := &domain.UseCaseDefinition{SubjectID: "pd1", Actors: []string{"driver"}, IncludedUseCases: []string{"uc0"}, Objective: "drive"}
	useCase.Base = base("uc1", "Drive")

	verification := &domain.VerificationCaseDefinition{SubjectID: "pd1", VerifiedRequirements: []string{"req1"}, Objective: "mass", Method: domain.VerificationTest}
	verification.Base = base("vc1", "MassTest")

	actionDef := &domain.ActionDefinition{Parameters: []string{"p1"}, ActionUsages: []string{"au1"}}
	actionDef.Base = base("ad1", "Drive")

	actionUsage := &domain.ActionUsage{
		Parameters:     []string{"p1"},
		Bodies:         []string{"body"},
		Successions:    []string{"au2"},
		Preconditions:  []string{"ready"},
		Postconditions: []string{"done"},
		Guard:          "speed > 0",
	}
	actionUsage.Base = base("au1", "start")
	actionUsage.DefinitionID = "ad1"

	ifAction := &domain.IfActionUsage{}
	ifAction.Base = base("if1", "choose")
	ifAction.AddBranch("br1", "x > 0", "au1")
	ifAction.AddElse("br2", "au2")

	loop := &domain.LoopActionUsage{
		LoopType:      domain.LoopForEach,
		Collection:    "wheels",
		IteratorName:  "w",
		BodyActions:   []string{"au1"},
		IsParallel:    true,
		MaxIterations: &maxIter,
	}
	loop.Base = base("lp1", "check")

	perform := &domain.PerformActionUsage{PerformedActionID: "au1", InputBindings: map[string]string{"speed": "v"}}
	perform.Base = base("pf1", "perform")

	send := &domain.SendActionUsage{Payload: "msg", ReceiverID: "pu1", ViaPortID: "ptu1"}
	send.Base = base("sd1", "notify")

	accept := &domain.AcceptActionUsage{PayloadName: "ack", PayloadTypeID: "Ack", ReceiverID: "pu1", Timeout: 1500}
	accept.Base = base("ac1", "await")

	assign := &domain.AssignmentActionUsage{TargetFeatureID: "f1", Expression: "f1 + 1"}
	assign.Base = base("as2", "increment")

	terminate := &domain.TerminateActionUsage{Scope: domain.TerminateOccurrence, TerminatedID: "pu1"}
	terminate.Base = base("tm1", "stop")

	return []domain.Element{
		feature, assoc, conn, flow, behavior, function, pkg,
		partDef, partUsage, portDef, portUsage, connDef, connUsage, ifaceDef, ifaceUsage,
		concern, useCase, verification,
		actionDef, actionUsage, ifAction, loop, perform, send, accept, assign, terminate,
	}
}

func TestCodec_RoundTripEveryKind(t *testing.T) {
	elements := fixtureElements()
	require.Len(t, elements, len(domain.Kinds()), "fixture should cover every variant")

	for _, e := range elements {
		t.Run(e.Kind().String(), func(t *testing.T) {
			data, err := domain.MarshalElement(e)
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(data, &fields))
			assert.Equal(t, e.Kind().String(), fields[domain.TypeTag])

			back, err := domain.UnmarshalElement(data)
			require.NoError(t, err)
			assert.Equal(t, e.Kind(), back.Kind())
			if diff := cmp.Diff(e, back, ignoreCaches); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodec_WireNames(t *testing.T) {
	tests := []struct {
		element domain.Element
		present []string
		absent  []string
	}{
		{
			element: func() domain.Element {
				u := &domain.PartUsage{}
				u.ID, u.DefinitionID = "p", "d"
				return u
			}(),
			present: []string{"partDefinition"},
			absent:  []string{"definitionId"},
		},
		{
			element: func() domain.Element {
				u := &domain.PortUsage{}
				u.ID, u.DefinitionID = "p", "d"
				return u
			}(),
			present: []string{"portDefinition"},
			absent:  []string{"definitionId"},
		},
		{
			element: func() domain.Element {
				u := &domain.ConnectionUsage{SourceTypeID: "a", TargetTypeID: "b"}
				u.ID, u.DefinitionID = "c", "d"
				return u
			}(),
			present: []string{"connectionDefinition", "sourceType", "targetType"},
			absent:  []string{"definitionId", "sourceTypeId", "targetTypeId"},
		},
		{
			element: func() domain.Element {
				u := &domain.LoopActionUsage{LoopType: domain.LoopWhile, Condition: "x"}
				u.ID, u.DefinitionID = "l", "d"
				return u
			}(),
			present: []string{"actionDefinition", "loopType"},
			absent:  []string{"definitionId"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.element.Kind().String(), func(t *testing.T) {
			data, err := domain.MarshalElement(tt.element)
			require.NoError(t, err)

			var fields map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(data, &fields))
			for _, k := range tt.present {
				assert.Contains(t, fields, k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, fields, k)
			}
		})
	}
}

func TestUnmarshalElement_WireForm(t *testing.T) {
	data := []byte(`{
		"__type": "PartUsage",
		"id": "pu1",
		"name": "engine",
		"partDefinition": "pd1",
		"multiplicity": "1..*",
		"ownedFeatures": [],
		"typeIds": ["pd1"]
	}`)

	e, err := domain.UnmarshalElement(data)
	require.NoError(t, err)

	u, ok := e.(*domain.PartUsage)
	require.True(t, ok)
	assert.Equal(t, "pu1", u.ID)
	assert.Equal(t, "pd1", u.DefinitionID)
	require.NotNil(t, u.Multiplicity)
	assert.Equal(t, "1..*", u.Multiplicity.String())
	assert.Equal(t, []string{}, u.OwnedFeatures)
}

func TestUnmarshalElement_Errors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		_, err := domain.UnmarshalElement([]byte(`{"__type":"StateDefinition","id":"s"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownKind)

		var unknown *domain.UnknownKindError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, domain.Kind("StateDefinition"), unknown.Kind)
	})

	t.Run("missing tag", func(t *testing.T) {
		_, err := domain.UnmarshalElement([]byte(`{"id":"x"}`))
		assert.ErrorIs(t, err, domain.ErrMalformedModel)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := domain.UnmarshalElement([]byte(`[1,2]`))
		assert.ErrorIs(t, err, domain.ErrMalformedModel)
	})

	t.Run("wrong field type", func(t *testing.T) {
		_, err := domain.UnmarshalElement([]byte(`{"__type":"Package","id":"p","members":"oops"}`))
		assert.ErrorIs(t, err, domain.ErrMalformedModel)
	})
}

func TestDocument_RoundTrip(t *testing.T) {
	doc := domain.Document{
		Elements: fixtureElements(),
		Relationships: []domain.Relationship{
			{ID: "r1", Type: domain.RelSpecialization, SourceID: "b1", TargetID: "b0"},
			{ID: "r2", Type: domain.RelConnection, SourceID: "pu1", TargetID: "pu2", Vertices: json.RawMessage(`[{"x":1,"y":2}]`)},
		},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var back domain.Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Empty(t, back.Skipped)
	if diff := cmp.Diff(doc, back, ignoreCaches); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}

	again, err := json.Marshal(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestDocument_EmptyEncodesArrays(t *testing.T) {
	data, err := json.Marshal(domain.Document{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"elements":[],"relationships":[]}`, string(data))
}

func TestDocument_SkipsUnknownKinds(t *testing.T) {
	data := []byte(`{
		"elements": [
			{"__type": "Package", "id": "p", "name": "root", "members": [], "imports": []},
			{"__type": "StateDefinition", "id": "s", "name": "Idle"}
		],
		"relationships": []
	}`)

	var doc domain.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, domain.KindPackage, doc.Elements[0].Kind())
	assert.Equal(t, []domain.Kind{"StateDefinition"}, doc.Skipped)
}

func TestDocument_MalformedShape(t *testing.T) {
	inputs := map[string]string{
		"missing relationships": `{"elements": []}`,
		"missing elements":      `{"relationships": []}`,
		"elements not array":    `{"elements": {}, "relationships": []}`,
		"null":                  `null`,
		"scalar":                `42`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			var doc domain.Document
			err := json.Unmarshal([]byte(in), &doc)
			assert.ErrorIs(t, err, domain.ErrMalformedModel)
		})
	}
}

func TestCloneElement_DropsUsageCache(t *testing.T) {
	def := &domain.PartDefinition{}
	def.ID = "pd"
	u := &domain.PartUsage{}
	u.ID = "pu"
	def.RegisterPartUsage(u)

	clone, err := domain.CloneElement(def)
	require.NoError(t, err)

	cd := clone.(*domain.PartDefinition)
	assert.Equal(t, []string{"pu"}, cd.PartUsages)
	assert.Empty(t, cd.Usages())

	cd.PartUsages[0] = "changed"
	assert.Equal(t, "pu", def.PartUsages[0])
}

package domain

import "encoding/json"

// RelationshipType classifies a Relationship.
type RelationshipType string

const (
	RelSpecialization    RelationshipType = "specialization"
	RelSubclassification RelationshipType = "subclassification"
	RelFeatureMembership RelationshipType = "featureMembership"
	RelFeatureTyping     RelationshipType = "featureTyping"
	RelRedefinition      RelationshipType = "redefinition"
	RelSubsetting        RelationshipType = "subsetting"
	RelConnection        RelationshipType = "connection"
	RelInterface         RelationshipType = "interface"
	RelSuccession        RelationshipType = "succession"
	RelTransition        RelationshipType = "transition"
	RelFlow              RelationshipType = "flow"
	RelDependency        RelationshipType = "dependency"
	RelImport            RelationshipType = "import"
)

// Relationship is a directed link between two elements. It is data owned by
// the model, not by either endpoint.
type Relationship struct {
	ID       string           `json:"id"`
	Type     RelationshipType `json:"type"`
	SourceID string           `json:"sourceId"`
	TargetID string           `json:"targetId"`
	Name     string           `json:"name,omitempty"`

	// Vertices is diagram routing payload. It is carried through unchanged.
	Vertices json.RawMessage `json:"vertices,omitempty"`
}

// Touches reports whether id is the source or the target of r.
func (r Relationship) Touches(id string) bool {
	return r.SourceID == id || r.TargetID == id
}

// Clone returns a copy of r that shares no memory with it.
func (r Relationship) Clone() Relationship {
	if r.Vertices != nil {
		r.Vertices = append(json.RawMessage(nil), r.Vertices...)
	}
	return r
}

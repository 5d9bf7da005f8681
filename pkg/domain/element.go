package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Element is implemented by every variant of the metamodel.
// Variants are pointers to structs that embed Base (directly or through
// Type, Classifier, Feature, Definition or Usage).
type Element interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Attrs exposes the common attribute record.
	Attrs() *Base
}

// NewID returns a fresh globally unique id.
func NewID() string {
	return uuid.NewString()
}

// Base is the attribute record shared by all elements.
type Base struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"shortName,omitempty"`
	OwnerID     string `json:"ownerId,omitempty"`
	Description string `json:"description,omitempty"`

	// Position is diagram layout payload. It is carried through unchanged.
	Position json.RawMessage `json:"position,omitempty"`
}

// Attrs implements Element for every embedding variant.
func (b *Base) Attrs() *Base { return b }

// Direction of a feature relative to its owner.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionIn    Direction = "in"
	DirectionOut   Direction = "out"
	DirectionInOut Direction = "inout"
)

// Type is the root of the classification lattice.
type Type struct {
	Base
	IsAbstract    bool     `json:"isAbstract,omitempty"`
	OwnedFeatures []string `json:"ownedFeatures"`
}

func (t *Type) typ() *Type { return t }

// Classifier is a Type that can specialize other classifiers.
type Classifier struct {
	Type
	SpecializationIDs []string `json:"specializationIds"`
}

func (c *Classifier) classifier() *Classifier { return c }

// Feature is a Type describing a typed, multiplicity-constrained member of another Type.
// As a standalone element it is a KerML feature.
type Feature struct {
	Type
	Multiplicity        *MultiplicityRange `json:"multiplicity,omitempty"`
	TypeIDs             []string           `json:"typeIds"`
	RedefinedFeatureIDs []string           `json:"redefinedFeatureIds"`
	SubsettedFeatureIDs []string           `json:"subsettedFeatureIds"`
	Direction           Direction          `json:"direction,omitempty"`
	IsComposite         bool               `json:"isComposite,omitempty"`
	IsReadOnly          bool               `json:"isReadOnly,omitempty"`
	IsDerived           bool               `json:"isDerived,omitempty"`
}

func (f *Feature) Kind() Kind { return KindFeature }

func (f *Feature) feature() *Feature { return f }

// EffectiveMultiplicity returns the declared multiplicity or the default one.
func (f *Feature) EffectiveMultiplicity() MultiplicityRange {
	if f.Multiplicity == nil {
		return DefaultMultiplicity
	}
	return *f.Multiplicity
}

// SetMultiplicity parses s and stores the result.
func (f *Feature) SetMultiplicity(s string) {
	m := ParseMultiplicity(s)
	f.Multiplicity = &m
}

// TypeOf returns the Type record of e, if e is a Type.
func TypeOf(e Element) (*Type, bool) {
	h, ok := e.(interface{ typ() *Type })
	if !ok {
		return nil, false
	}
	return h.typ(), true
}

// ClassifierOf returns the Classifier record of e, if e is a classifier.
func ClassifierOf(e Element) (*Classifier, bool) {
	h, ok := e.(interface{ classifier() *Classifier })
	if !ok {
		return nil, false
	}
	return h.classifier(), true
}

// FeatureOf returns the Feature record of e, if e is a feature.
func FeatureOf(e Element) (*Feature, bool) {
	h, ok := e.(interface{ feature() *Feature })
	if !ok {
		return nil, false
	}
	return h.feature(), true
}

// DefinitionOf returns the Definition record of e, if e is a definition.
func DefinitionOf(e Element) (*Definition, bool) {
	h, ok := e.(interface{ definition() *Definition })
	if !ok {
		return nil, false
	}
	return h.definition(), true
}

// UsageOf returns the Usage record of e, if e is a usage.
func UsageOf(e Element) (*Usage, bool) {
	h, ok := e.(interface{ usage() *Usage })
	if !ok {
		return nil, false
	}
	return h.usage(), true
}

// ActionOf returns the ActionUsage record of e, if e is an action usage of any variant.
func ActionOf(e Element) (*ActionUsage, bool) {
	h, ok := e.(interface{ action() *ActionUsage })
	if !ok {
		return nil, false
	}
	return h.action(), true
}

// AppendUnique appends id unless it is already present.
func AppendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// RemoveID returns ids without any occurrence of id and reports whether one
// was found. ids itself is left untouched.
func RemoveID(ids []string, id string) ([]string, bool) {
	if len(ids) == 0 {
		return ids, false
	}
	found := false
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		out = append(out, existing)
	}
	return out, found
}

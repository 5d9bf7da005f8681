package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// TypeTag is the JSON key carrying the element discriminator.
const TypeTag = "__type"

// factories is the closed set of decodable variants.
var factories = map[Kind]func() Element{
	KindFeature:                    func() Element { return &Feature{} },
	KindAssociation:                func() Element { return &Association{} },
	KindConnector:                  func() Element { return &Connector{} },
	KindSuccessionItemFlow:         func() Element { return &SuccessionItemFlow{} },
	KindBehavior:                   func() Element { return &Behavior{} },
	KindFunction:                   func() Element { return &Function{} },
	KindPackage:                    func() Element { return &Package{} },
	KindPartDefinition:             func() Element { return &PartDefinition{} },
	KindPartUsage:                  func() Element { return &PartUsage{} },
	KindPortDefinition:             func() Element { return &PortDefinition{} },
	KindPortUsage:                  func() Element { return &PortUsage{} },
	KindConnectionDefinition:       func() Element { return &ConnectionDefinition{} },
	KindConnectionUsage:            func() Element { return &ConnectionUsage{} },
	KindInterfaceDefinition:        func() Element { return &InterfaceDefinition{} },
	KindInterfaceUsage:             func() Element { return &InterfaceUsage{} },
	KindConcernDefinition:          func() Element { return &ConcernDefinition{} },
	KindUseCaseDefinition:          func() Element { return &UseCaseDefinition{} },
	KindVerificationCaseDefinition: func() Element { return &VerificationCaseDefinition{} },
	KindActionDefinition:           func() Element { return &ActionDefinition{} },
	KindActionUsage:                func() Element { return &ActionUsage{} },
	KindIfActionUsage:              func() Element { return &IfActionUsage{} },
	KindLoopActionUsage:            func() Element { return &LoopActionUsage{} },
	KindPerformActionUsage:         func() Element { return &PerformActionUsage{} },
	KindSendActionUsage:            func() Element { return &SendActionUsage{} },
	KindAcceptActionUsage:          func() Element { return &AcceptActionUsage{} },
	KindAssignmentActionUsage:      func() Element { return &AssignmentActionUsage{} },
	KindTerminateActionUsage:       func() Element { return &TerminateActionUsage{} },
}

// New returns a zero value of the variant k.
func New(k Kind) (Element, error) {
	f, ok := factories[k]
	if !ok {
		return nil, &UnknownKindError{Kind: k}
	}
	return f(), nil
}

// Kinds returns every registered variant tag.
func Kinds() []Kind {
	out := make([]Kind, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}

// wireNames translates in-memory field names to their per-variant JSON keys.
var wireNames = map[Kind]map[string]string{
	KindPartUsage: {"definitionId": "partDefinition"},
	KindPortUsage: {"definitionId": "portDefinition"},
	KindConnectionUsage: {
		"definitionId": "connectionDefinition",
		"sourceTypeId": "sourceType",
		"targetTypeId": "targetType",
	},
	KindConnectionDefinition: {
		"sourceTypeId": "sourceType",
		"targetTypeId": "targetType",
	},
	KindInterfaceUsage:        {"definitionId": "interfaceDefinition"},
	KindActionUsage:           {"definitionId": "actionDefinition"},
	KindIfActionUsage:         {"definitionId": "actionDefinition"},
	KindLoopActionUsage:       {"definitionId": "actionDefinition"},
	KindPerformActionUsage:    {"definitionId": "actionDefinition"},
	KindSendActionUsage:       {"definitionId": "actionDefinition"},
	KindAcceptActionUsage:     {"definitionId": "actionDefinition"},
	KindAssignmentActionUsage: {"definitionId": "actionDefinition"},
	KindTerminateActionUsage:  {"definitionId": "actionDefinition"},
}

// WireName returns the JSON key used by variant k for the in-memory field name.
func WireName(k Kind, field string) string {
	if w, ok := wireNames[k][field]; ok {
		return w
	}
	return field
}

// FieldName is the inverse of WireName.
func FieldName(k Kind, wire string) string {
	for memory, w := range wireNames[k] {
		if w == wire {
			return memory
		}
	}
	return wire
}

// MarshalElement encodes e with its "__type" discriminator and per-variant key names.
func MarshalElement(e Element) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("cannot marshal nil element")
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s %q: %w", e.Kind(), e.Attrs().ID, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to reshape %s %q: %w", e.Kind(), e.Attrs().ID, err)
	}
	for memory, wire := range wireNames[e.Kind()] {
		if v, ok := fields[memory]; ok {
			delete(fields, memory)
			fields[wire] = v
		}
	}
	tag, _ := json.Marshal(string(e.Kind()))
	fields[TypeTag] = tag
	return json.Marshal(fields)
}

// UnmarshalElement decodes an element produced by MarshalElement.
// An unregistered discriminator yields an *UnknownKindError.
func UnmarshalElement(data []byte) (Element, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: element is not an object: %v", ErrMalformedModel, err)
	}
	rawTag, ok := fields[TypeTag]
	if !ok {
		return nil, fmt.Errorf("%w: element without %s", ErrMalformedModel, TypeTag)
	}
	var tag string
	if err := json.Unmarshal(rawTag, &tag); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", ErrMalformedModel, TypeTag)
	}
	e, err := New(Kind(tag))
	if err != nil {
		return nil, err
	}

	delete(fields, TypeTag)
	for memory, wire := range wireNames[e.Kind()] {
		if v, ok := fields[wire]; ok {
			delete(fields, wire)
			fields[memory] = v
		}
	}
	reshaped, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to reshape %s: %w", tag, err)
	}
	if err := json.Unmarshal(reshaped, e); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedModel, tag, err)
	}
	return e, nil
}

// CloneElement returns a deep copy of e. Live usage caches are not copied.
func CloneElement(e Element) (Element, error) {
	data, err := MarshalElement(e)
	if err != nil {
		return nil, err
	}
	return UnmarshalElement(data)
}

// Document is the interchange form of a whole model.
type Document struct {
	Elements      []Element
	Relationships []Relationship

	// Skipped lists the discriminators of elements dropped while decoding
	// because their variant is unknown. It is never encoded.
	Skipped []Kind
}

type wireDocument struct {
	Elements      []json.RawMessage `json:"elements"`
	Relationships []Relationship    `json:"relationships"`
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	w := wireDocument{
		Elements:      make([]json.RawMessage, 0, len(d.Elements)),
		Relationships: make([]Relationship, 0, len(d.Relationships)),
	}
	for _, e := range d.Elements {
		data, err := MarshalElement(e)
		if err != nil {
			return nil, err
		}
		w.Elements = append(w.Elements, data)
	}
	w.Relationships = append(w.Relationships, d.Relationships...)
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. Both top-level arrays are
// required; unknown element variants are skipped and recorded in Skipped.
func (d *Document) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	if top == nil {
		return fmt.Errorf("%w: document is null", ErrMalformedModel)
	}
	for _, key := range []string{"elements", "relationships"} {
		v, ok := top[key]
		if !ok || !bytes.HasPrefix(bytes.TrimSpace(v), []byte("[")) {
			return fmt.Errorf("%w: %q must be an array", ErrMalformedModel, key)
		}
	}

	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}

	out := Document{
		Elements:      make([]Element, 0, len(w.Elements)),
		Relationships: make([]Relationship, 0, len(w.Relationships)),
	}
	for i, raw := range w.Elements {
		e, err := UnmarshalElement(raw)
		if err != nil {
			var unknown *UnknownKindError
			if errors.As(err, &unknown) {
				out.Skipped = append(out.Skipped, unknown.Kind)
				continue
			}
			return fmt.Errorf("element %d: %w", i, err)
		}
		out.Elements = append(out.Elements, e)
	}
	out.Relationships = append(out.Relationships, w.Relationships...)
	*d = out
	return nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

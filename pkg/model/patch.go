package model

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

var (
	multiplicityType = reflect.TypeOf(domain.MultiplicityRange{})
	rawMessageType   = reflect.TypeOf(json.RawMessage(nil))
)

// multiplicityHook lets patches write multiplicities as "1..*".
func multiplicityHook(from, to reflect.Type, data any) (any, error) {
	if to != multiplicityType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseMultiplicity(reflect.ValueOf(data).String()), nil
}

// rawMessageHook re-encodes opaque payloads (position, vertices) as JSON.
func rawMessageHook(from, to reflect.Type, data any) (any, error) {
	if to != rawMessageType {
		return data, nil
	}
	if raw, ok := data.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode opaque payload: %w", err)
	}
	return json.RawMessage(b), nil
}

// decodePatch merges patch into the struct pointed to by target. Fields are
// matched by JSON name, embedded records are flattened and unknown keys are
// rejected. Slices and maps in the patch replace the stored ones.
func decodePatch(patch map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Squash:      true,
		ZeroFields:  true,
		ErrorUnused: true,
		Result:      target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			multiplicityHook,
			rawMessageHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(patch)
}

// patchElement returns a patched copy of e; e itself is left untouched.
func patchElement(e domain.Element, patch map[string]any) (domain.Element, error) {
	kind := e.Kind()
	id := e.Attrs().ID

	fields := make(map[string]any, len(patch))
	for k, v := range patch {
		switch k {
		case domain.TypeTag:
			if s, ok := v.(string); !ok || domain.Kind(s) != kind {
				return nil, fmt.Errorf("cannot change element type from %s", kind)
			}
			continue
		case "id":
			if s, ok := v.(string); !ok || s != id {
				return nil, fmt.Errorf("cannot change element id %s", id)
			}
			continue
		}
		name := domain.FieldName(kind, k)
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("patch sets %s twice (as %q and %q)", name, name, domain.WireName(kind, name))
		}
		fields[name] = v
	}

	updated, err := domain.CloneElement(e)
	if err != nil {
		return nil, err
	}
	if err := decodePatch(fields, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func patchRelationship(r domain.Relationship, patch map[string]any) (domain.Relationship, error) {
	if v, ok := patch["id"]; ok {
		if s, ok := v.(string); !ok || s != r.ID {
			return domain.Relationship{}, fmt.Errorf("cannot change relationship id %s", r.ID)
		}
	}
	updated := r.Clone()
	if err := decodePatch(patch, &updated); err != nil {
		return domain.Relationship{}, err
	}
	return updated, nil
}

package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// DocumentDiff lists what changed between two model documents.
// Element and relationship ids are reported in the order they appear.
type DocumentDiff struct {
	AddedElements   []string `json:"addedElements,omitempty"`
	RemovedElements []string `json:"removedElements,omitempty"`
	// ChangedElements maps an element id to the JSON keys whose value changed.
	// A change of variant is reported as the "__type" key.
	ChangedElements map[string][]string `json:"changedElements,omitempty"`

	AddedRelationships   []string `json:"addedRelationships,omitempty"`
	RemovedRelationships []string `json:"removedRelationships,omitempty"`
	ChangedRelationships []string `json:"changedRelationships,omitempty"`
}

// Empty reports whether the documents were equivalent.
func (d *DocumentDiff) Empty() bool {
	if d == nil {
		return true
	}
	return len(d.AddedElements)+len(d.RemovedElements)+len(d.ChangedElements)+
		len(d.AddedRelationships)+len(d.RemovedRelationships)+len(d.ChangedRelationships) == 0
}

// Diff compares two documents by id. A nil oldDoc means everything in
// newDoc was added. It returns nil when nothing changed.
func Diff(oldDoc, newDoc *Document) (*DocumentDiff, error) {
	if oldDoc == nil {
		oldDoc = &Document{}
	}
	if newDoc == nil {
		newDoc = &Document{}
	}

	oldFields, err := fieldsByID(oldDoc.Elements)
	if err != nil {
		return nil, err
	}
	newFields, err := fieldsByID(newDoc.Elements)
	if err != nil {
		return nil, err
	}

	diff := &DocumentDiff{}
	for _, e := range newDoc.Elements {
		id := e.Attrs().ID
		before, existed := oldFields[id]
		if !existed {
			diff.AddedElements = append(diff.AddedElements, id)
			continue
		}
		if keys := changedKeys(before, newFields[id]); len(keys) > 0 {
			if diff.ChangedElements == nil {
				diff.ChangedElements = make(map[string][]string)
			}
			diff.ChangedElements[id] = keys
		}
	}
	for _, e := range oldDoc.Elements {
		if _, kept := newFields[e.Attrs().ID]; !kept {
			diff.RemovedElements = append(diff.RemovedElements, e.Attrs().ID)
		}
	}

	oldRels := make(map[string]Relationship, len(oldDoc.Relationships))
	for _, r := range oldDoc.Relationships {
		oldRels[r.ID] = r
	}
	newRels := make(map[string]bool, len(newDoc.Relationships))
	for _, r := range newDoc.Relationships {
		newRels[r.ID] = true
		before, existed := oldRels[r.ID]
		switch {
		case !existed:
			diff.AddedRelationships = append(diff.AddedRelationships, r.ID)
		case !sameRelationship(before, r):
			diff.ChangedRelationships = append(diff.ChangedRelationships, r.ID)
		}
	}
	for _, r := range oldDoc.Relationships {
		if !newRels[r.ID] {
			diff.RemovedRelationships = append(diff.RemovedRelationships, r.ID)
		}
	}

	if diff.Empty() {
		return nil, nil
	}
	return diff, nil
}

// fieldsByID decodes every element into its generic JSON form.
func fieldsByID(elements []Element) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(elements))
	for _, e := range elements {
		data, err := MarshalElement(e)
		if err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode %s %q: %w", e.Kind(), e.Attrs().ID, err)
		}
		out[e.Attrs().ID] = fields
	}
	return out, nil
}

func changedKeys(before, after map[string]any) []string {
	var keys []string
	for k, v := range after {
		if old, ok := before[k]; !ok || !reflect.DeepEqual(old, v) {
			keys = append(keys, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func sameRelationship(a, b Relationship) bool {
	if a.Type != b.Type || a.SourceID != b.SourceID || a.TargetID != b.TargetID || a.Name != b.Name {
		return false
	}
	if len(a.Vertices) == 0 || len(b.Vertices) == 0 {
		return len(a.Vertices) == len(b.Vertices)
	}
	var va, vb any
	if json.Unmarshal(a.Vertices, &va) != nil || json.Unmarshal(b.Vertices, &vb) != nil {
		return string(a.Vertices) == string(b.Vertices)
	}
	return reflect.DeepEqual(va, vb)
}

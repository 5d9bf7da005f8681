package validator

import (
	"fmt"

	"github.com/aretw0/sysml/pkg/domain"
)

// Lookup resolves an element id.
type Lookup func(id string) (domain.Element, bool)

// Index builds a Lookup over a fixed set of elements.
// When ids repeat, the last element wins.
func Index(elements []domain.Element) Lookup {
	byID := make(map[string]domain.Element, len(elements))
	for _, e := range elements {
		if e != nil {
			byID[e.Attrs().ID] = e
		}
	}
	return func(id string) (domain.Element, bool) {
		e, ok := byID[id]
		return e, ok
	}
}

// label renders an element for messages, e.g. `PartDefinition "Engine" (pd-1)`.
func label(e domain.Element) string {
	b := e.Attrs()
	if b.Name == "" {
		return fmt.Sprintf("%s (%s)", e.Kind(), b.ID)
	}
	return fmt.Sprintf("%s %q (%s)", e.Kind(), b.Name, b.ID)
}

func resolves(lookup Lookup, id string) bool {
	if lookup == nil || id == "" {
		return false
	}
	_, ok := lookup(id)
	return ok
}

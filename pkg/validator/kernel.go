package validator

import (
	"fmt"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/graph"
)

// ValidateAssociationMultiplicities reports an association with fewer than two
// end features, and resolvable end features whose multiplicity is invalid.
func ValidateAssociationMultiplicities(a *domain.Association, lookup Lookup) []string {
	var out []string
	if len(a.EndFeatures) < 2 {
		out = append(out, fmt.Sprintf("%s must have at least 2 end features, has %d", label(a), len(a.EndFeatures)))
	}
	for _, id := range a.EndFeatures {
		if lookup == nil {
			break
		}
		e, ok := lookup(id)
		if !ok {
			continue
		}
		if f, ok := domain.FeatureOf(e); ok {
			if m := f.EffectiveMultiplicity(); !m.IsValid() {
				out = append(out, fmt.Sprintf("%s end feature %q has invalid multiplicity %d..%d", label(a), id, m.Lower, m.Upper))
			}
		}
	}
	return out
}

// ValidateConnectorEnds reports a connector (of any variant) with fewer than two
// connected features or with connected features that do not resolve.
func ValidateConnectorEnds(e domain.Element, lookup Lookup) []string {
	c, ok := domain.ConnectorOf(e)
	if !ok {
		return nil
	}
	var out []string
	if len(c.ConnectedFeatures) < 2 {
		out = append(out, fmt.Sprintf("%s must connect at least 2 features, connects %d", label(e), len(c.ConnectedFeatures)))
	}
	for _, id := range c.ConnectedFeatures {
		if !resolves(lookup, id) {
			out = append(out, fmt.Sprintf("%s references unknown feature %q", label(e), id))
		}
	}
	if c.AssociationID != "" && !resolves(lookup, c.AssociationID) {
		out = append(out, fmt.Sprintf("%s references unknown association %q", label(e), c.AssociationID))
	}
	return out
}

// ValidateSuccessionItemFlow reports a flow whose item type does not resolve.
func ValidateSuccessionItemFlow(f *domain.SuccessionItemFlow, lookup Lookup) []string {
	if f.ItemTypeID == "" {
		return []string{fmt.Sprintf("%s has no item type", label(f))}
	}
	if !resolves(lookup, f.ItemTypeID) {
		return []string{fmt.Sprintf("%s references unknown item type %q", label(f), f.ItemTypeID)}
	}
	return nil
}

// ValidateBehaviorHierarchy reports steps, and for functions the expression and
// result, that do not resolve.
func ValidateBehaviorHierarchy(e domain.Element, lookup Lookup) []string {
	b, ok := domain.BehaviorOf(e)
	if !ok {
		return nil
	}
	var out []string
	for _, id := range b.Steps {
		if !resolves(lookup, id) {
			out = append(out, fmt.Sprintf("%s references unknown step %q", label(e), id))
		}
	}
	if fn, ok := e.(*domain.Function); ok {
		if fn.ExpressionID != "" && !resolves(lookup, fn.ExpressionID) {
			out = append(out, fmt.Sprintf("%s references unknown expression %q", label(e), fn.ExpressionID))
		}
		if fn.ResultID != "" && !resolves(lookup, fn.ResultID) {
			out = append(out, fmt.Sprintf("%s references unknown result %q", label(e), fn.ResultID))
		}
	}
	return out
}

// ValidatePackageNesting reports imports that do not resolve to a package and
// any import cycle reachable from p, naming every package on the cycle.
func ValidatePackageNesting(p *domain.Package, lookup Lookup) []string {
	var out []string
	for _, id := range p.Imports {
		e, ok := lookupOK(lookup, id)
		switch {
		case !ok:
			out = append(out, fmt.Sprintf("%s imports unknown package %q", label(p), id))
		case e.Kind() != domain.KindPackage:
			out = append(out, fmt.Sprintf("%s imports %s, which is not a package", label(p), label(e)))
		}
	}

	imports := func(id string) []string {
		if id == p.ID {
			return p.Imports
		}
		e, ok := lookupOK(lookup, id)
		if !ok {
			return nil
		}
		if pkg, ok := e.(*domain.Package); ok {
			return pkg.Imports
		}
		return nil
	}
	if cycle, found := graph.FindCycle(imports, p.ID); found {
		out = append(out, fmt.Sprintf("circular package import detected: %s", cycle))
	}
	return out
}

func lookupOK(lookup Lookup, id string) (domain.Element, bool) {
	if lookup == nil {
		return nil, false
	}
	return lookup(id)
}

// kernelFindings runs every kernel check that applies to e.
func kernelFindings(e domain.Element, lookup Lookup) []string {
	var out []string
	switch v := e.(type) {
	case *domain.Association:
		out = append(out, ValidateAssociationMultiplicities(v, lookup)...)
	case *domain.SuccessionItemFlow:
		out = append(out, ValidateConnectorEnds(v, lookup)...)
		out = append(out, ValidateSuccessionItemFlow(v, lookup)...)
	case *domain.Connector:
		out = append(out, ValidateConnectorEnds(v, lookup)...)
	case *domain.Behavior, *domain.Function:
		out = append(out, ValidateBehaviorHierarchy(v, lookup)...)
	case *domain.Package:
		out = append(out, ValidatePackageNesting(v, lookup)...)
	}
	return out
}

// ValidateAll runs the kernel checks over every element, resolving ids among
// the given elements only.
func ValidateAll(elements []domain.Element) []string {
	lookup := Index(elements)
	var out []string
	for _, e := range elements {
		if e == nil {
			continue
		}
		out = append(out, kernelFindings(e, lookup)...)
	}
	return out
}

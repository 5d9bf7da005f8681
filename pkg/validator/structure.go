package validator

import (
	"strings"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/graph"
)

// specializations walks the specializationIds of classifiers. Ids that do not
// resolve to a classifier end the walk.
func specializations(lookup Lookup) graph.Successors {
	return func(id string) []string {
		if lookup == nil {
			return nil
		}
		e, ok := lookup(id)
		if !ok {
			return nil
		}
		c, ok := domain.ClassifierOf(e)
		if !ok {
			return nil
		}
		return c.SpecializationIDs
	}
}

// ValidateNoCyclicSpecialization fails when the specialization chain starting
// at e loops, either back to e or anywhere further along.
// The element itself is used for the first step even if lookup does not know it.
func ValidateNoCyclicSpecialization(e domain.Element, lookup Lookup) error {
	c, ok := domain.ClassifierOf(e)
	if !ok {
		return nil
	}
	id := e.Attrs().ID
	base := specializations(lookup)
	next := func(n string) []string {
		if n == id {
			return c.SpecializationIDs
		}
		return base(n)
	}
	if cycle, found := graph.FindCycle(next, id); found {
		return domain.NewValidationError(id, domain.RuleCyclicSpecialization,
			"cyclic specialization detected: %s", cycle)
	}
	return nil
}

func requireName(e domain.Element) error {
	if strings.TrimSpace(e.Attrs().Name) == "" {
		return domain.NewValidationError(e.Attrs().ID, domain.RuleNameRequired,
			"%s must have a name", e.Kind())
	}
	return nil
}

func requireResolved(e domain.Element, lookup Lookup, field string, ids ...string) error {
	for _, ref := range ids {
		if !resolves(lookup, ref) {
			return domain.NewValidationError(e.Attrs().ID, domain.RuleUnresolvedReference,
				"%s references unknown %s %q", label(e), field, ref)
		}
	}
	return nil
}

// requireKind checks that ref resolves to an element of kind want.
func requireKind(e domain.Element, lookup Lookup, field, ref string, want domain.Kind) error {
	if err := requireResolved(e, lookup, field, ref); err != nil {
		return err
	}
	target, _ := lookup(ref)
	if target.Kind() != want {
		return domain.NewValidationError(e.Attrs().ID, domain.RuleDefinitionKind,
			"%s %s %q is a %s, expected %s", label(e), field, ref, target.Kind(), want)
	}
	return nil
}

// ValidateDefinition checks a definition of any variant.
func ValidateDefinition(e domain.Element, lookup Lookup) error {
	def, ok := domain.DefinitionOf(e)
	if !ok {
		return domain.NewValidationError(e.Attrs().ID, domain.RuleDefinitionKind,
			"%s is not a definition", label(e))
	}
	if err := requireName(e); err != nil {
		return err
	}
	if def.IsAbstract && len(def.UsageReferences) > 0 {
		return domain.NewValidationError(def.ID, domain.RuleAbstractUsages,
			"abstract %s cannot have usage references (%d found)", label(e), len(def.UsageReferences))
	}

	for _, ref := range def.SpecializationIDs {
		if err := requireResolved(e, lookup, "specialization", ref); err != nil {
			return err
		}
		target, _ := lookup(ref)
		if _, ok := domain.DefinitionOf(target); !ok {
			return domain.NewValidationError(def.ID, domain.RuleDefinitionKind,
				"%s specializes %s, which is not a definition", label(e), label(target))
		}
	}
	if err := ValidateNoCyclicSpecialization(e, lookup); err != nil {
		return err
	}

	switch d := e.(type) {
	case *domain.UseCaseDefinition:
		if d.SubjectID != "" {
			if err := requireResolved(e, lookup, "subject", d.SubjectID); err != nil {
				return err
			}
		}
		for _, ref := range d.IncludedUseCases {
			if err := requireKind(e, lookup, "included use case", ref, domain.KindUseCaseDefinition); err != nil {
				return err
			}
		}
	case *domain.VerificationCaseDefinition:
		if d.SubjectID != "" {
			if err := requireResolved(e, lookup, "subject", d.SubjectID); err != nil {
				return err
			}
		}
	case *domain.InterfaceDefinition:
		for _, ref := range d.EndPorts {
			if err := requireKind(e, lookup, "end port", ref, domain.KindPortDefinition); err != nil {
				return err
			}
		}
	case *domain.ConnectionDefinition:
		for _, ref := range []string{d.SourceTypeID, d.TargetTypeID} {
			if ref == "" {
				continue
			}
			if err := requireResolved(e, lookup, "end type", ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateUsage checks a usage of any variant, including action usages.
func ValidateUsage(e domain.Element, lookup Lookup) error {
	u, ok := domain.UsageOf(e)
	if !ok {
		return domain.NewValidationError(e.Attrs().ID, domain.RuleDefinitionKind,
			"%s is not a usage", label(e))
	}
	if err := requireName(e); err != nil {
		return err
	}
	if !u.IsAbstract && u.IsReference && u.DefinitionID == "" {
		return domain.NewValidationError(u.ID, domain.RuleDefinitionRequired,
			"reference %s must specify a definition", label(e))
	}
	if u.DefinitionID != "" {
		want, ok := domain.DefinitionKindFor(e.Kind())
		if !ok {
			return requireResolved(e, lookup, "definition", u.DefinitionID)
		}
		if err := requireKind(e, lookup, "definition", u.DefinitionID, want); err != nil {
			return err
		}
	}
	if m := u.EffectiveMultiplicity(); !m.IsValid() {
		return domain.NewValidationError(u.ID, domain.RuleMultiplicity,
			"%s has invalid multiplicity %d..%d", label(e), m.Lower, m.Upper)
	}
	return nil
}

// ValidateFeature checks a feature of any variant: its name, multiplicity,
// typing and redefinition references.
func ValidateFeature(e domain.Element, lookup Lookup) error {
	f, ok := domain.FeatureOf(e)
	if !ok {
		return domain.NewValidationError(e.Attrs().ID, domain.RuleDefinitionKind,
			"%s is not a feature", label(e))
	}
	if err := requireName(e); err != nil {
		return err
	}
	if m := f.EffectiveMultiplicity(); !m.IsValid() {
		return domain.NewValidationError(f.ID, domain.RuleMultiplicity,
			"%s has invalid multiplicity %d..%d", label(e), m.Lower, m.Upper)
	}
	if err := requireResolved(e, lookup, "type", f.TypeIDs...); err != nil {
		return err
	}
	for _, ref := range f.RedefinedFeatureIDs {
		if ref == f.ID {
			return domain.NewValidationError(f.ID, domain.RuleSelfRedefinition,
				"%s cannot redefine itself", label(e))
		}
	}
	if err := requireResolved(e, lookup, "redefined feature", f.RedefinedFeatureIDs...); err != nil {
		return err
	}
	for _, ref := range f.SubsettedFeatureIDs {
		if ref == f.ID {
			return domain.NewValidationError(f.ID, domain.RuleSelfRedefinition,
				"%s cannot subset itself", label(e))
		}
		for _, redefined := range f.RedefinedFeatureIDs {
			if ref == redefined {
				return domain.NewValidationError(f.ID, domain.RuleConflictingReferences,
					"%s both redefines and subsets %q", label(e), ref)
			}
		}
	}
	return nil
}

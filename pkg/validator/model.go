package validator

import (
	"github.com/aretw0/sysml/pkg/domain"
)

// ValidateModel checks every element and returns nil or an *AggregateError of
// *domain.ValidationError values, in element order. Kernel findings are
// reported under the domain.RuleKernel rule.
func ValidateModel(elements []domain.Element, lookup Lookup) error {
	if lookup == nil {
		lookup = Index(elements)
	}

	var c collector
	for _, e := range elements {
		if e == nil {
			continue
		}
		c.add(validateElement(e, lookup))
		for _, msg := range kernelFindings(e, lookup) {
			c.add(&domain.ValidationError{ElementID: e.Attrs().ID, Rule: domain.RuleKernel, Message: msg})
		}
	}
	return c.result()
}

func validateElement(e domain.Element, lookup Lookup) error {
	k := e.Kind()
	switch {
	case k.IsDefinition():
		return ValidateDefinition(e, lookup)
	case k.IsAction():
		if err := ValidateUsage(e, lookup); err != nil {
			return err
		}
		if err := ValidateAction(e, lookup, lookup); err != nil {
			return err
		}
		if l, ok := e.(*domain.LoopActionUsage); ok {
			return ValidateLoopConfiguration(l)
		}
		return nil
	case k.IsUsage():
		return ValidateUsage(e, lookup)
	}

	switch e.(type) {
	case *domain.Feature, *domain.Connector, *domain.SuccessionItemFlow:
		return ValidateFeature(e, lookup)
	case *domain.Association, *domain.Behavior, *domain.Function:
		if err := requireName(e); err != nil {
			return err
		}
		return ValidateNoCyclicSpecialization(e, lookup)
	case *domain.Package:
		return requireName(e)
	}
	return nil
}

package validator

import (
	"github.com/aretw0/sysml/pkg/domain"
)

func asAction(e domain.Element) (*domain.ActionUsage, error) {
	a, ok := domain.ActionOf(e)
	if !ok {
		return nil, domain.NewValidationError(e.Attrs().ID, domain.RuleDefinitionKind,
			"%s is not an action", label(e))
	}
	return a, nil
}

// ValidateParameters checks that every parameter id of the action resolves through getParameter.
func ValidateParameters(e domain.Element, getParameter Lookup) error {
	a, err := asAction(e)
	if err != nil {
		return err
	}
	for _, id := range a.Parameters {
		if !resolves(getParameter, id) {
			return domain.NewValidationError(a.ID, domain.RuleUnresolvedReference,
				"parameter %q of %s not found", id, label(e))
		}
	}
	return nil
}

// ValidateSuccessions checks that every succession id of the action resolves through getAction.
func ValidateSuccessions(e domain.Element, getAction Lookup) error {
	a, err := asAction(e)
	if err != nil {
		return err
	}
	for _, id := range a.Successions {
		if !resolves(getAction, id) {
			return domain.NewValidationError(a.ID, domain.RuleUnresolvedReference,
				"succession %q of %s not found", id, label(e))
		}
	}
	return nil
}

// ValidateIfGuardExclusivity fails when two non-else branches carry the same
// condition text. Branches without a condition are not compared.
func ValidateIfGuardExclusivity(a *domain.IfActionUsage) error {
	seen := make(map[string]string)
	for _, b := range a.Branches {
		if b.IsElse || b.Condition == "" {
			continue
		}
		if first, dup := seen[b.Condition]; dup {
			return domain.NewValidationError(a.ID, domain.RuleDuplicateGuard,
				"duplicate guard condition %q in branches %q and %q", b.Condition, first, b.ID)
		}
		seen[b.Condition] = b.ID
	}
	return nil
}

// ValidateElseBranch fails when more than one branch is marked as else.
func ValidateElseBranch(a *domain.IfActionUsage) error {
	var first string
	for _, b := range a.Branches {
		if !b.IsElse {
			continue
		}
		if first != "" {
			return domain.NewValidationError(a.ID, domain.RuleElseBranch,
				"multiple else branches %q and %q", first, b.ID)
		}
		first = b.ID
	}
	return nil
}

// ValidateLoopMultiplicity checks the body of a parallel loop: every body
// action id must resolve through getAction. Sequential loops always pass.
func ValidateLoopMultiplicity(l *domain.LoopActionUsage, getAction Lookup) error {
	if !l.IsParallel {
		return nil
	}
	for _, id := range l.BodyActions {
		if !resolves(getAction, id) {
			return domain.NewValidationError(l.ID, domain.RuleUnresolvedReference,
				"body action %q of parallel loop %s not found", id, label(l))
		}
	}
	return nil
}

// ValidateLoopConfiguration checks that a loop carries what its loop type needs:
// a condition for while, doWhile and until loops, a collection and an iterator
// name for forEach loops, and a positive iteration cap when one is set.
func ValidateLoopConfiguration(l *domain.LoopActionUsage) error {
	switch l.LoopType {
	case domain.LoopWhile, domain.LoopDoWhile, domain.LoopUntil:
		if l.Condition == "" {
			return domain.NewValidationError(l.ID, domain.RuleLoopConfiguration,
				"%s loop %s has no condition", l.LoopType, label(l))
		}
	case domain.LoopForEach:
		if l.Collection == "" || l.IteratorName == "" {
			return domain.NewValidationError(l.ID, domain.RuleLoopConfiguration,
				"forEach loop %s needs a collection and an iterator name", label(l))
		}
	default:
		return domain.NewValidationError(l.ID, domain.RuleLoopConfiguration,
			"%s has unknown loop type %q", label(l), l.LoopType)
	}
	if l.MaxIterations != nil && *l.MaxIterations <= 0 {
		return domain.NewValidationError(l.ID, domain.RuleLoopConfiguration,
			"%s has non-positive maxIterations %d", label(l), *l.MaxIterations)
	}
	return nil
}

// ValidateAction runs the checks every action gets (parameters, successions)
// and then the checks specific to its variant.
func ValidateAction(e domain.Element, getParameter, getAction Lookup) error {
	if err := ValidateParameters(e, getParameter); err != nil {
		return err
	}
	if err := ValidateSuccessions(e, getAction); err != nil {
		return err
	}

	switch a := e.(type) {
	case *domain.IfActionUsage:
		if err := ValidateIfGuardExclusivity(a); err != nil {
			return err
		}
		return ValidateElseBranch(a)
	case *domain.LoopActionUsage:
		return ValidateLoopMultiplicity(a, getAction)
	}
	return nil
}

// ValidateActionHierarchy validates each root with ValidateAction and stops at
// the first failure. Branch and body action ids are not followed; callers pass
// nested actions as roots of their own.
func ValidateActionHierarchy(roots []domain.Element, getParameter, getAction Lookup) error {
	for _, root := range roots {
		if err := ValidateAction(root, getParameter, getAction); err != nil {
			return err
		}
	}
	return nil
}

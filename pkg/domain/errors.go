package domain

import (
	"errors"
	"fmt"
)

// ErrElementNotFound is returned when an element id cannot be found in the model.
var ErrElementNotFound = errors.New("element not found")

// ErrRelationshipNotFound is returned when a relationship id cannot be found in the model.
var ErrRelationshipNotFound = errors.New("relationship not found")

// ErrDuplicateID is returned when an id is already taken by another element or relationship.
var ErrDuplicateID = errors.New("duplicate id")

// ErrUnknownKind is returned when a "__type" discriminator does not name a registered variant.
var ErrUnknownKind = errors.New("unknown element type")

// ErrMalformedModel is returned when a model document does not have the expected shape.
var ErrMalformedModel = errors.New("malformed model document")

// ErrModelNotFound is returned when a named model document does not exist in a repository.
var ErrModelNotFound = errors.New("model not found")

// ErrValidation matches every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation failed")

// Validation rule identifiers carried by ValidationError.
const (
	RuleNameRequired          = "name-required"
	RuleDefinitionRequired    = "definition-required"
	RuleDefinitionKind        = "definition-kind"
	RuleUnresolvedReference   = "unresolved-reference"
	RuleCyclicSpecialization  = "cyclic-specialization"
	RuleAbstractUsages        = "abstract-usage-references"
	RuleDuplicateGuard        = "duplicate-guard"
	RuleElseBranch            = "else-branch"
	RuleMultiplicity          = "multiplicity"
	RuleSelfRedefinition      = "self-redefinition"
	RuleKernel                = "kerml"
	RuleLoopConfiguration     = "loop-configuration"
	RuleConflictingReferences = "conflicting-references"
)

// ValidationError is the single error kind raised for constraint violations.
type ValidationError struct {
	ElementID string // Offending element, empty for model-wide findings
	Rule      string // One of the Rule* identifiers
	Message   string // Human-readable description
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(elementID, rule, format string, args ...any) *ValidationError {
	return &ValidationError{
		ElementID: elementID,
		Rule:      rule,
		Message:   fmt.Sprintf(format, args...),
	}
}

func (e *ValidationError) Error() string {
	if e.ElementID == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.ElementID, e.Message)
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UnknownKindError reports an unregistered discriminator.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown element type %q", string(e.Kind))
}

func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }

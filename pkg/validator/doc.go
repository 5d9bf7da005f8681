// Package validator checks SysML models for constraint violations.
//
// Two families live here. The structural and behavioral checks
// (ValidateDefinition, ValidateUsage, ValidateFeature, ValidateAction and
// friends) stop at the first violation and return a *domain.ValidationError.
// The KerML kernel checks (ValidateAssociationMultiplicities,
// ValidateConnectorEnds, ValidateSuccessionItemFlow, ValidateBehaviorHierarchy,
// ValidatePackageNesting and ValidateAll) never fail: they return every finding
// as a human-readable string so a whole model can be reported in one pass.
//
// ValidateModel runs both families over a model and folds everything into a
// single *AggregateError whose entries are *domain.ValidationError values.
//
// Validators only read. They never mutate the elements they are given and may
// run concurrently with each other.
package validator

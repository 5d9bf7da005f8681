package domain

// Kind is the type tag of an element variant.
// It doubles as the "__type" discriminator in the JSON interchange format.
type Kind string

// Kernel (KerML) variants.
const (
	KindFeature            Kind = "Feature"
	KindAssociation        Kind = "Association"
	KindConnector          Kind = "Connector"
	KindSuccessionItemFlow Kind = "SuccessionItemFlow"
	KindBehavior           Kind = "Behavior"
	KindFunction           Kind = "Function"
	KindPackage            Kind = "Package"
)

// Structural definition/usage variants.
const (
	KindPartDefinition       Kind = "PartDefinition"
	KindPartUsage            Kind = "PartUsage"
	KindPortDefinition       Kind = "PortDefinition"
	KindPortUsage            Kind = "PortUsage"
	KindConnectionDefinition Kind = "ConnectionDefinition"
	KindConnectionUsage      Kind = "ConnectionUsage"
	KindInterfaceDefinition  Kind = "InterfaceDefinition"
	KindInterfaceUsage       Kind = "InterfaceUsage"

	KindConcernDefinition          Kind = "ConcernDefinition"
	KindUseCaseDefinition          Kind = "UseCaseDefinition"
	KindVerificationCaseDefinition Kind = "VerificationCaseDefinition"
)

// Behavioral variants.
const (
	KindActionDefinition      Kind = "ActionDefinition"
	KindActionUsage           Kind = "ActionUsage"
	KindIfActionUsage         Kind = "IfActionUsage"
	KindLoopActionUsage       Kind = "LoopActionUsage"
	KindPerformActionUsage    Kind = "PerformActionUsage"
	KindSendActionUsage       Kind = "SendActionUsage"
	KindAcceptActionUsage     Kind = "AcceptActionUsage"
	KindAssignmentActionUsage Kind = "AssignmentActionUsage"
	KindTerminateActionUsage  Kind = "TerminateActionUsage"
)

// definitionKinds maps each usage variant to the definition variant it must be typed by.
var definitionKinds = map[Kind]Kind{
	KindPartUsage:             KindPartDefinition,
	KindPortUsage:             KindPortDefinition,
	KindConnectionUsage:       KindConnectionDefinition,
	KindInterfaceUsage:        KindInterfaceDefinition,
	KindActionUsage:           KindActionDefinition,
	KindIfActionUsage:         KindActionDefinition,
	KindLoopActionUsage:       KindActionDefinition,
	KindPerformActionUsage:    KindActionDefinition,
	KindSendActionUsage:       KindActionDefinition,
	KindAcceptActionUsage:     KindActionDefinition,
	KindAssignmentActionUsage: KindActionDefinition,
	KindTerminateActionUsage:  KindActionDefinition,
}

// DefinitionKindFor returns the definition variant a usage variant is typed by.
func DefinitionKindFor(usage Kind) (Kind, bool) {
	k, ok := definitionKinds[usage]
	return k, ok
}

// IsDefinition reports whether k is a definition variant.
func (k Kind) IsDefinition() bool {
	switch k {
	case KindPartDefinition, KindPortDefinition, KindConnectionDefinition,
		KindInterfaceDefinition, KindConcernDefinition, KindUseCaseDefinition,
		KindVerificationCaseDefinition, KindActionDefinition:
		return true
	}
	return false
}

// IsUsage reports whether k is a usage variant.
func (k Kind) IsUsage() bool {
	_, ok := definitionKinds[k]
	return ok
}

// IsAction reports whether k is an action usage variant.
func (k Kind) IsAction() bool {
	return definitionKinds[k] == KindActionDefinition
}

func (k Kind) String() string { return string(k) }

package domain

// ActionDefinition declares a reusable behavior.
type ActionDefinition struct {
	Definition
	Parameters   []string `json:"parameters"`
	ActionUsages []string `json:"actionUsages"`

	usages usageCache[Element]
}

func (d *ActionDefinition) Kind() Kind { return KindActionDefinition }

// RegisterActionUsage types an action usage of any variant by d.
// Elements that are not action usages are ignored.
func (d *ActionDefinition) RegisterActionUsage(e Element) {
	a, ok := ActionOf(e)
	if !ok {
		return
	}
	register(d.ID, &a.Usage, &d.ActionUsages, &d.usages, e)
}

// RemoveActionUsage detaches the action usage with the given id.
func (d *ActionDefinition) RemoveActionUsage(id string) bool {
	return unregister(&d.ActionUsages, &d.usages, id)
}

// UsageByID returns a registered live action usage.
func (d *ActionDefinition) UsageByID(id string) (Element, bool) { return d.usages.get(id) }

// Usages returns the registered live action usages in registration order.
func (d *ActionDefinition) Usages() []Element { return d.usages.all() }

// ActionUsage is a step of behavior. It is the base of all action variants.
type ActionUsage struct {
	Usage
	Parameters     []string `json:"parameters"`
	Bodies         []string `json:"bodies"`
	Successions    []string `json:"successions"`
	Preconditions  []string `json:"preconditions"`
	Postconditions []string `json:"postconditions"`
	Guard          string   `json:"guard,omitempty"`
}

func (a *ActionUsage) Kind() Kind { return KindActionUsage }

func (a *ActionUsage) action() *ActionUsage { return a }

// Branch is one arm of an IfActionUsage.
type Branch struct {
	ID        string   `json:"id"`
	Condition string   `json:"condition,omitempty"` // empty means no condition
	Actions   []string `json:"actions"`
	IsElse    bool     `json:"isElse,omitempty"`
}

// IfActionUsage selects among ordered branches by guard condition.
type IfActionUsage struct {
	ActionUsage
	Branches []Branch `json:"branches"`
}

func (a *IfActionUsage) Kind() Kind { return KindIfActionUsage }

// AddBranch appends a guarded branch and returns it. An empty id is generated.
func (a *IfActionUsage) AddBranch(id, condition string, actions ...string) Branch {
	if id == "" {
		id = NewID()
	}
	b := Branch{ID: id, Condition: condition, Actions: append([]string{}, actions...)}
	a.Branches = append(a.Branches, b)
	return b
}

// AddElse appends an else branch and returns it. An empty id is generated.
func (a *IfActionUsage) AddElse(id string, actions ...string) Branch {
	if id == "" {
		id = NewID()
	}
	b := Branch{ID: id, Actions: append([]string{}, actions...), IsElse: true}
	a.Branches = append(a.Branches, b)
	return b
}

// ElseBranch returns the first else branch, if any.
func (a *IfActionUsage) ElseBranch() (Branch, bool) {
	for _, b := range a.Branches {
		if b.IsElse {
			return b, true
		}
	}
	return Branch{}, false
}

// LoopKind selects the iteration style of a LoopActionUsage.
type LoopKind string

const (
	LoopWhile   LoopKind = "while"
	LoopDoWhile LoopKind = "doWhile"
	LoopUntil   LoopKind = "until"
	LoopForEach LoopKind = "forEach"
)

// LoopActionUsage repeats its body actions.
type LoopActionUsage struct {
	ActionUsage
	LoopType      LoopKind `json:"loopType"`
	Condition     string   `json:"condition,omitempty"`
	Collection    string   `json:"collection,omitempty"`
	IteratorName  string   `json:"iteratorName,omitempty"`
	BodyActions   []string `json:"bodyActions"`
	IsParallel    bool     `json:"isParallel,omitempty"`
	MaxIterations *int     `json:"maxIterations,omitempty"`
}

func (a *LoopActionUsage) Kind() Kind { return KindLoopActionUsage }

// PerformActionUsage performs another action.
type PerformActionUsage struct {
	ActionUsage
	PerformedActionID string            `json:"performedActionId,omitempty"`
	InputBindings     map[string]string `json:"inputBindings,omitempty"`
}

func (a *PerformActionUsage) Kind() Kind { return KindPerformActionUsage }

// SendActionUsage sends a payload to a receiver.
type SendActionUsage struct {
	ActionUsage
	Payload    string `json:"payload,omitempty"`
	ReceiverID string `json:"receiverId,omitempty"`
	ViaPortID  string `json:"viaPortId,omitempty"`
}

func (a *SendActionUsage) Kind() Kind { return KindSendActionUsage }

// AcceptActionUsage waits for an incoming payload.
type AcceptActionUsage struct {
	ActionUsage
	PayloadName   string `json:"payloadName,omitempty"`
	PayloadTypeID string `json:"payloadTypeId,omitempty"`
	ReceiverID    string `json:"receiverId,omitempty"`
	Timeout       int64  `json:"timeout,omitempty"` // milliseconds, 0 waits forever
}

func (a *AcceptActionUsage) Kind() Kind { return KindAcceptActionUsage }

// AssignmentActionUsage assigns the value of an expression to a feature.
type AssignmentActionUsage struct {
	ActionUsage
	TargetFeatureID string `json:"targetFeatureId,omitempty"`
	Expression      string `json:"expression,omitempty"`
}

func (a *AssignmentActionUsage) Kind() Kind { return KindAssignmentActionUsage }

// TerminateScope is what a TerminateActionUsage ends.
type TerminateScope string

const (
	TerminateAction     TerminateScope = "action"
	TerminateOccurrence TerminateScope = "occurrence"
	TerminateAll        TerminateScope = "all"
)

// TerminateActionUsage ends the enclosing action, an occurrence or everything.
type TerminateActionUsage struct {
	ActionUsage
	Scope        TerminateScope `json:"scope,omitempty"`
	TerminatedID string         `json:"terminatedId,omitempty"`
}

func (a *TerminateActionUsage) Kind() Kind { return KindTerminateActionUsage }

package domain

// Association is a KerML classifier relating its end features.
type Association struct {
	Classifier
	EndFeatures []string `json:"endFeatures"`
}

func (a *Association) Kind() Kind { return KindAssociation }

// Connector is a feature linking other features, optionally typed by an Association.
type Connector struct {
	Feature
	ConnectedFeatures []string `json:"connectedFeatures"`
	AssociationID     string   `json:"associationId,omitempty"`
}

func (c *Connector) Kind() Kind { return KindConnector }

func (c *Connector) connector() *Connector { return c }

// ConnectorOf returns the Connector record of e, if e is a connector of any variant.
func ConnectorOf(e Element) (*Connector, bool) {
	h, ok := e.(interface{ connector() *Connector })
	if !ok {
		return nil, false
	}
	return h.connector(), true
}

// SuccessionItemFlow is a succession that also carries items of a given type.
type SuccessionItemFlow struct {
	Connector
	ItemTypeID   string `json:"itemType,omitempty"`
	SourceOutput string `json:"sourceOutput,omitempty"`
	TargetInput  string `json:"targetInput,omitempty"`
}

func (f *SuccessionItemFlow) Kind() Kind { return KindSuccessionItemFlow }

// Behavior is a classifier of performances made of steps.
type Behavior struct {
	Classifier
	Steps []string `json:"steps"`
}

func (b *Behavior) Kind() Kind { return KindBehavior }

func (b *Behavior) behavior() *Behavior { return b }

// BehaviorOf returns the Behavior record of e, if e is a behavior of any variant.
func BehaviorOf(e Element) (*Behavior, bool) {
	h, ok := e.(interface{ behavior() *Behavior })
	if !ok {
		return nil, false
	}
	return h.behavior(), true
}

// Function is a behavior that computes a result from an expression.
type Function struct {
	Behavior
	ExpressionID string `json:"expression,omitempty"`
	ResultID     string `json:"result,omitempty"`
}

func (f *Function) Kind() Kind { return KindFunction }

// Package is a namespace of members that may import other packages.
type Package struct {
	Base
	Members []string `json:"members"`
	Imports []string `json:"imports"`
}

func (p *Package) Kind() Kind { return KindPackage }

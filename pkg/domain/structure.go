package domain

import "fmt"

// PartDefinition declares a reusable system part.
type PartDefinition struct {
	Definition
	PartUsages []string `json:"partUsages"`
	OwnedPorts []string `json:"ownedPorts"`

	usages usageCache[*PartUsage]
}

func (d *PartDefinition) Kind() Kind { return KindPartDefinition }

// RegisterPartUsage types u by d. Registering the same id twice keeps one
// list entry and the last registered object.
func (d *PartDefinition) RegisterPartUsage(u *PartUsage) {
	register(d.ID, &u.Usage, &d.PartUsages, &d.usages, u)
}

// RemovePartUsage detaches the usage with the given id.
func (d *PartDefinition) RemovePartUsage(id string) bool {
	return unregister(&d.PartUsages, &d.usages, id)
}

// UsageByID returns a registered live usage.
func (d *PartDefinition) UsageByID(id string) (*PartUsage, bool) { return d.usages.get(id) }

// Usages returns the registered live usages in registration order.
func (d *PartDefinition) Usages() []*PartUsage { return d.usages.all() }

// PartUsage is a part occurrence typed by a PartDefinition.
type PartUsage struct {
	Usage
	PortUsages []string `json:"portUsages"`
}

func (u *PartUsage) Kind() Kind { return KindPartUsage }

// PortDefinition declares an interaction point type.
type PortDefinition struct {
	Definition
	PortUsages    []string `json:"portUsages"`
	IsConjugated  bool     `json:"isConjugated,omitempty"`
	FlowItemTypes []string `json:"flowItemTypes"`

	usages usageCache[*PortUsage]
}

func (d *PortDefinition) Kind() Kind { return KindPortDefinition }

// RegisterPortUsage types u by d. Registering the same id twice keeps one
// list entry and the last registered object.
func (d *PortDefinition) RegisterPortUsage(u *PortUsage) {
	register(d.ID, &u.Usage, &d.PortUsages, &d.usages, u)
}

// RemovePortUsage detaches the usage with the given id and reports whether it was known.
// The detached usage keeps its DefinitionID.
func (d *PortDefinition) RemovePortUsage(id string) bool {
	return unregister(&d.PortUsages, &d.usages, id)
}

// UsageByID returns a registered live usage.
func (d *PortDefinition) UsageByID(id string) (*PortUsage, bool) { return d.usages.get(id) }

// Usages returns the registered live usages in registration order.
func (d *PortDefinition) Usages() []*PortUsage { return d.usages.all() }

// PortUsage is a port occurrence typed by a PortDefinition.
type PortUsage struct {
	Usage
	IsConjugated bool `json:"isConjugated,omitempty"`
}

func (u *PortUsage) Kind() Kind { return KindPortUsage }

// ConnectionDefinition declares a reusable connection between two end types.
type ConnectionDefinition struct {
	Definition
	ConnectionUsages []string `json:"connectionUsages"`
	SourceTypeID     string   `json:"sourceTypeId,omitempty"`
	TargetTypeID     string   `json:"targetTypeId,omitempty"`

	usages usageCache[*ConnectionUsage]
}

func (d *ConnectionDefinition) Kind() Kind { return KindConnectionDefinition }

// RegisterConnectionUsage types u by d.
func (d *ConnectionDefinition) RegisterConnectionUsage(u *ConnectionUsage) {
	register(d.ID, &u.Usage, &d.ConnectionUsages, &d.usages, u)
}

// RemoveConnectionUsage detaches the usage with the given id and reports whether it was known.
// The detached usage keeps its DefinitionID.
func (d *ConnectionDefinition) RemoveConnectionUsage(id string) bool {
	return unregister(&d.ConnectionUsages, &d.usages, id)
}

// UsageByID returns a registered live usage.
func (d *ConnectionDefinition) UsageByID(id string) (*ConnectionUsage, bool) {
	return d.usages.get(id)
}

// Usages returns the registered live usages in registration order.
func (d *ConnectionDefinition) Usages() []*ConnectionUsage { return d.usages.all() }

// ConnectOptions tunes ConnectionDefinition.Connect.
type ConnectOptions struct {
	ID   string // generated when empty
	Name string // "<def>_<source>_to_<target>" when empty
}

// Connect creates a ConnectionUsage of d between source and target, registers it and returns it.
func (d *ConnectionDefinition) Connect(source, target Element, opts ConnectOptions) *ConnectionUsage {
	src, dst := source.Attrs(), target.Attrs()

	u := &ConnectionUsage{
		SourceID: src.ID,
		TargetID: dst.ID,
	}
	u.ID = opts.ID
	if u.ID == "" {
		u.ID = NewID()
	}
	u.Name = opts.Name
	if u.Name == "" {
		u.Name = fmt.Sprintf("%s_%s_to_%s", d.Name, src.Name, dst.Name)
	}
	if su, ok := UsageOf(source); ok {
		u.SourceTypeID = su.DefinitionID
	}
	if tu, ok := UsageOf(target); ok {
		u.TargetTypeID = tu.DefinitionID
	}

	d.RegisterConnectionUsage(u)
	return u
}

// ConnectionUsage links two usages. End types are written as "sourceType"/"targetType".
type ConnectionUsage struct {
	Usage
	SourceID     string `json:"sourceId,omitempty"`
	TargetID     string `json:"targetId,omitempty"`
	SourceTypeID string `json:"sourceTypeId,omitempty"`
	TargetTypeID string `json:"targetTypeId,omitempty"`
}

func (u *ConnectionUsage) Kind() Kind { return KindConnectionUsage }

// InterfaceDefinition is a connection definition whose ends are ports.
type InterfaceDefinition struct {
	Definition
	InterfaceUsages []string `json:"interfaceUsages"`
	EndPorts        []string `json:"endPorts"`

	usages usageCache[*InterfaceUsage]
}

func (d *InterfaceDefinition) Kind() Kind { return KindInterfaceDefinition }

// RegisterInterfaceUsage types u by d.
func (d *InterfaceDefinition) RegisterInterfaceUsage(u *InterfaceUsage) {
	register(d.ID, &u.Usage, &d.InterfaceUsages, &d.usages, u)
}

// RemoveInterfaceUsage detaches the usage with the given id.
func (d *InterfaceDefinition) RemoveInterfaceUsage(id string) bool {
	return unregister(&d.InterfaceUsages, &d.usages, id)
}

// UsageByID returns a registered live usage.
func (d *InterfaceDefinition) UsageByID(id string) (*InterfaceUsage, bool) {
	return d.usages.get(id)
}

// Usages returns the registered live usages in registration order.
func (d *InterfaceDefinition) Usages() []*InterfaceUsage { return d.usages.all() }

// InterfaceUsage connects two port usages through an InterfaceDefinition.
type InterfaceUsage struct {
	Usage
	SourcePortID string `json:"sourcePortId,omitempty"`
	TargetPortID string `json:"targetPortId,omitempty"`
}

func (u *InterfaceUsage) Kind() Kind { return KindInterfaceUsage }

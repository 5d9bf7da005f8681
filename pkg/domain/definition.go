package domain

// Definition is a reusable type declaration. Concrete definition variants embed it.
type Definition struct {
	Classifier
	IsVariation     bool     `json:"isVariation,omitempty"`
	UsageReferences []string `json:"usageReferences"`
}

func (d *Definition) definition() *Definition { return d }

// Usage is an occurrence of a Definition inside a structural context.
// Concrete usage variants embed it.
type Usage struct {
	Feature
	// DefinitionID references the typing Definition. Its JSON key is
	// variant specific (see WireName).
	DefinitionID string   `json:"definitionId,omitempty"`
	IsReference  bool     `json:"isReference,omitempty"`
	IsVariation  bool     `json:"isVariation,omitempty"`
	NestedUsages []string `json:"nestedUsages"`
}

func (u *Usage) usage() *Usage { return u }

// usageCache holds the live usage objects registered with a definition.
// It is keyed by id, compares by identity and is never serialized.
type usageCache[U Element] struct {
	items []U
}

// put replaces the entry with the same id or appends u.
func (c *usageCache[U]) put(u U) {
	id := u.Attrs().ID
	for i, existing := range c.items {
		if existing.Attrs().ID == id {
			c.items[i] = u
			return
		}
	}
	c.items = append(c.items, u)
}

func (c *usageCache[U]) get(id string) (U, bool) {
	for _, existing := range c.items {
		if existing.Attrs().ID == id {
			return existing, true
		}
	}
	var zero U
	return zero, false
}

func (c *usageCache[U]) remove(id string) bool {
	for i, existing := range c.items {
		if existing.Attrs().ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *usageCache[U]) all() []U {
	out := make([]U, len(c.items))
	copy(out, c.items)
	return out
}

// register binds u to the definition owning ids and cache.
func register[U Element](defID string, bound *Usage, ids *[]string, cache *usageCache[U], u U) {
	bound.DefinitionID = defID
	*ids = AppendUnique(*ids, u.Attrs().ID)
	cache.put(u)
}

// unregister detaches the usage id from ids and cache. The usage's own
// DefinitionID is left untouched.
func unregister[U Element](ids *[]string, cache *usageCache[U], id string) bool {
	var listed bool
	*ids, listed = RemoveID(*ids, id)
	cached := cache.remove(id)
	return listed || cached
}

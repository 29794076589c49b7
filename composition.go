package lexicon

import "reflect"

// Composition is an ordered, mutable list of assets that resolves as one
// asset. Earlier children win for single value lookups.
//
// A Composition is not safe for concurrent mutation. Callers serialize Add,
// Remove, CopyFrom and Clear themselves; lookups only read a snapshot of the
// children taken when the traversal reaches the composition.
type Composition struct {
	items []Asset
}

// NewComposition builds a composition from assets, skipping nil entries.
func NewComposition(assets ...Asset) *Composition {
	c := &Composition{}
	for _, a := range assets {
		if a != nil {
			c.items = append(c.items, a)
		}
	}
	return c
}

// Add appends a.
func (c *Composition) Add(a Asset) error {
	if a == nil {
		return ErrNilAsset
	}
	c.items = append(c.items, a)
	return nil
}

// Remove drops the first child identical to a and reports whether one was
// found. Children of non comparable types are never matched.
func (c *Composition) Remove(a Asset) bool {
	if a == nil || !isComparable(a) {
		return false
	}
	for i, item := range c.items {
		if !isComparable(item) || item != a {
			continue
		}
		c.items = append(c.items[:i:i], c.items[i+1:]...)
		return true
	}
	return false
}

// CopyFrom appends every child of other.
func (c *Composition) CopyFrom(other Composite) {
	if other == nil {
		return
	}
	for _, a := range other.Children() {
		if a != nil {
			c.items = append(c.items, a)
		}
	}
}

// Clear removes every child.
func (c *Composition) Clear() {
	c.items = nil
}

// Children returns a snapshot of the children.
func (c *Composition) Children() []Asset {
	if c == nil || len(c.items) == 0 {
		return nil
	}
	out := make([]Asset, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of children.
func (c *Composition) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

func isComparable(a Asset) bool {
	t := reflect.TypeOf(a)
	return t != nil && t.Comparable()
}

package ecsforge

import (
	"github.com/TheBitDrifter/table"
)

// Component is a stable, process-wide type descriptor for one
// component type: identity, size, alignment, drop. It rides entirely
// on table.ElementType so that layout and destructor glue stay
// table's problem, not ours.
type Component interface {
	table.ElementType
}

// AccessibleComponent pairs a Component identity with a typed column
// accessor. It is the handle user code holds onto for one component
// type: FactoryNewComponent[T]() returns one, and every read/write of
// a T value flows back through it.
type AccessibleComponent[T any] struct {
	Component
	table.Accessor[T]
}

// GetFromCursor retrieves the component value for the entity at the
// cursor's current row.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Get(cursor.entityIndex-1, cursor.currentArchetype.table)
}

// GetFromCursorSafe is GetFromCursor guarded by a presence check, for
// queries where T is optional in the matched archetype.
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !c.Accessor.Check(cursor.currentArchetype.table) {
		return false, nil
	}
	return true, c.GetFromCursor(cursor)
}

// CheckCursor reports whether T is present in the archetype the
// cursor is currently iterating.
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.Accessor.Check(cursor.currentArchetype.table)
}

// GetFromEntity retrieves the component value for a specific entity,
// resolving it through the entity's own table/index rather than a
// cursor position.
func (c AccessibleComponent[T]) GetFromEntity(w *World, e Entity) (*T, error) {
	entry, err := w.resolve(e)
	if err != nil {
		return nil, err
	}
	tbl := entry.Table()
	if !c.Accessor.Check(tbl) {
		return nil, MissingComponentError{Component: c.Component}
	}
	return c.Get(entry.Index(), tbl), nil
}

// ComponentValue is a single field of a DynamicBundle: a component
// identity plus the byte-moving closure that writes its value into a
// freshly allocated archetype row. Produced by AccessibleComponent.With.
type ComponentValue struct {
	Component Component
	write     func(tbl table.Table, index int)
}

// With captures value as the initial contents of this component on
// the next entity Spawn includes it in. Two ComponentValues built from
// the same AccessibleComponent (same identity) in one bundle is a
// DuplicateComponentError, caught by World.Spawn before any row is
// allocated.
func (c AccessibleComponent[T]) With(value T) ComponentValue {
	v := value
	accessor := c.Accessor
	return ComponentValue{
		Component: c.Component,
		write: func(tbl table.Table, index int) {
			*accessor.Get(index, tbl) = v
		},
	}
}

// FactoryNewComponent creates a new AccessibleComponent for type T,
// assigning it a fresh process-wide identity via table's own type
// registry.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	iden := table.FactoryNewElementType[T]()
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  table.FactoryNewAccessor[T](iden),
	}
}

// Comp is the read-only per-entity access pattern:
// the parameter type a for-each System function declares to receive a
// shared reference to T for the entity currently being visited.
type Comp[T any] struct {
	ptr *T
}

// Get returns the underlying component pointer.
func (c Comp[T]) Get() *T { return c.ptr }

// CompMut is the exclusive per-entity access pattern, the counterpart
// to Comp for a System function parameter that needs to mutate T.
type CompMut[T any] struct {
	ptr *T
}

// Get returns the underlying component pointer.
func (c CompMut[T]) Get() *T { return c.ptr }

// Set overwrites the component's value.
func (c CompMut[T]) Set(v T) { *c.ptr = v }

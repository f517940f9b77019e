package ecsforge

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// World owns every archetype and the entity directory for one
// simulation. It exposes spawn/despawn/component
// access and is the exclusive-access target of command-buffer flushes
// and Immediate systems.
type World struct {
	schema  table.Schema
	entries table.EntryIndex

	nextArchetypeID  archetypeID
	archetypes       []*archetype
	archetypesByMask map[mask.Mask]archetypeID
	archetypesByTbl  map[table.Table]*archetype
}

// newWorld constructs a World over the given schema. Each World owns
// its own entry index rather than sharing one process-wide directory,
// so more than one World can exist without entities from one bleeding
// into another's id space.
func newWorld(schema table.Schema) *World {
	return &World{
		schema:           schema,
		entries:          table.Factory.NewEntryIndex(),
		archetypesByMask: make(map[mask.Mask]archetypeID),
		archetypesByTbl:  make(map[table.Table]*archetype),
	}
}

// Archetypes returns every archetype currently in the World, in
// creation order. Used by the query engine to find matches.
func (w *World) Archetypes() []*archetype {
	return w.archetypes
}

// RowIndexFor returns the schema bit assigned to a component, used by
// query nodes to build match masks.
func (w *World) RowIndexFor(c Component) uint32 {
	return w.schema.RowIndexFor(c)
}

func (w *World) archetypeFor(comps []Component) (*archetype, error) {
	var m mask.Mask
	for _, c := range comps {
		w.schema.Register(c)
		m.Mark(w.schema.RowIndexFor(c))
	}
	if id, ok := w.archetypesByMask[m]; ok {
		return w.archetypes[id-1], nil
	}
	w.nextArchetypeID++
	arche, err := newArchetype(w.schema, w.entries, w.nextArchetypeID, comps...)
	if err != nil {
		w.nextArchetypeID--
		return nil, err
	}
	w.archetypes = append(w.archetypes, arche)
	w.archetypesByMask[m] = arche.id
	w.archetypesByTbl[arche.table] = arche
	return arche, nil
}

// Spawn creates one entity with the given component values: it hashes
// the bundle's type set, finds or creates the matching archetype,
// allocates a row, writes every component's value, and records the
// resulting (archetype, row) in the entity directory. Two bundles
// with the same types in any order resolve to the same archetype.
func (w *World) Spawn(values ...ComponentValue) (Entity, error) {
	if len(values) == 0 {
		return Entity{}, EmptyBundleError{}
	}
	comps := make([]Component, len(values))
	seen := make(map[uint32]struct{}, len(values))
	for i, v := range values {
		w.schema.Register(v.Component)
		bit := w.schema.RowIndexFor(v.Component)
		if _, dup := seen[bit]; dup {
			return Entity{}, DuplicateComponentError{Component: v.Component}
		}
		seen[bit] = struct{}{}
		comps[i] = v.Component
	}

	arche, err := w.archetypeFor(comps)
	if err != nil {
		return Entity{}, err
	}
	entries, err := arche.table.NewEntries(1)
	if err != nil {
		return Entity{}, err
	}
	entry := entries[0]
	for _, v := range values {
		v.write(arche.table, entry.Index())
	}
	return Entity{id: entry.ID(), generation: entry.Recycled()}, nil
}

// resolve confirms an entity handle's generation against the live
// directory entry and returns its current table location. Used by
// every read/write/despawn path; never exported because table.Entry
// is an internal detail callers have no business holding onto past
// the call that produced it.
func (w *World) resolve(e Entity) (table.Entry, error) {
	if e.id == 0 {
		return nil, NoSuchEntityError{Entity: e}
	}
	entry, err := w.entries.Entry(int(e.id) - 1)
	if err != nil {
		return nil, NoSuchEntityError{Entity: e}
	}
	if entry.Recycled() != e.generation {
		return nil, NoSuchEntityError{Entity: e}
	}
	return entry, nil
}

// Resolved reports whether e still names a live entity in w.
func (w *World) Resolved(e Entity) bool {
	_, err := w.resolve(e)
	return err == nil
}

// Despawn removes an entity from the world.
// The swap-remove that keeps the archetype dense is table.Table's job;
// World only needs to confirm liveness first.
func (w *World) Despawn(e Entity) error {
	entry, err := w.resolve(e)
	if err != nil {
		return err
	}
	_, err = entry.Table().DeleteEntries(int(entry.ID()))
	if err != nil {
		return bark.AddTrace(err)
	}
	return nil
}

// Query returns a Cursor that lazily iterates every archetype
// matching node.
func (w *World) Query(node QueryNode) *Cursor {
	return newCursor(node, w)
}

// GetComponent resolves e and returns a shared borrow of its T
// component. Panics with BorrowConflict if an
// exclusive borrow on the same column is outstanding; returns a typed
// error for NoSuchEntity / MissingComponent since those are
// recoverable.
func GetComponent[T any](w *World, ac AccessibleComponent[T], e Entity) (ComponentRef[T], error) {
	entry, err := w.resolve(e)
	if err != nil {
		return ComponentRef[T]{}, err
	}
	arche, err := w.archetypeOwning(entry.Table())
	if err != nil {
		return ComponentRef[T]{}, err
	}
	if !ac.Accessor.Check(entry.Table()) {
		return ComponentRef[T]{}, MissingComponentError{Component: ac.Component}
	}
	arche.BorrowComponent(ac.Component)
	ptr := ac.Get(entry.Index(), entry.Table())
	return ComponentRef[T]{value: ptr, release: func() { arche.ReleaseComponent(ac.Component) }}, nil
}

// GetComponentMut is GetComponent's exclusive-borrow counterpart.
func GetComponentMut[T any](w *World, ac AccessibleComponent[T], e Entity) (ComponentRef[T], error) {
	entry, err := w.resolve(e)
	if err != nil {
		return ComponentRef[T]{}, err
	}
	arche, err := w.archetypeOwning(entry.Table())
	if err != nil {
		return ComponentRef[T]{}, err
	}
	if !ac.Accessor.Check(entry.Table()) {
		return ComponentRef[T]{}, MissingComponentError{Component: ac.Component}
	}
	arche.BorrowComponentMut(ac.Component)
	ptr := ac.Get(entry.Index(), entry.Table())
	return ComponentRef[T]{value: ptr, release: func() { arche.ReleaseComponentMut(ac.Component) }}, nil
}

// InsertComponent moves a live entity into the archetype for its
// current component set plus one more, writing value into the new
// column. The entity keeps its id and generation; only its row moves.
func (w *World) InsertComponent(e Entity, value ComponentValue) error {
	entry, err := w.resolve(e)
	if err != nil {
		return err
	}
	origin, err := w.archetypeOwning(entry.Table())
	if err != nil {
		return err
	}
	if origin.table.Contains(value.Component) {
		return DuplicateComponentError{Component: value.Component}
	}

	comps := append(append([]Component{}, origin.components...), value.Component)
	dest, err := w.archetypeFor(comps)
	if err != nil {
		return err
	}
	index := entry.Index()
	if err := origin.table.TransferEntries(dest.table, index); err != nil {
		return bark.AddTrace(err)
	}
	newEntry, err := w.resolve(e)
	if err != nil {
		return err
	}
	value.write(dest.table, newEntry.Index())
	return nil
}

// RemoveComponent moves a live entity into the archetype for its
// current component set minus one, dropping that column's value.
// Removing an entity's only component deletes the entity; removing a
// component it does not have is a no-op.
func (w *World) RemoveComponent(e Entity, c Component) error {
	entry, err := w.resolve(e)
	if err != nil {
		return err
	}
	origin, err := w.archetypeOwning(entry.Table())
	if err != nil {
		return err
	}
	if !origin.table.Contains(c) {
		return nil
	}

	comps := make([]Component, 0, len(origin.components))
	for _, existing := range origin.components {
		if existing != c {
			comps = append(comps, existing)
		}
	}
	if len(comps) == 0 {
		_, err := origin.table.DeleteEntries(int(entry.ID()))
		return err
	}
	dest, err := w.archetypeFor(comps)
	if err != nil {
		return err
	}
	if err := origin.table.TransferEntries(dest.table, entry.Index()); err != nil {
		return bark.AddTrace(err)
	}
	return nil
}

func (w *World) archetypeOwning(tbl table.Table) (*archetype, error) {
	a, ok := w.archetypesByTbl[tbl]
	if !ok {
		return nil, bark.AddTrace(fmt.Errorf("entity resolved to a table with no owning archetype"))
	}
	return a, nil
}

// ComponentRef is a scoped borrow on one component value: value is
// valid only until Release is called. Without borrow-checker
// lifetimes, validity is scoped to the call that produced it; callers
// should not stash a ComponentRef past that point.
type ComponentRef[T any] struct {
	value   *T
	release func()
}

// Get returns the borrowed component pointer.
func (r ComponentRef[T]) Get() *T { return r.value }

// Release gives up the borrow. Calling it more than once is a bug in
// caller bookkeeping: it is harmless for an exclusive borrow, but each
// extra call on a shared borrow decrements the column's reader count
// again. Callers should treat a ComponentRef as single-use.
func (r ComponentRef[T]) Release() {
	if r.release != nil {
		r.release()
	}
}

package ecsforge

import (
	"sync"
	"sync/atomic"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/table"
)

type archetypeID uint32

// columnBorrow is the many-readers-or-one-writer lock tracked per
// column: one atomic counter, one atomic flag.
type columnBorrow struct {
	shared    atomic.Int32
	exclusive atomic.Bool
}

// archetype is the columnar, type-erased store for every entity
// sharing one exact component set. Storage itself (byte layout,
// growth, swap-remove on deletion) is table.Table's job; archetype
// adds the identity (id, schema-relative mask) and the per-column
// borrow state table.Table does not track on its own.
type archetype struct {
	id         archetypeID
	table      table.Table
	schema     table.Schema
	components []Component

	mu      sync.Mutex
	borrows map[uint32]*columnBorrow
}

// heldComponents lists every component in this archetype with an
// outstanding shared or exclusive borrow. Only walked when
// Config.borrowTracing is on, since it takes the borrow map lock.
func (a *archetype) heldComponents() []Component {
	a.mu.Lock()
	defer a.mu.Unlock()
	var held []Component
	for _, c := range a.components {
		bit := a.schema.RowIndexFor(c)
		cb, ok := a.borrows[bit]
		if !ok {
			continue
		}
		if cb.shared.Load() > 0 || cb.exclusive.Load() {
			held = append(held, c)
		}
	}
	return held
}

func newArchetype(schema table.Schema, entryIndex table.EntryIndex, id archetypeID, components ...Component) (*archetype, error) {
	elementTypes := make([]table.ElementType, len(components))
	for i, comp := range components {
		elementTypes[i] = comp
	}
	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, err
	}
	return &archetype{
		table:      tbl,
		schema:     schema,
		id:         id,
		components: components,
		borrows:    make(map[uint32]*columnBorrow),
	}, nil
}

// ID returns the archetype's identity, stable for the lifetime of the
// World or Resources set that created it.
func (a *archetype) ID() uint32 {
	return uint32(a.id)
}

// Table returns the underlying columnar store.
func (a *archetype) Table() table.Table {
	return a.table
}

func (a *archetype) borrowState(c Component) *columnBorrow {
	bit := a.schema.RowIndexFor(c)
	a.mu.Lock()
	cb, ok := a.borrows[bit]
	if !ok {
		cb = &columnBorrow{}
		a.borrows[bit] = cb
	}
	a.mu.Unlock()
	return cb
}

// BorrowComponent takes a shared-read borrow on c's column. Panics if
// an exclusive borrow is already held: a borrow conflict is a
// programming error, never a recoverable result.
func (a *archetype) BorrowComponent(c Component) {
	cb := a.borrowState(c)
	if cb.exclusive.Load() {
		conflict := BorrowConflict{Component: c}
		if Config.borrowTracing {
			conflict.Held = a.heldComponents()
		}
		panic(bark.AddTrace(conflict))
	}
	cb.shared.Add(1)
}

// ReleaseComponent releases one shared-read borrow taken by
// BorrowComponent.
func (a *archetype) ReleaseComponent(c Component) {
	a.borrowState(c).shared.Add(-1)
}

// BorrowComponentMut takes the exclusive borrow on c's column. Panics
// if any shared or exclusive borrow is already held.
func (a *archetype) BorrowComponentMut(c Component) {
	cb := a.borrowState(c)
	if cb.shared.Load() > 0 || !cb.exclusive.CompareAndSwap(false, true) {
		conflict := BorrowConflict{Component: c}
		if Config.borrowTracing {
			conflict.Held = a.heldComponents()
		}
		panic(bark.AddTrace(conflict))
	}
}

// ReleaseComponentMut releases the exclusive borrow taken by
// BorrowComponentMut.
func (a *archetype) ReleaseComponentMut(c Component) {
	a.borrowState(c).exclusive.Store(false)
}

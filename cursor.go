package ecsforge

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

var _ iCursor = &Cursor{}

type iCursor interface {
	Entities() iter.Seq2[int, table.Table]
	Next() bool
}

// Cursor iterates the entities of every archetype matching a QueryNode.
// It is single-use per Initialize/Reset cycle: Reset
// clears matched archetypes and lets the cursor run again from
// scratch, e.g. on the next Schedule tick.
type Cursor struct {
	query QueryNode
	world *World

	currentArchetype *archetype
	archetypeIndex   int
	entityIndex      int
	remaining        int

	initialized     bool
	matchedArchetypes []*archetype
}

func newCursor(query QueryNode, world *World) *Cursor {
	return &Cursor{
		query: query,
		world: world,
	}
}

// Next advances to the next matching entity, returning false once
// every matched archetype has been exhausted.
func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	if !c.initialized {
		c.Initialize()
	}

	for c.archetypeIndex < len(c.matchedArchetypes) {
		c.currentArchetype = c.matchedArchetypes[c.archetypeIndex]
		c.remaining = c.currentArchetype.table.Length()
		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.archetypeIndex++
		c.entityIndex = 0
	}

	c.Reset()
	return false
}

// Entities returns an iterator over (row, table) pairs for every
// matched entity, for callers that prefer range-over-func.
func (c *Cursor) Entities() iter.Seq2[int, table.Table] {
	return func(yield func(int, table.Table) bool) {
		c.Initialize()

		for c.archetypeIndex < len(c.matchedArchetypes) {
			c.currentArchetype = c.matchedArchetypes[c.archetypeIndex]
			c.remaining = c.currentArchetype.table.Length()

			for c.entityIndex < c.remaining {
				if !yield(c.entityIndex, c.currentArchetype.table) {
					c.Reset()
					return
				}
				c.entityIndex++
			}

			c.entityIndex = 0
			c.archetypeIndex++
		}

		c.Reset()
	}
}

// Initialize resolves the set of matching archetypes once, memoizing
// it for the lifetime of this iteration pass.
func (c *Cursor) Initialize() {
	if c.initialized {
		return
	}

	c.matchedArchetypes = make([]*archetype, 0)
	for _, arche := range c.world.Archetypes() {
		if c.query.Evaluate(arche, c.world) {
			c.matchedArchetypes = append(c.matchedArchetypes, arche)
		}
	}

	if len(c.matchedArchetypes) > 0 {
		c.archetypeIndex = 0
		c.currentArchetype = c.matchedArchetypes[0]
		c.remaining = c.currentArchetype.table.Length()
	}

	c.initialized = true
}

// Reset clears cursor position, ready for a fresh pass over the
// world's current archetypes (which may have changed since the last
// pass, e.g. after a command-buffer flush).
func (c *Cursor) Reset() {
	c.archetypeIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matchedArchetypes = nil
	c.initialized = false
}

// CurrentEntity returns the Entity handle at the cursor's current row.
func (c *Cursor) CurrentEntity() (Entity, error) {
	entry, err := c.currentArchetype.table.Entry(c.entityIndex - 1)
	if err != nil {
		return Entity{}, err
	}
	return Entity{id: entry.ID(), generation: entry.Recycled()}, nil
}

// EntityAtOffset returns the Entity handle at offset rows from the
// cursor's current position within the current archetype.
func (c *Cursor) EntityAtOffset(offset int) (Entity, error) {
	entry, err := c.currentArchetype.table.Entry(c.entityIndex - 1 + offset)
	if err != nil {
		return Entity{}, err
	}
	return Entity{id: entry.ID(), generation: entry.Recycled()}, nil
}

// EntityIndex returns the cursor's position within the current
// archetype. After Next it is one past the current row (the row that
// CurrentEntity and GetFromCursor read is EntityIndex()-1).
func (c *Cursor) EntityIndex() int {
	return c.entityIndex
}

// RemainingInArchetype returns how many rows are left in the current archetype.
func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

// TotalMatched counts every entity across every matching archetype.
// Runs and discards its own Initialize/Reset pass, so it is safe to
// call before iterating.
func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.Initialize()
	}

	total := 0
	for _, arche := range c.matchedArchetypes {
		total += arche.table.Length()
	}

	c.Reset()
	return total
}

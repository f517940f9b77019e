package ecsforge

import "github.com/TheBitDrifter/table"

// Config holds process-wide configuration for the underlying table
// system plus a handful of ecsforge-specific diagnostic knobs.
var Config config = config{}

type config struct {
	tableEvents   table.TableEvents
	borrowTracing bool
}

// SetTableEvents configures the table event callbacks invoked as
// archetypes allocate, grow, and transfer entries.
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

// SetBorrowTracing toggles inclusion of every component with an
// outstanding borrow on the conflicting archetype (BorrowConflict.Held)
// in BorrowConflict panics. Off by default since it walks the borrow
// map under lock; enable it while debugging a conflict.
func (c *config) SetBorrowTracing(on bool) {
	c.borrowTracing = on
}

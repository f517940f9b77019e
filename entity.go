package ecsforge

import (
	"fmt"

	"github.com/TheBitDrifter/table"
)

// Entity is an opaque (id, generation) handle naming a live record in
// a World. id is reused after despawn; generation is bumped
// each time, so a handle captured before a despawn/respawn cycle is
// detectable as stale without scanning anything.
type Entity struct {
	id         table.EntryID
	generation int
}

// ID returns the entity's process-local identifier. Two live entities
// in the same World never share an id, but a despawned id is eligible
// for reuse with a higher generation.
func (e Entity) ID() table.EntryID {
	return e.id
}

// Generation returns the entity's generation at the time it was
// issued. A stale handle's generation will be strictly less than the
// generation currently occupying its id.
func (e Entity) Generation() int {
	return e.generation
}

// Valid reports whether this handle was ever issued by a World (a
// zero Entity, as returned on spawn failure, is never valid). It does
// not check liveness; use a World Get/GetMut call for that.
func (e Entity) Valid() bool {
	return e.id != 0
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity{id: %d, generation: %d}", e.id, e.generation)
}

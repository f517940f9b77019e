package ecsforge

import (
	"sync"

	"github.com/TheBitDrifter/bark"
)

// command is one deferred mutation, closing over whatever it needs to
// replay against a World during Apply.
type command func(w *World) error

// CommandBuffer collects Spawn/Despawn/Insert/Remove requests issued
// from inside a system body and applies them to the World in issue
// order once the owning stage finishes running. Safe for
// concurrent use: many systems in the same stage can hold and queue
// onto the same CommandBuffer.
type CommandBuffer struct {
	mu       sync.Mutex
	commands []command
}

// NewCommandBuffer returns an empty CommandBuffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

func (cb *CommandBuffer) enqueue(c command) {
	cb.mu.Lock()
	cb.commands = append(cb.commands, c)
	cb.mu.Unlock()
}

// Spawn defers World.Spawn(values...) to the next Apply. Errors from a
// malformed bundle (e.g. a duplicate component) surface as a panic at
// Apply time rather than at enqueue time, since the bundle cannot be
// validated against a schema until the values are actually written.
// EmptyBundleError/DuplicateComponentError are programmer errors
// here, not recoverable results.
func (cb *CommandBuffer) Spawn(values ...ComponentValue) {
	cb.enqueue(func(w *World) error {
		if _, err := w.Spawn(values...); err != nil {
			panic(bark.AddTrace(err))
		}
		return nil
	})
}

// Despawn defers World.Despawn(e). A stale or already-despawned
// handle is silently ignored: by the time this command runs, the
// entity it named may no longer exist for reasons entirely unrelated
// to the caller's intent.
func (cb *CommandBuffer) Despawn(e Entity) {
	cb.enqueue(func(w *World) error {
		if !w.Resolved(e) {
			return nil
		}
		return w.Despawn(e)
	})
}

// Insert defers adding one component value onto an already-live
// entity, transferring it into the archetype for its current
// component set plus this one. The entity's id and
// generation are unchanged; only its row moves.
func (cb *CommandBuffer) Insert(e Entity, value ComponentValue) {
	cb.enqueue(func(w *World) error {
		if !w.Resolved(e) {
			return nil
		}
		return w.InsertComponent(e, value)
	})
}

// Remove defers dropping one component type from a live entity,
// transferring it into the archetype with every other component it had.
func (cb *CommandBuffer) Remove(e Entity, c Component) {
	cb.enqueue(func(w *World) error {
		if !w.Resolved(e) {
			return nil
		}
		return w.RemoveComponent(e, c)
	})
}

// Apply drains every queued command against w, in the order issued,
// stopping at (and returning) the first error. A malformed Spawn
// bundle surfaces as a panic rather than a returned error, since
// Spawn's deferred closure panics instead of returning one.
func (cb *CommandBuffer) Apply(w *World) error {
	cb.mu.Lock()
	pending := cb.commands
	cb.commands = nil
	cb.mu.Unlock()

	for _, c := range pending {
		if err := c(w); err != nil {
			return err
		}
	}
	return nil
}

// Len reports how many commands are currently queued.
func (cb *CommandBuffer) Len() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return len(cb.commands)
}

package ecsforge

import "fmt"

// NoSuchEntityError reports that an entity handle does not name a live
// entity: either its id was never allocated, or its generation is
// stale (the id has been recycled since the handle was issued).
type NoSuchEntityError struct {
	Entity Entity
}

func (e NoSuchEntityError) Error() string {
	return fmt.Sprintf("no such entity: %v", e.Entity)
}

// MissingComponentError reports that a live entity lacks the
// requested component type.
type MissingComponentError struct {
	Component Component
}

func (e MissingComponentError) Error() string {
	return fmt.Sprintf("entity does not have component: %T", e.Component)
}

// MissingResourceError reports that no value of the requested type
// has ever been inserted into a Resources instance.
type MissingResourceError struct {
	Type string
}

func (e MissingResourceError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Type)
}

// DuplicateComponentError reports that a bundle passed to Spawn named
// the same component identity more than once.
type DuplicateComponentError struct {
	Component Component
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("duplicate component in bundle: %T", e.Component)
}

// EmptyBundleError reports that Spawn was called with zero components.
type EmptyBundleError struct{}

func (e EmptyBundleError) Error() string {
	return "spawn requires at least one component"
}

// BorrowConflict is raised (as a panic, never returned) when a borrow
// request would violate the many-readers-or-one-writer discipline on
// a component column. It is a programming error, not a recoverable
// condition, so it is always raised with panic and never returned.
type BorrowConflict struct {
	Component Component
	Held      []Component
}

func (e BorrowConflict) Error() string {
	if len(e.Held) == 0 {
		return fmt.Sprintf("borrow conflict on component: %T", e.Component)
	}
	return fmt.Sprintf("borrow conflict on component: %T (already held: %v)", e.Component, e.Held)
}

// DuplicateStageError reports a Schedule.AddStage call naming a stage
// that already exists.
type DuplicateStageError struct {
	Stage string
}

func (e DuplicateStageError) Error() string {
	return fmt.Sprintf("stage already exists: %s", e.Stage)
}

// MissingStageError reports a reference (AddStageBefore/After,
// AddSystemToStage) to a stage name that has not been added.
type MissingStageError struct {
	Stage string
}

func (e MissingStageError) Error() string {
	return fmt.Sprintf("stage does not exist: %s", e.Stage)
}

// DuplicateSystemError reports a system name collision within a
// Schedule; system names must be unique across every stage.
type DuplicateSystemError struct {
	System string
}

func (e DuplicateSystemError) Error() string {
	return fmt.Sprintf("system already exists: %s", e.System)
}

// CacheCapacityError reports that a Cache.Register call would exceed
// the cache's fixed capacity.
type CacheCapacityError struct {
	Capacity int
}

func (e CacheCapacityError) Error() string {
	return fmt.Sprintf("cache at maximum capacity (%d)", e.Capacity)
}

// InvalidSystemFuncError reports that a value passed to NewSystem is
// not a function, or that its parameter list does not fit the
// classification System construction requires (a parameter that is not
// Entity, *CommandBuffer, Res/ResMut, or the Comp/CompMut shape of its
// accessor, or a parameter/accessor count mismatch).
type InvalidSystemFuncError struct {
	Reason string
}

func (e InvalidSystemFuncError) Error() string {
	return fmt.Sprintf("invalid system function: %s", e.Reason)
}

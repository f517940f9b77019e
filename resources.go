package ecsforge

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

// Resources is the singleton-component store: each type T
// occupies exactly one slot, addressed by T itself rather than by an
// Entity. Internally it is a degenerate World with one archetype per
// resource type, re-using the same table/borrow machinery entity
// storage uses instead of inventing a parallel implementation.
type Resources struct {
	mu   sync.RWMutex
	byID map[reflect.Type]*resourceSlot
}

type resourceSlot struct {
	arche *archetype
	comp  Component
}

// resourceRegistry maps a Go type to the AccessibleComponent identity
// table assigned it, process-wide, mirroring Rust's TypeId-keyed
// lookup (resources.rs) without a type parameter on Resources itself.
var resourceRegistry sync.Map // reflect.Type -> any (AccessibleComponent[T])

func resourceComponentFor[T any]() AccessibleComponent[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := resourceRegistry.Load(key); ok {
		return v.(AccessibleComponent[T])
	}
	ac := FactoryNewComponent[T]()
	actual, _ := resourceRegistry.LoadOrStore(key, ac)
	return actual.(AccessibleComponent[T])
}

func newResources() *Resources {
	return &Resources{byID: make(map[reflect.Type]*resourceSlot)}
}

func (r *Resources) slotFor(key reflect.Type) (*resourceSlot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[key]
	return s, ok
}

// ResourcesInsert installs or overwrites the singleton value of type T.
// A second Insert of the same type replaces the stored value rather
// than erroring, matching a HashMap entry-or-insert.
func ResourcesInsert[T any](r *Resources, value T) {
	ac := resourceComponentFor[T]()
	key := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.Lock()
	slot, ok := r.byID[key]
	if !ok {
		schema := table.Factory.NewSchema()
		entries := table.Factory.NewEntryIndex()
		arche, err := newArchetype(schema, entries, archetypeID(len(r.byID)+1), ac.Component)
		if err != nil {
			r.mu.Unlock()
			panic(err)
		}
		if _, err := arche.table.NewEntries(1); err != nil {
			r.mu.Unlock()
			panic(err)
		}
		slot = &resourceSlot{arche: arche, comp: ac.Component}
		r.byID[key] = slot
	}
	r.mu.Unlock()

	*ac.Get(0, slot.arche.table) = value
}

// ResourcesGet takes a shared borrow of the type-T resource. Returns
// MissingResourceError if nothing of type T was ever inserted.
func ResourcesGet[T any](r *Resources) (ComponentRef[T], error) {
	key := reflect.TypeOf((*T)(nil)).Elem()
	slot, ok := r.slotFor(key)
	if !ok {
		return ComponentRef[T]{}, MissingResourceError{Type: key.String()}
	}
	ac := resourceComponentFor[T]()
	slot.arche.BorrowComponent(ac.Component)
	ptr := ac.Get(0, slot.arche.table)
	return ComponentRef[T]{value: ptr, release: func() { slot.arche.ReleaseComponent(ac.Component) }}, nil
}

// ResourcesGetMut takes the exclusive borrow of the type-T resource.
func ResourcesGetMut[T any](r *Resources) (ComponentRef[T], error) {
	key := reflect.TypeOf((*T)(nil)).Elem()
	slot, ok := r.slotFor(key)
	if !ok {
		return ComponentRef[T]{}, MissingResourceError{Type: key.String()}
	}
	ac := resourceComponentFor[T]()
	slot.arche.BorrowComponentMut(ac.Component)
	ptr := ac.Get(0, slot.arche.table)
	return ComponentRef[T]{value: ptr, release: func() { slot.arche.ReleaseComponentMut(ac.Component) }}, nil
}

// ResourcesHas reports whether a value of type T is currently installed.
func ResourcesHas[T any](r *Resources) bool {
	key := reflect.TypeOf((*T)(nil)).Elem()
	_, ok := r.slotFor(key)
	return ok
}

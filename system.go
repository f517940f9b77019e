package ecsforge

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// ThreadLocalExecution says whether a System's body must run on the
// goroutine driving the Schedule (Immediate, for systems that touch
// the World directly) or may run off that goroutine and defer its
// mutations to a CommandBuffer flush (NextFlush).
type ThreadLocalExecution int

const (
	NextFlush ThreadLocalExecution = iota
	Immediate
)

// componentBinder lets System's reflection-based dispatcher treat any
// AccessibleComponent[T] uniformly without knowing T at the call site.
// Implemented generically below; every method works purely in terms
// of reflect.Value so the dispatcher never needs a type switch over T.
type componentBinder interface {
	identity() Component
	fetch(cursor *Cursor) reflect.Value
	asComp(ptr reflect.Value) reflect.Value
	asCompMut(ptr reflect.Value) reflect.Value
	compType() reflect.Type
	compMutType() reflect.Type
}

func (ac AccessibleComponent[T]) identity() Component { return ac.Component }

func (ac AccessibleComponent[T]) fetch(cursor *Cursor) reflect.Value {
	return reflect.ValueOf(ac.GetFromCursor(cursor))
}

func (ac AccessibleComponent[T]) asComp(ptr reflect.Value) reflect.Value {
	return reflect.ValueOf(Comp[T]{ptr: ptr.Interface().(*T)})
}

func (ac AccessibleComponent[T]) asCompMut(ptr reflect.Value) reflect.Value {
	return reflect.ValueOf(CompMut[T]{ptr: ptr.Interface().(*T)})
}

func (ac AccessibleComponent[T]) compType() reflect.Type    { return reflect.TypeOf(Comp[T]{}) }
func (ac AccessibleComponent[T]) compMutType() reflect.Type { return reflect.TypeOf(CompMut[T]{}) }

var (
	entityType        = reflect.TypeOf(Entity{})
	commandBufferType = reflect.TypeOf((*CommandBuffer)(nil))
	resourceParamType = reflect.TypeOf((*resourceParam)(nil)).Elem()
)

type paramKind int

const (
	paramEntity paramKind = iota
	paramCommandBuffer
	paramResource
	paramComponent
)

type paramSlot struct {
	kind    paramKind
	binder  componentBinder
	mutable bool
}

// System wraps a for-each function with the bookkeeping a Schedule
// needs to run it: its name, its thread-local requirement, and the
// plumbing that feeds it an Entity/Comp/CompMut/Res/ResMut/CommandBuffer
// argument list per matched entity (grounded on into_system.rs's
// trait-dispatched SystemFn, translated from generic trait bounds to
// runtime reflection since Go has neither macros nor variadic generics).
type System struct {
	name    string
	tle     ThreadLocalExecution
	fn      reflect.Value
	slots   []paramSlot
	query   QueryNode
	cmdBuf  *CommandBuffer
	oneShot func(w *World, r *Resources)
}

// NewSystem builds a for-each System from fn, whose parameters may
// include, in any order: Entity, *CommandBuffer, any Res[T]/ResMut[T],
// and Comp[T]/CompMut[T] for each accessor in accessors. Panics at
// construction time (not at Run time) if a parameter type cannot be
// classified, since a malformed system is a programming error to
// catch as early as possible.
func NewSystem(name string, fn any, accessors ...componentBinder) *System {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		panic(bark.AddTrace(InvalidSystemFuncError{Reason: "fn must be a function"}))
	}

	sys := &System{name: name, tle: NextFlush, fn: fnVal, cmdBuf: NewCommandBuffer()}
	var q Query = NewQuery()
	components := make([]Component, 0, len(accessors))
	nextBinder := 0

	for i := 0; i < fnType.NumIn(); i++ {
		pt := fnType.In(i)
		switch {
		case pt == entityType:
			sys.slots = append(sys.slots, paramSlot{kind: paramEntity})
		case pt == commandBufferType:
			sys.slots = append(sys.slots, paramSlot{kind: paramCommandBuffer})
		case pt.Implements(resourceParamType):
			sys.slots = append(sys.slots, paramSlot{kind: paramResource})
		default:
			if nextBinder >= len(accessors) {
				panic(bark.AddTrace(InvalidSystemFuncError{Reason: "more component parameters than accessors supplied"}))
			}
			binder := accessors[nextBinder]
			nextBinder++
			var mutable bool
			switch pt {
			case binder.compType():
				mutable = false
			case binder.compMutType():
				mutable = true
			default:
				panic(bark.AddTrace(InvalidSystemFuncError{Reason: "parameter type does not match its accessor's Comp/CompMut shape"}))
			}
			sys.slots = append(sys.slots, paramSlot{kind: paramComponent, binder: binder, mutable: mutable})
			components = append(components, binder.identity())
		}
	}
	if nextBinder != len(accessors) {
		panic(bark.AddTrace(InvalidSystemFuncError{Reason: "more accessors supplied than component parameters"}))
	}
	if len(components) > 0 {
		sys.query = q.And(toAny(components)...)
	}
	return sys
}

func toAny(comps []Component) []interface{} {
	out := make([]interface{}, len(comps))
	for i, c := range comps {
		out[i] = c
	}
	return out
}

// NewThreadLocalSystem builds an Immediate System whose body runs
// with direct, exclusive access to the World and Resources: no
// per-entity dispatch, no CommandBuffer indirection.
func NewThreadLocalSystem(name string, fn func(w *World, r *Resources)) *System {
	return &System{name: name, tle: Immediate, oneShot: fn}
}

// Name returns the system's registered name, used by Schedule for
// duplicate detection and diagnostics.
func (s *System) Name() string { return s.name }

// ThreadLocalExecution reports whether this system must run on the
// Schedule's own goroutine.
func (s *System) ThreadLocalExecution() ThreadLocalExecution { return s.tle }

// Run executes the system body once per matched entity (for a for-each
// System) or once overall (for a thread-local System), acquiring and
// releasing every declared borrow around each invocation.
func (s *System) Run(w *World, r *Resources) {
	if s.oneShot != nil {
		s.oneShot(w, r)
		return
	}

	resourceArgs := make([]reflect.Value, len(s.slots))
	var releases []func()
	defer func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}()
	for i, slot := range s.slots {
		if slot.kind != paramResource {
			continue
		}
		zero := reflect.Zero(s.fn.Type().In(i))
		rp := zero.Interface().(resourceParam)
		v, release, err := rp.acquireFrom(r)
		if err != nil {
			panic(bark.AddTrace(err))
		}
		resourceArgs[i] = v
		releases = append(releases, release)
	}

	var cursor *Cursor
	if s.query != nil {
		cursor = w.Query(s.query)
	}

	visit := func() {
		args := make([]reflect.Value, len(s.slots))
		var arche *archetype
		if cursor != nil {
			arche = cursor.currentArchetype
		}
		var held []paramSlot
		defer func() {
			for i := len(held) - 1; i >= 0; i-- {
				if held[i].mutable {
					arche.ReleaseComponentMut(held[i].binder.identity())
				} else {
					arche.ReleaseComponent(held[i].binder.identity())
				}
			}
		}()
		for i, slot := range s.slots {
			switch slot.kind {
			case paramCommandBuffer:
				args[i] = reflect.ValueOf(s.cmdBuf)
			case paramResource:
				args[i] = resourceArgs[i]
			case paramEntity:
				ent, _ := cursor.CurrentEntity()
				args[i] = reflect.ValueOf(ent)
			case paramComponent:
				id := slot.binder.identity()
				if slot.mutable {
					arche.BorrowComponentMut(id)
				} else {
					arche.BorrowComponent(id)
				}
				held = append(held, slot)
				ptr := slot.binder.fetch(cursor)
				if slot.mutable {
					args[i] = slot.binder.asCompMut(ptr)
				} else {
					args[i] = slot.binder.asComp(ptr)
				}
			}
		}
		s.fn.Call(args)
	}

	if cursor == nil {
		visit()
		return
	}
	defer cursor.Reset()
	for cursor.Next() {
		visit()
	}
}

// RunThreadLocal applies this system's CommandBuffer to w. Schedule
// calls this during the flush half of a stage's run-then-flush cycle.
func (s *System) RunThreadLocal(w *World) error {
	if s.cmdBuf == nil {
		return nil
	}
	return s.cmdBuf.Apply(w)
}

package ecsforge

import "github.com/TheBitDrifter/bark"

// Optional wraps a component access pattern so a Fetch family can
// report absence instead of failing the whole match. Go has no
// variadic generics, so bounded arities plus an Optional wrapper
// stand in for an optional query term.
type Optional[T any] struct {
	Present bool
	Value   Comp[T]
}

// Fetch1 walks every entity matching ac's presence in w, visiting one
// component per call to visit. It is the single-arity member of a
// bounded family; Fetch2..Fetch4 repeat the same shape for wider
// tuples. Every touched column is borrowed exclusively around each
// visit call and released after it returns, including on a panic from
// visit.
func Fetch1[A any](w *World, a AccessibleComponent[A], visit func(Entity, *A)) {
	mustNoDuplicateFetch(a.Component)
	q := NewQuery()
	cursor := w.Query(q.And(a.Component))
	defer cursor.Reset()
	for cursor.Next() {
		arche := cursor.currentArchetype
		arche.BorrowComponentMut(a.Component)
		ptr := a.GetFromCursor(cursor)
		ent, err := cursor.CurrentEntity()
		func() {
			defer arche.ReleaseComponentMut(a.Component)
			if err == nil {
				visit(ent, ptr)
			}
		}()
	}
}

// Fetch2 is Fetch1 for a two-component tuple.
func Fetch2[A, B any](w *World, a AccessibleComponent[A], b AccessibleComponent[B], visit func(Entity, *A, *B)) {
	mustNoDuplicateFetch(a.Component, b.Component)
	q := NewQuery()
	cursor := w.Query(q.And(a.Component, b.Component))
	defer cursor.Reset()
	for cursor.Next() {
		arche := cursor.currentArchetype
		arche.BorrowComponentMut(a.Component)
		arche.BorrowComponentMut(b.Component)
		ap := a.GetFromCursor(cursor)
		bp := b.GetFromCursor(cursor)
		ent, err := cursor.CurrentEntity()
		func() {
			defer arche.ReleaseComponentMut(a.Component)
			defer arche.ReleaseComponentMut(b.Component)
			if err == nil {
				visit(ent, ap, bp)
			}
		}()
	}
}

// Fetch3 is Fetch1 for a three-component tuple.
func Fetch3[A, B, C any](w *World, a AccessibleComponent[A], b AccessibleComponent[B], c AccessibleComponent[C], visit func(Entity, *A, *B, *C)) {
	mustNoDuplicateFetch(a.Component, b.Component, c.Component)
	q := NewQuery()
	cursor := w.Query(q.And(a.Component, b.Component, c.Component))
	defer cursor.Reset()
	for cursor.Next() {
		arche := cursor.currentArchetype
		arche.BorrowComponentMut(a.Component)
		arche.BorrowComponentMut(b.Component)
		arche.BorrowComponentMut(c.Component)
		ap := a.GetFromCursor(cursor)
		bp := b.GetFromCursor(cursor)
		cp := c.GetFromCursor(cursor)
		ent, err := cursor.CurrentEntity()
		func() {
			defer arche.ReleaseComponentMut(a.Component)
			defer arche.ReleaseComponentMut(b.Component)
			defer arche.ReleaseComponentMut(c.Component)
			if err == nil {
				visit(ent, ap, bp, cp)
			}
		}()
	}
}

// Fetch4 is Fetch1 for a four-component tuple.
func Fetch4[A, B, C, D any](w *World, a AccessibleComponent[A], b AccessibleComponent[B], c AccessibleComponent[C], d AccessibleComponent[D], visit func(Entity, *A, *B, *C, *D)) {
	mustNoDuplicateFetch(a.Component, b.Component, c.Component, d.Component)
	q := NewQuery()
	cursor := w.Query(q.And(a.Component, b.Component, c.Component, d.Component))
	defer cursor.Reset()
	for cursor.Next() {
		arche := cursor.currentArchetype
		arche.BorrowComponentMut(a.Component)
		arche.BorrowComponentMut(b.Component)
		arche.BorrowComponentMut(c.Component)
		arche.BorrowComponentMut(d.Component)
		ap := a.GetFromCursor(cursor)
		bp := b.GetFromCursor(cursor)
		cp := c.GetFromCursor(cursor)
		dp := d.GetFromCursor(cursor)
		ent, err := cursor.CurrentEntity()
		func() {
			defer arche.ReleaseComponentMut(a.Component)
			defer arche.ReleaseComponentMut(b.Component)
			defer arche.ReleaseComponentMut(c.Component)
			defer arche.ReleaseComponentMut(d.Component)
			if err == nil {
				visit(ent, ap, bp, cp, dp)
			}
		}()
	}
}

// FetchOptional1 is Fetch1 with a second, optional component: archetypes
// lacking it are still visited, with Present set to false.
func FetchOptional1[A, B any](w *World, a AccessibleComponent[A], opt AccessibleComponent[B], visit func(Entity, *A, Optional[B])) {
	q := NewQuery()
	cursor := w.Query(q.And(a.Component))
	defer cursor.Reset()
	for cursor.Next() {
		arche := cursor.currentArchetype
		arche.BorrowComponentMut(a.Component)
		ap := a.GetFromCursor(cursor)
		has, bp := opt.GetFromCursorSafe(cursor)
		if has {
			arche.BorrowComponentMut(opt.Component)
		}
		ent, err := cursor.CurrentEntity()
		func() {
			defer arche.ReleaseComponentMut(a.Component)
			if has {
				defer arche.ReleaseComponentMut(opt.Component)
			}
			if err != nil {
				return
			}
			o := Optional[B]{Present: has}
			if has {
				o.Value = CompMut[B]{ptr: bp}.asComp()
			}
			visit(ent, ap, o)
		}()
	}
}

func (c CompMut[T]) asComp() Comp[T] { return Comp[T]{ptr: c.ptr} }

// mustNoDuplicateFetch panics if a caller names the same component
// twice in one Fetch call, which would alias the same memory through
// two distinct pointers and make the borrow count wrong.
func mustNoDuplicateFetch(comps ...Component) {
	seen := make(map[Component]struct{}, len(comps))
	for _, c := range comps {
		if _, dup := seen[c]; dup {
			panic(bark.AddTrace(DuplicateComponentError{Component: c}))
		}
		seen[c] = struct{}{}
	}
}

package ecsforge

import "reflect"

// Access says whether a resource query slot wants a shared or
// exclusive borrow, mirroring Rust's Res<T> vs ResMut<T> distinction
// at a value most Go call sites find easier to pass around than two
// parallel generic types.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

// resourceParam is the interface System's reflection-based dispatcher
// uses to acquire a borrow for one function parameter without needing
// compile-time knowledge of the wrapped type (grounded on
// resource_query.rs's FetchResource trait).
type resourceParam interface {
	acquireFrom(r *Resources) (reflect.Value, func(), error)
}

// Res is the shared-borrow resource parameter: a System function
// declaring Res[Config] receives read-only access to the Config
// singleton for the duration of one Run call.
type Res[T any] struct {
	ptr *T
}

// Get returns the borrowed value.
func (r Res[T]) Get() *T { return r.ptr }

func (Res[T]) acquireFrom(r *Resources) (reflect.Value, func(), error) {
	ref, err := ResourcesGet[T](r)
	if err != nil {
		return reflect.Value{}, nil, err
	}
	v := Res[T]{ptr: ref.Get()}
	return reflect.ValueOf(v), ref.Release, nil
}

// ResMut is the exclusive-borrow resource parameter.
type ResMut[T any] struct {
	ptr *T
}

// Get returns the borrowed value.
func (r ResMut[T]) Get() *T { return r.ptr }

// Set overwrites the resource's value.
func (r ResMut[T]) Set(v T) { *r.ptr = v }

func (ResMut[T]) acquireFrom(r *Resources) (reflect.Value, func(), error) {
	ref, err := ResourcesGetMut[T](r)
	if err != nil {
		return reflect.Value{}, nil, err
	}
	v := ResMut[T]{ptr: ref.Get()}
	return reflect.ValueOf(v), ref.Release, nil
}

// QueryResources1 acquires one resource borrow per the given Access,
// returning it as a Res[T] (ReadOnly) or ResMut[T] (ReadWrite) packed
// into an any, plus a single release function for it. It is the
// direct (non-System) counterpart to resourceParam for callers that
// want to acquire a resource tuple without registering a System,
// bounded to small tuples the same way Fetch bounds component arity.
func QueryResources1[A any](r *Resources, accessA Access) (any, func(), error) {
	v, release, err := acquireOne[A](r, accessA)
	if err != nil {
		return nil, nil, err
	}
	return v, release, nil
}

// QueryResources2 is QueryResources1 for a two-resource tuple. Borrows
// are acquired left to right and rolled back in reverse when a later
// acquisition returns an error (a missing resource), so that case never
// leaks a held borrow. A BorrowConflict panic from a later acquisition
// is not recovered, and the borrows already taken stay held.
func QueryResources2[A, B any](r *Resources, accessA, accessB Access) (any, any, func(), error) {
	va, relA, err := acquireOne[A](r, accessA)
	if err != nil {
		return nil, nil, nil, err
	}
	vb, relB, err := acquireOne[B](r, accessB)
	if err != nil {
		relA()
		return nil, nil, nil, err
	}
	return va, vb, func() { relB(); relA() }, nil
}

// QueryResources3 is QueryResources1 for a three-resource tuple.
func QueryResources3[A, B, C any](r *Resources, accessA, accessB, accessC Access) (any, any, any, func(), error) {
	va, relA, err := acquireOne[A](r, accessA)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	vb, relB, err := acquireOne[B](r, accessB)
	if err != nil {
		relA()
		return nil, nil, nil, nil, err
	}
	vc, relC, err := acquireOne[C](r, accessC)
	if err != nil {
		relB()
		relA()
		return nil, nil, nil, nil, err
	}
	return va, vb, vc, func() { relC(); relB(); relA() }, nil
}

// QueryResources4 is QueryResources1 for a four-resource tuple.
func QueryResources4[A, B, C, D any](r *Resources, accessA, accessB, accessC, accessD Access) (any, any, any, any, func(), error) {
	va, relA, err := acquireOne[A](r, accessA)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	vb, relB, err := acquireOne[B](r, accessB)
	if err != nil {
		relA()
		return nil, nil, nil, nil, nil, err
	}
	vc, relC, err := acquireOne[C](r, accessC)
	if err != nil {
		relB()
		relA()
		return nil, nil, nil, nil, nil, err
	}
	vd, relD, err := acquireOne[D](r, accessD)
	if err != nil {
		relC()
		relB()
		relA()
		return nil, nil, nil, nil, nil, err
	}
	return va, vb, vc, vd, func() { relD(); relC(); relB(); relA() }, nil
}

func acquireOne[T any](r *Resources, access Access) (any, func(), error) {
	if access == ReadWrite {
		ref, err := ResourcesGetMut[T](r)
		if err != nil {
			return nil, nil, err
		}
		return ResMut[T]{ptr: ref.Get()}, ref.Release, nil
	}
	ref, err := ResourcesGet[T](r)
	if err != nil {
		return nil, nil, err
	}
	return Res[T]{ptr: ref.Get()}, ref.Release, nil
}

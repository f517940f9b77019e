package ecsforge

import "testing"

type tickCount struct {
	n int
}

func TestResourcesInsertGet(t *testing.T) {
	r := newResources()

	if ResourcesHas[tickCount](r) {
		t.Fatalf("ResourcesHas() = true before any Insert")
	}

	ResourcesInsert(r, tickCount{n: 1})
	if !ResourcesHas[tickCount](r) {
		t.Fatalf("ResourcesHas() = false after Insert")
	}

	ref, err := ResourcesGet[tickCount](r)
	if err != nil {
		t.Fatalf("ResourcesGet() error = %v", err)
	}
	if ref.Get().n != 1 {
		t.Errorf("resource = %+v, want n=1", *ref.Get())
	}
	ref.Release()

	ResourcesInsert(r, tickCount{n: 2})
	ref2, err := ResourcesGet[tickCount](r)
	if err != nil {
		t.Fatalf("ResourcesGet() error = %v", err)
	}
	defer ref2.Release()
	if ref2.Get().n != 2 {
		t.Errorf("resource after reinsert = %+v, want n=2", *ref2.Get())
	}
}

func TestResourcesGetMissingType(t *testing.T) {
	r := newResources()
	if _, err := ResourcesGet[tickCount](r); err == nil {
		t.Fatalf("ResourcesGet() on unset type returned nil error")
	}
}

func TestResourcesGetMutExclusiveBorrow(t *testing.T) {
	r := newResources()
	ResourcesInsert(r, tickCount{})

	ref, err := ResourcesGetMut[tickCount](r)
	if err != nil {
		t.Fatalf("ResourcesGetMut() error = %v", err)
	}
	ref.Get().n = 5

	defer func() {
		if recover() == nil {
			t.Errorf("expected BorrowConflict panic from overlapping GetMut")
		}
	}()
	if _, err := ResourcesGetMut[tickCount](r); err != nil {
		t.Fatalf("ResourcesGetMut() error = %v", err)
	}
}

func TestQueryResources2(t *testing.T) {
	r := newResources()
	ResourcesInsert(r, tickCount{n: 1})
	ResourcesInsert(r, 42)

	a, b, release, err := QueryResources2[tickCount, int](r, ReadOnly, ReadWrite)
	if err != nil {
		t.Fatalf("QueryResources2() error = %v", err)
	}
	defer release()

	ra, ok := a.(Res[tickCount])
	if !ok {
		t.Fatalf("a is %T, want Res[tickCount]", a)
	}
	if ra.Get().n != 1 {
		t.Errorf("a.n = %d, want 1", ra.Get().n)
	}

	rb, ok := b.(ResMut[int])
	if !ok {
		t.Fatalf("b is %T, want ResMut[int]", b)
	}
	rb.Set(43)
	if *rb.Get() != 43 {
		t.Errorf("b = %d, want 43", *rb.Get())
	}
}

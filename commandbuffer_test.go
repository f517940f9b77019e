package ecsforge

import (
	"testing"

	"github.com/TheBitDrifter/table"
)

func TestCommandBufferSpawnDespawn(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := newWorld(schema)
	posComp := FactoryNewComponent[Position]()

	cb := NewCommandBuffer()
	cb.Spawn(posComp.With(Position{X: 1}))
	cb.Spawn(posComp.With(Position{X: 2}))
	if got := cb.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	if err := cb.Apply(world); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if cb.Len() != 0 {
		t.Fatalf("Len() after Apply = %d, want 0", cb.Len())
	}

	query := NewQuery().And(posComp.Component)
	if got := world.Query(query).TotalMatched(); got != 2 {
		t.Fatalf("matched %d entities after apply, want 2", got)
	}

	var target Entity
	cursor := world.Query(query)
	cursor.Next()
	target, _ = cursor.CurrentEntity()

	cb.Despawn(target)
	if err := cb.Apply(world); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if world.Resolved(target) {
		t.Fatalf("entity still resolves after deferred despawn")
	}
}

func TestCommandBufferInsertRemove(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := newWorld(schema)
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	e, err := world.Spawn(posComp.With(Position{}))
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	cb := NewCommandBuffer()
	cb.Insert(e, velComp.With(Velocity{X: 5}))
	if err := cb.Apply(world); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	velRef, err := GetComponent(world, velComp, e)
	if err != nil {
		t.Fatalf("GetComponent(velocity) error = %v", err)
	}
	if velRef.Get().X != 5 {
		t.Errorf("velocity = %+v, want X=5", *velRef.Get())
	}
	velRef.Release()

	cb.Remove(e, velComp.Component)
	if err := cb.Apply(world); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := GetComponent(world, velComp, e); err == nil {
		t.Fatalf("expected MissingComponentError after deferred remove")
	}
}

func TestCommandBufferDespawnStaleHandleIsNoop(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := newWorld(schema)
	posComp := FactoryNewComponent[Position]()

	e, err := world.Spawn(posComp.With(Position{}))
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if err := world.Despawn(e); err != nil {
		t.Fatalf("Despawn() error = %v", err)
	}

	cb := NewCommandBuffer()
	cb.Despawn(e)
	if err := cb.Apply(world); err != nil {
		t.Fatalf("Apply() error = %v, want nil for stale handle", err)
	}
}

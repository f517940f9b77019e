package ecsforge

import (
	"testing"

	"github.com/TheBitDrifter/table"
)

func TestFetch2VisitsMatchingEntities(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := newWorld(schema)
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	for i := 0; i < 5; i++ {
		if _, err := world.Spawn(posComp.With(Position{X: float64(i)}), velComp.With(Velocity{X: 1})); err != nil {
			t.Fatalf("Spawn() error = %v", err)
		}
	}
	if _, err := world.Spawn(posComp.With(Position{X: 100})); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	visited := 0
	Fetch2(world, posComp, velComp, func(e Entity, pos *Position, vel *Velocity) {
		visited++
		pos.X += vel.X
	})

	if visited != 5 {
		t.Fatalf("Fetch2 visited %d entities, want 5", visited)
	}

	query := NewQuery().And(posComp.Component, velComp.Component)
	cursor := world.Query(query)
	sum := 0.0
	for cursor.Next() {
		sum += posComp.GetFromCursor(cursor).X
	}
	if want := 1.0 + 2.0 + 3.0 + 4.0 + 5.0; sum != want {
		t.Errorf("sum of updated positions = %v, want %v", sum, want)
	}
}

func TestFetchOptional1(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := newWorld(schema)
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	if _, err := world.Spawn(posComp.With(Position{X: 1}), velComp.With(Velocity{X: 9})); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if _, err := world.Spawn(posComp.With(Position{X: 2})); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	present := 0
	absent := 0
	FetchOptional1(world, posComp, velComp, func(e Entity, pos *Position, vel Optional[Velocity]) {
		if vel.Present {
			present++
		} else {
			absent++
		}
	})

	if present != 1 || absent != 1 {
		t.Fatalf("present=%d absent=%d, want 1 and 1", present, absent)
	}
}

func TestFetchDuplicateComponentPanics(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := newWorld(schema)
	posComp := FactoryNewComponent[Position]()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from duplicate fetch component")
		}
	}()
	Fetch2(world, posComp, posComp, func(e Entity, a, b *Position) {})
}

package ecsforge

import (
	"testing"

	"github.com/TheBitDrifter/table"
)

func spawnN(t *testing.T, world *World, count int, comps ...Component) {
	t.Helper()
	values := make([]ComponentValue, len(comps))
	for i, c := range comps {
		switch v := c.(type) {
		case AccessibleComponent[Position]:
			values[i] = v.With(Position{})
		case AccessibleComponent[Velocity]:
			values[i] = v.With(Velocity{})
		case AccessibleComponent[Health]:
			values[i] = v.With(Health{})
		default:
			t.Fatalf("spawnN: unsupported component type %T", c)
		}
	}
	for i := 0; i < count; i++ {
		if _, err := world.Spawn(values...); err != nil {
			t.Fatalf("Spawn() error = %v", err)
		}
	}
}

func TestQueryFiltering(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	type entitySetup struct {
		components []Component
		count      int
	}

	tests := []struct {
		name            string
		entitySetups    []entitySetup
		build           func() QueryNode
		expectedMatches int
	}{
		{
			name: "And query matches exact",
			entitySetups: []entitySetup{
				{[]Component{posComp, velComp}, 5},
				{[]Component{posComp}, 10},
				{[]Component{velComp}, 15},
			},
			build:           func() QueryNode { return NewQuery().And(posComp, velComp) },
			expectedMatches: 5,
		},
		{
			name: "Or query matches either",
			entitySetups: []entitySetup{
				{[]Component{posComp, velComp}, 5},
				{[]Component{posComp}, 10},
				{[]Component{velComp}, 15},
			},
			build:           func() QueryNode { return NewQuery().Or(posComp, velComp) },
			expectedMatches: 30,
		},
		{
			name: "Not query excludes",
			entitySetups: []entitySetup{
				{[]Component{posComp, velComp}, 5},
				{[]Component{posComp}, 10},
				{[]Component{velComp}, 15},
				{[]Component{healthComp}, 20},
			},
			build:           func() QueryNode { return NewQuery().Not(velComp) },
			expectedMatches: 30,
		},
		{
			name: "Complex query",
			entitySetups: []entitySetup{
				{[]Component{posComp, velComp, healthComp}, 5},
				{[]Component{posComp, velComp}, 10},
				{[]Component{posComp, healthComp}, 15},
				{[]Component{velComp, healthComp}, 20},
				{[]Component{posComp}, 25},
				{[]Component{velComp}, 30},
				{[]Component{healthComp}, 35},
			},
			build: func() QueryNode {
				q := NewQuery()
				and1 := q.And(posComp, velComp)
				and2 := NewQuery().And(posComp, healthComp)
				return q.Or(and1, and2)
			},
			expectedMatches: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := table.Factory.NewSchema()
			world := newWorld(schema)

			for _, setup := range tt.entitySetups {
				spawnN(t, world, setup.count, setup.components...)
			}

			cursor := world.Query(tt.build())
			matchCount := 0
			for cursor.Next() {
				matchCount++
			}
			if matchCount != tt.expectedMatches {
				t.Errorf("query matched %d entities, want %d", matchCount, tt.expectedMatches)
			}
		})
	}
}

func TestQueryWithCursor(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	tests := []struct {
		name            string
		entityTypes     [][]Component
		queryComponents []Component
		expectedCount   int
	}{
		{
			name:            "Query with position",
			entityTypes:     [][]Component{{posComp}, {posComp, velComp}, {velComp}},
			queryComponents: []Component{posComp},
			expectedCount:   20,
		},
		{
			name:            "Query with position and velocity",
			entityTypes:     [][]Component{{posComp}, {posComp, velComp}, {velComp}},
			queryComponents: []Component{posComp, velComp},
			expectedCount:   10,
		},
		{
			name:            "Query with no matches",
			entityTypes:     [][]Component{{posComp}, {velComp}},
			queryComponents: []Component{healthComp},
			expectedCount:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := table.Factory.NewSchema()
			world := newWorld(schema)

			for _, componentSet := range tt.entityTypes {
				spawnN(t, world, 10, componentSet...)
			}

			node := NewQuery().And(toAny(tt.queryComponents)...)

			cursor := world.Query(node)
			count1 := 0
			for cursor.Next() {
				count1++
			}

			cursor = world.Query(node)
			count2 := cursor.TotalMatched()

			if count1 != count2 {
				t.Errorf("cursor counts inconsistent: %d vs %d", count1, count2)
			}
			if count1 != tt.expectedCount {
				t.Errorf("query matched %d entities, want %d", count1, tt.expectedCount)
			}
		})
	}
}

func TestQueryComponentAccess(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := newWorld(schema)

	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	entities := make([]Entity, 10)
	for i := 0; i < 10; i++ {
		pos := Position{X: float64(i), Y: float64(i * 2)}
		vel := Velocity{X: float64(i) * 0.1, Y: float64(i) * 0.2}
		e, err := world.Spawn(posComp.With(pos), velComp.With(vel))
		if err != nil {
			t.Fatalf("Spawn() error = %v", err)
		}
		entities[i] = e
	}

	node := NewQuery().And(posComp, velComp)
	cursor := world.Query(node)
	for cursor.Next() {
		ent, err := cursor.CurrentEntity()
		if err != nil {
			t.Fatalf("CurrentEntity() error = %v", err)
		}
		pos, err := posComp.GetFromEntity(world, ent)
		if err != nil {
			t.Fatalf("GetFromEntity(position) error = %v", err)
		}
		vel, err := velComp.GetFromEntity(world, ent)
		if err != nil {
			t.Fatalf("GetFromEntity(velocity) error = %v", err)
		}
		pos.X += vel.X
		pos.Y += vel.Y
	}

	for i, e := range entities {
		pos, err := posComp.GetFromEntity(world, e)
		if err != nil {
			t.Fatalf("GetFromEntity(position) error = %v", err)
		}
		wantX := float64(i) + float64(i)*0.1
		wantY := float64(i*2) + float64(i)*0.2
		if !almostEqual(pos.X, wantX, 0.0001) || !almostEqual(pos.Y, wantY, 0.0001) {
			t.Errorf("entity %d position = {%v, %v}, want {%v, %v}", i, pos.X, pos.Y, wantX, wantY)
		}
	}
}

func almostEqual(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

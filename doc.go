/*
Package ecsforge provides an archetype-based Entity-Component-System
runtime: entities, components, queries, resources, command buffers,
and a staged system scheduler.

Entities live in a World, grouped into archetypes by their exact
component set so that entities sharing the same shape iterate
contiguously. Systems are plain functions whose parameter list
declares what they need (an Entity, shared or exclusive component
access, a resource, a CommandBuffer), and a Schedule runs them in
named, ordered stages.

Core Concepts:

  - Entity: a generational (id, generation) handle for one row.
  - Component: a stable type identity plus a typed column accessor.
  - Archetype: the set of entities sharing one exact component set.
  - Query: a boolean combination of component identities (And/Or/Not)
    used to select matching archetypes.
  - Resources: singleton values keyed by type, shared across systems.
  - CommandBuffer: deferred world mutations, applied at a stage's flush.
  - Schedule: named stages, each run then flushed in registration order.

Basic Usage:

	schema := table.Factory.NewSchema()
	world := ecsforge.Factory.NewWorld(schema)

	position := ecsforge.FactoryNewComponent[Position]()
	velocity := ecsforge.FactoryNewComponent[Velocity]()

	entity, _ := world.Spawn(position.With(Position{}), velocity.With(Velocity{X: 1}))

	query := ecsforge.NewQuery().And(position, velocity)
	cursor := world.Query(query)
	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Systems and schedules compose the same components into reusable units:

	move := ecsforge.NewSystem("move", func(p ecsforge.CompMut[Position], v ecsforge.Comp[Velocity]) {
		p.Get().X += v.Get().X
	}, position, velocity)

	schedule := ecsforge.Factory.NewSchedule()
	schedule.AddStage("update")
	schedule.AddSystemToStage("update", move)
	schedule.Run(world, ecsforge.Factory.NewResources())
*/
package ecsforge

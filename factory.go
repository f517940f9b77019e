package ecsforge

import "github.com/TheBitDrifter/table"

// factory implements the factory pattern for ecsforge's top-level
// runtime objects, mirroring table.Factory's own package-global
// singleton convention.
type factory struct{}

// Factory is the global factory instance for creating ecsforge
// runtime objects.
var Factory factory

// NewWorld creates a new World backed by the given schema.
func (f factory) NewWorld(schema table.Schema) *World {
	return newWorld(schema)
}

// NewResources creates a new, empty Resources instance.
func (f factory) NewResources() *Resources {
	return newResources()
}

// NewCommandBuffer creates a new, empty CommandBuffer.
func (f factory) NewCommandBuffer() *CommandBuffer {
	return NewCommandBuffer()
}

// NewSchedule creates a new, empty Schedule.
func (f factory) NewSchedule() *Schedule {
	return NewSchedule()
}

// FactoryNewCache creates a new Cache with the specified capacity.
func FactoryNewCache[T any](cap int) *SimpleCache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int, cap),
		maxCapacity: cap,
	}
}

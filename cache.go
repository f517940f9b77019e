package ecsforge

// SimpleCache backs Schedule's system registry: each AddSystemToStage
// call registers the system's name once, giving it a stable dense
// index alongside the name-based lookup Schedule already does for
// duplicate detection.
var _ Cache[any] = &SimpleCache[any]{}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	item := &c.items[index]
	return item
}

func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	item := &c.items[index]
	return item
}

func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, CacheCapacityError{Capacity: c.maxCapacity}
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)

	return idx, nil
}

func (c *SimpleCache[T]) Clear() {
	c.items = make([]T, 0, c.maxCapacity)
	c.itemIndices = make(map[string]int)
}

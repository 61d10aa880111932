// Package memory provides in-process implementations of the repository interfaces.
// Each repository owns its maps and a mutex; nothing is persisted across restarts.
package memory

// nextID returns max(existing)+1, or 1 when the collection is empty.
// Callers hold the repository write lock so the result cannot collide
// with a concurrent insert. Gaps in the id sequence are allowed.
func nextID[V any](items map[int64]V) int64 {
	var current int64
	for id := range items {
		if id > current {
			current = id
		}
	}
	return current + 1
}

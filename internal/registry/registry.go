// SPDX-License-Identifier: EPL-2.0

// Package registry is a concurrency-safe name to value map shared by the
// codec and format registries.
package registry

import (
	"slices"
	"strings"
	"sync"
)

// Registry maps case-insensitive names to values.
type Registry[T any] struct {
	entries map[string]T
	mtx     *sync.RWMutex
}

func New[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
		mtx:     &sync.RWMutex{},
	}
}

// Register stores v under name, replacing any previous entry.
func (r *Registry[T]) Register(name string, v T) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.entries[strings.ToLower(name)] = v
}

func (r *Registry[T]) Get(name string) (T, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	v, ok := r.entries[strings.ToLower(name)]
	return v, ok
}

// Names lists registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

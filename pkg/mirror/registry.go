/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mirror

import (
	"fmt"
	"sync"
)

type entry struct {
	attr  Attribute
	value string
}

// Registry maps qualified names onto attributes and their cached wire values.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	byID    map[int64]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		byID:    make(map[int64]string),
	}
}

// Register inserts attr with its seed value. Re-registering a name replaces
// the previous attribute in place. A remote id already owned by another name
// fails with ErrDuplicateID.
func (r *Registry) Register(attr Attribute, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byID[attr.RemoteID]; ok && owner != attr.Name {
		return fmt.Errorf("%w: %d is mirrored as %q", ErrDuplicateID, attr.RemoteID, owner)
	}

	if prev, ok := r.entries[attr.Name]; ok {
		delete(r.byID, prev.attr.RemoteID)
		prev.attr = attr
		prev.value = value
	} else {
		r.entries[attr.Name] = &entry{attr: attr, value: value}
		r.order = append(r.order, attr.Name)
	}

	r.byID[attr.RemoteID] = attr.Name

	return nil
}

// Lookup returns the attribute registered under name.
func (r *Registry) Lookup(name string) (Attribute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Attribute{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return e.attr, nil
}

// NameForID returns the name a remote id is mirrored under.
func (r *Registry) NameForID(id int64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byID[id]

	return name, ok
}

// Names returns a snapshot of all names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Len returns the number of registered attributes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Value returns the attribute and its cached wire value.
func (r *Registry) Value(name string) (Attribute, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Attribute{}, "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return e.attr, e.value, nil
}

// Store replaces the cached wire value and reports whether it differs from the old one.
func (r *Registry) Store(name, value string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if e.value == value {
		return false, nil
	}

	e.value = value

	return true, nil
}

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

package host

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/carverauto/symcon-mirror/pkg/mirror"
	"github.com/carverauto/symcon-mirror/pkg/models"
)

// mirrorFixture is an in-memory controller. The default tree is
// root 0 -> category "A" (1) -> integer variable "v" (2) holding "7".
type mirrorFixture struct {
	mu       sync.Mutex
	objects  map[int64]*models.ObjectDetails
	values   map[int64]string
	requests []interface{}
}

var _ mirror.RemoteStore = (*mirrorFixture)(nil)

func newMirrorFixture(t *testing.T) *mirrorFixture {
	t.Helper()

	f := newEmptyFixture(t, "IP-Symcon")
	f.add(0, 1, "A", models.ObjectTypeCategory, "")
	f.add(1, 2, "v", models.ObjectTypeVariable, "7")

	return f
}

// newEmptyFixture returns a controller holding only root object 0.
func newEmptyFixture(t *testing.T, rootName string) *mirrorFixture {
	t.Helper()

	return &mirrorFixture{
		objects: map[int64]*models.ObjectDetails{
			0: {ObjectID: 0, ObjectName: rootName, ObjectType: models.ObjectTypeCategory},
		},
		values: make(map[int64]string),
	}
}

// add places an object under parent. value is only kept for variables.
func (f *mirrorFixture) add(parent, id int64, name string, typ models.ObjectType, value string) {
	f.objects[id] = &models.ObjectDetails{ObjectID: id, ObjectName: name, ObjectType: typ, ParentID: parent}
	f.objects[parent].ChildrenIDs = append(f.objects[parent].ChildrenIDs, id)

	if typ == models.ObjectTypeVariable {
		f.values[id] = value
	}
}

func (f *mirrorFixture) GetObject(_ context.Context, id int64) (*models.ObjectDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[id]
	if !ok {
		return nil, fmt.Errorf("object %d: %w", id, mirror.ErrNotFound)
	}

	cp := *obj
	cp.ChildrenIDs = append([]int64(nil), obj.ChildrenIDs...)

	return &cp, nil
}

func (*mirrorFixture) GetVariable(_ context.Context, id int64) (*models.VariableDetails, error) {
	return &models.VariableDetails{VariableID: id, VariableType: 1}, nil
}

func (*mirrorFixture) ResolveLink(_ context.Context, id int64) (int64, error) {
	return 0, fmt.Errorf("link %d: %w", id, mirror.ErrNotFound)
}

func (f *mirrorFixture) GetValue(_ context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.values[id]
	if !ok {
		return "", fmt.Errorf("variable %d: %w", id, mirror.ErrNotFound)
	}

	return v, nil
}

func (f *mirrorFixture) RequestValueChange(_ context.Context, id int64, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, value)

	if n, ok := value.(int64); ok {
		f.values[id] = strconv.FormatInt(n, 10)
	}

	return nil
}

func (*mirrorFixture) KernelVersion(context.Context) (string, error) {
	return "6.4", nil
}

func (*mirrorFixture) KernelDir(context.Context) (string, error) {
	return "/var/lib/symcon", nil
}

func (f *mirrorFixture) requested() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]interface{}(nil), f.requests...)
}

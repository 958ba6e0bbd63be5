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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/symcon-mirror/pkg/models"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(Attribute{Name: "_A_v", RemoteID: 20, DataType: Integer}, "7"))
	require.NoError(t, r.Register(Attribute{Name: "_A_w", RemoteID: 21, DataType: Float}, "1.5"))

	attr, err := r.Lookup("_A_v")
	require.NoError(t, err)
	assert.Equal(t, int64(20), attr.RemoteID)

	_, wire, err := r.Value("_A_w")
	require.NoError(t, err)
	assert.Equal(t, "1.5", wire)

	name, ok := r.NameForID(21)
	assert.True(t, ok)
	assert.Equal(t, "_A_w", name)

	assert.Equal(t, []string{"_A_v", "_A_w"}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = r.Value("missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Store("missing", "1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryRejectsSecondNameForID(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(Attribute{Name: "_A_v", RemoteID: 20}, ""))

	err := r.Register(Attribute{Name: "_B_v", RemoteID: 20}, "")
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryOverwriteKeepsPosition(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(Attribute{Name: "a", RemoteID: 1}, "x"))
	require.NoError(t, r.Register(Attribute{Name: "b", RemoteID: 2}, "y"))
	require.NoError(t, r.Register(Attribute{Name: "a", RemoteID: 3, Access: models.AccessRead}, "z"))

	assert.Equal(t, []string{"a", "b"}, r.Names())

	_, ok := r.NameForID(1)
	assert.False(t, ok)

	attr, wire, err := r.Value("a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), attr.RemoteID)
	assert.Equal(t, "z", wire)
}

func TestRegistryStoreReportsChange(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Attribute{Name: "a", RemoteID: 1}, "1"))

	changed, err := r.Store("a", "1")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = r.Store("a", "2")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestRegistryNamesIsSnapshot(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Attribute{Name: "a", RemoteID: 1}, ""))

	names := r.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"a"}, r.Names())
}

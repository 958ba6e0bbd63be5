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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/symcon-mirror/pkg/logger"
	"github.com/carverauto/symcon-mirror/pkg/models"
)

var errControllerDown = errors.New("controller down")

func object(id int64, name string, typ models.ObjectType, children ...int64) *models.ObjectDetails {
	return &models.ObjectDetails{ObjectID: id, ObjectName: name, ObjectType: typ, ChildrenIDs: children}
}

type collector struct {
	attrs []Attribute
}

func (c *collector) register(_ context.Context, attr Attribute) error {
	c.attrs = append(c.attrs, attr)

	return nil
}

func TestResolveContainerVariable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)

	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 10), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(10)).Return(object(10, "A", models.ObjectTypeCategory, 20), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(20)).Return(object(20, "v", models.ObjectTypeVariable), nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(20)).Return(&models.VariableDetails{VariableID: 20, VariableType: 1}, nil)

	c := &collector{}
	count, err := NewResolver(store, models.AccessReadWrite, logger.NewTestLogger()).Resolve(context.Background(), 1, c.register)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, c.attrs, 1)
	attr := c.attrs[0]
	assert.Equal(t, "_A_v", attr.Name)
	assert.Equal(t, int64(20), attr.RemoteID)
	assert.Equal(t, Integer, attr.DataType)
	assert.Nil(t, attr.Min)
	assert.Nil(t, attr.Max)
	assert.Empty(t, attr.Unit)
	assert.Equal(t, models.AccessReadWrite, attr.Access)
}

func TestResolveLinkIsTransparent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)

	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 10), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(10)).Return(object(10, "A", models.ObjectTypeInstance, 11), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(11)).Return(object(11, "Shortcut", models.ObjectTypeLink), nil)
	store.EXPECT().ResolveLink(gomock.Any(), int64(11)).Return(int64(99), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(99)).Return(object(99, "v", models.ObjectTypeVariable), nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(99)).Return(&models.VariableDetails{VariableType: 3}, nil)

	c := &collector{}
	_, err := NewResolver(store, models.AccessReadWrite, logger.NewTestLogger()).Resolve(context.Background(), 1, c.register)
	require.NoError(t, err)

	require.Len(t, c.attrs, 1)
	assert.Equal(t, "_A_v", c.attrs[0].Name)
	assert.Equal(t, int64(99), c.attrs[0].RemoteID)
	assert.Equal(t, String, c.attrs[0].DataType)
}

func TestResolveSkipsVariableReachedTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)

	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 10, 11), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(10)).Return(object(10, "Here", models.ObjectTypeLink), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(11)).Return(object(11, "B", models.ObjectTypeCategory, 20), nil)
	store.EXPECT().ResolveLink(gomock.Any(), int64(10)).Return(int64(20), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(20)).Return(object(20, "v", models.ObjectTypeVariable), nil).Times(2)
	store.EXPECT().GetVariable(gomock.Any(), int64(20)).Return(&models.VariableDetails{VariableType: 0}, nil).Times(1)

	c := &collector{}
	count, err := NewResolver(store, models.AccessReadWrite, logger.NewTestLogger()).Resolve(context.Background(), 1, c.register)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, c.attrs, 1)
	assert.Equal(t, "_v", c.attrs[0].Name)
}

func TestResolveKeepsFirstOfCollidingNames(t *testing.T) {
	tests := []struct {
		name string
		root *models.ObjectDetails
		objs []*models.ObjectDetails
	}{
		{
			name: "siblings with the same name",
			root: object(1, "Root", models.ObjectTypeCategory, 10),
			objs: []*models.ObjectDetails{
				object(10, "A", models.ObjectTypeCategory, 20, 21),
				object(20, "v", models.ObjectTypeVariable),
				object(21, "v", models.ObjectTypeVariable),
			},
		},
		{
			name: "nested name equals flat name",
			root: object(1, "Root", models.ObjectTypeCategory, 10, 21),
			objs: []*models.ObjectDetails{
				object(10, "A", models.ObjectTypeCategory, 20),
				object(20, "v", models.ObjectTypeVariable),
				object(21, "A_v", models.ObjectTypeVariable),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := NewMockRemoteStore(ctrl)

			store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(tt.root, nil)
			for _, obj := range tt.objs {
				store.EXPECT().GetObject(gomock.Any(), obj.ObjectID).Return(obj, nil)
			}
			store.EXPECT().GetVariable(gomock.Any(), int64(20)).Return(&models.VariableDetails{VariableType: 1}, nil).Times(1)

			c := &collector{}
			count, err := NewResolver(store, models.AccessReadWrite, logger.NewTestLogger()).Resolve(context.Background(), 1, c.register)
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			require.Len(t, c.attrs, 1)
			assert.Equal(t, "_A_v", c.attrs[0].Name)
			assert.Equal(t, int64(20), c.attrs[0].RemoteID)
		})
	}
}

func TestResolveBreaksLinkCycles(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)

	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 10), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(10)).Return(object(10, "A", models.ObjectTypeCategory, 11), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(11)).Return(object(11, "Up", models.ObjectTypeLink), nil)
	store.EXPECT().ResolveLink(gomock.Any(), int64(11)).Return(int64(10), nil)

	c := &collector{}
	count, err := NewResolver(store, models.AccessReadWrite, logger.NewTestLogger()).Resolve(context.Background(), 1, c.register)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, c.attrs)
}

func TestResolveFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)

	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 10, 11, 12), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(10)).Return(object(10, "v", models.ObjectTypeVariable), nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(10)).Return(&models.VariableDetails{VariableType: 2}, nil)
	store.EXPECT().GetObject(gomock.Any(), int64(11)).Return(nil, errControllerDown)

	c := &collector{}
	count, err := NewResolver(store, models.AccessReadWrite, logger.NewTestLogger()).Resolve(context.Background(), 1, c.register)
	require.ErrorIs(t, err, errControllerDown)
	assert.Equal(t, 1, count)
}

func TestResolveRootFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)

	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(nil, errControllerDown)

	_, err := NewResolver(store, models.AccessReadWrite, logger.NewTestLogger()).Resolve(context.Background(), 1, (&collector{}).register)
	require.ErrorIs(t, err, errControllerDown)
}

func TestResolvePropagatesRegisterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)

	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 10, 11), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(10)).Return(object(10, "v", models.ObjectTypeVariable), nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(10)).Return(&models.VariableDetails{}, nil)

	register := func(context.Context, Attribute) error { return errControllerDown }

	_, err := NewResolver(store, models.AccessRead, logger.NewTestLogger()).Resolve(context.Background(), 1, register)
	require.ErrorIs(t, err, errControllerDown)
}

func TestBuildAttribute(t *testing.T) {
	profile := &models.VariableProfile{MinValue: 0.5, MaxValue: 100.9, Suffix: " %"}

	tests := []struct {
		name     string
		details  *models.VariableDetails
		dataType DataType
		min, max *float64
		unit     string
	}{
		{
			name:     "float with profile",
			details:  &models.VariableDetails{VariableType: 2, VariableProfile: "~Intensity", Profile: profile},
			dataType: Float,
			min:      ptr(0.5),
			max:      ptr(100.9),
			unit:     " %",
		},
		{
			name:     "integer bounds truncated and max from MaxValue",
			details:  &models.VariableDetails{VariableType: 1, VariableProfile: "~Intensity", Profile: profile},
			dataType: Integer,
			min:      ptr(0),
			max:      ptr(100),
			unit:     " %",
		},
		{
			name: "equal bounds mean unbounded",
			details: &models.VariableDetails{
				VariableType: 2, VariableProfile: "Plain", Profile: &models.VariableProfile{Suffix: " W"},
			},
			dataType: Float,
			unit:     " W",
		},
		{
			name:     "boolean gets unit but no bounds",
			details:  &models.VariableDetails{VariableType: 0, VariableProfile: "~Switch", Profile: profile},
			dataType: Boolean,
			unit:     " %",
		},
		{
			name:     "no profile",
			details:  &models.VariableDetails{VariableType: 2},
			dataType: Float,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := BuildAttribute("_x", 5, tt.details, models.AccessReadWrite)

			assert.Equal(t, tt.dataType, attr.DataType)
			assert.Equal(t, tt.min, attr.Min)
			assert.Equal(t, tt.max, attr.Max)
			assert.Equal(t, tt.unit, attr.Unit)
		})
	}
}

func ptr(f float64) *float64 {
	return &f
}

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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/symcon-mirror/pkg/logger"
	"github.com/carverauto/symcon-mirror/pkg/models"
)

func testConfig() Config {
	return Config{
		RootObjectID:     1,
		RefreshInterval:  time.Minute,
		Access:           models.AccessReadWrite,
		MinKernelVersion: 6,
		Clock:            newFakeClock(),
	}
}

func expectKernel(store *MockRemoteStore, version string) {
	store.EXPECT().KernelDir(gomock.Any()).Return("/var/lib/symcon/", nil)
	store.EXPECT().KernelVersion(gomock.Any()).Return(version, nil)
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	_, err := New(testConfig(), nil, &fakeHost{}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg := testConfig()
	cfg.RefreshInterval = -time.Second

	_, err = New(cfg, newFakeStore(), &fakeHost{}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg = testConfig()
	cfg.PollInterval = -time.Second

	_, err = New(cfg, newFakeStore(), &fakeHost{}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigFromModel(t *testing.T) {
	cfg, err := ConfigFromModel(&models.MirrorConfig{
		RootObjectID:     7,
		RefreshInterval:  models.Duration(3 * time.Second),
		PollInterval:     models.Duration(time.Second),
		Access:           "READ",
		MinKernelVersion: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.RootObjectID)
	assert.Equal(t, 3*time.Second, cfg.RefreshInterval)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, models.AccessRead, cfg.Access)

	_, err = ConfigFromModel(&models.MirrorConfig{Access: "SOMETIMES"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBootstrapRegistersAndSeeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)
	host := NewMockAttributeHost(ctrl)

	expectKernel(store, "6.4")
	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 10), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(10)).Return(object(10, "A", models.ObjectTypeCategory, 20), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(20)).Return(object(20, "v", models.ObjectTypeVariable), nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(20)).Return(&models.VariableDetails{VariableType: 1}, nil)
	store.EXPECT().GetValue(gomock.Any(), int64(20)).Return("7", nil)

	var (
		spec   AttributeSpec
		onRead ReadFunc
	)

	host.EXPECT().RegisterAttribute(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(s AttributeSpec, r ReadFunc, w WriteFunc) error {
			spec, onRead = s, r
			assert.NotNil(t, w)

			return nil
		})
	host.EXPECT().NotifyChanged(gomock.Any(), "_A_v", int64(7)).Return(nil)

	m, err := New(testConfig(), store, host, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, m.Bootstrap(context.Background()))

	assert.Equal(t, "_A_v", spec.Name)
	assert.Equal(t, Integer, spec.DataType)
	assert.True(t, spec.Writable)
	assert.Nil(t, spec.Min)

	v, err := onRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	status := m.Status()
	assert.Equal(t, 1, status.Attributes)
	assert.Equal(t, "6.4", status.KernelVersion)
	assert.Equal(t, "/var/lib/symcon/", status.KernelDir)
}

func TestBootstrapRejectsOldKernel(t *testing.T) {
	for _, version := range []string{"5.9", "not-a-version"} {
		t.Run(version, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := NewMockRemoteStore(ctrl)

			expectKernel(store, version)

			m, err := New(testConfig(), store, NewMockAttributeHost(ctrl), logger.NewTestLogger())
			require.NoError(t, err)
			require.ErrorIs(t, m.Start(context.Background()), ErrUnsupportedVersion)
		})
	}
}

func TestBootstrapSeedFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)

	expectKernel(store, "7.0")
	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 20), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(20)).Return(object(20, "v", models.ObjectTypeVariable), nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(20)).Return(&models.VariableDetails{VariableType: 2}, nil)
	store.EXPECT().GetValue(gomock.Any(), int64(20)).Return("", errControllerDown)

	m, err := New(testConfig(), store, NewMockAttributeHost(ctrl), logger.NewTestLogger())
	require.NoError(t, err)
	require.ErrorIs(t, m.Bootstrap(context.Background()), errControllerDown)
	assert.Zero(t, m.Registry().Len())
}

func TestReadOnlyAttributeHasNoWriteCallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)
	host := NewMockAttributeHost(ctrl)

	expectKernel(store, "6.0")
	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 20), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(20)).Return(object(20, "v", models.ObjectTypeVariable), nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(20)).Return(&models.VariableDetails{VariableType: 0}, nil)
	store.EXPECT().GetValue(gomock.Any(), int64(20)).Return("true", nil)
	host.EXPECT().RegisterAttribute(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil)
	host.EXPECT().NotifyChanged(gomock.Any(), "_v", true).Return(nil)

	cfg := testConfig()
	cfg.Access = models.AccessRead

	m, err := New(cfg, store, host, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, m.Bootstrap(context.Background()))

	require.ErrorIs(t, m.Write(context.Background(), "_v", false), ErrReadOnly)
}

func TestBootstrapToleratesSeedAnnouncementFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)
	host := NewMockAttributeHost(ctrl)

	expectKernel(store, "6.0")
	store.EXPECT().GetObject(gomock.Any(), int64(1)).Return(object(1, "Root", models.ObjectTypeCategory, 20, 21), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(20)).Return(object(20, "n", models.ObjectTypeVariable), nil)
	store.EXPECT().GetObject(gomock.Any(), int64(21)).Return(object(21, "s", models.ObjectTypeVariable), nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(20)).Return(&models.VariableDetails{VariableType: 1}, nil)
	store.EXPECT().GetVariable(gomock.Any(), int64(21)).Return(&models.VariableDetails{VariableType: 3}, nil)
	store.EXPECT().GetValue(gomock.Any(), int64(20)).Return("garbage", nil)
	store.EXPECT().GetValue(gomock.Any(), int64(21)).Return("on", nil)
	host.EXPECT().RegisterAttribute(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	host.EXPECT().NotifyChanged(gomock.Any(), "_s", "on").Return(errControllerDown)

	m, err := New(testConfig(), store, host, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, m.Bootstrap(context.Background()))
	assert.Equal(t, 2, m.Registry().Len())
}

func newTestMirror(t *testing.T, store RemoteStore, host AttributeHost, attrs ...Attribute) *Mirror {
	t.Helper()

	m, err := New(testConfig(), store, host, logger.NewTestLogger())
	require.NoError(t, err)

	for _, a := range attrs {
		if a.Access == "" {
			a.Access = models.AccessReadWrite
		}

		require.NoError(t, m.Registry().Register(a, "0"))
	}

	return m
}

func TestWriteThenRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)
	host := NewMockAttributeHost(ctrl)

	store.EXPECT().RequestValueChange(gomock.Any(), int64(9), int64(42)).Return(nil)
	host.EXPECT().NotifyChanged(gomock.Any(), "x", int64(42)).Return(nil)

	m := newTestMirror(t, store, host, Attribute{Name: "x", RemoteID: 9, DataType: Integer})

	require.NoError(t, m.Write(context.Background(), "x", 42))

	v, err := m.Read(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestWriteRemoteFailureKeepsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)
	host := NewMockAttributeHost(ctrl)

	store.EXPECT().RequestValueChange(gomock.Any(), int64(9), 21.5).Return(errControllerDown)

	m := newTestMirror(t, store, host, Attribute{Name: "t", RemoteID: 9, DataType: Float})

	err := m.Write(context.Background(), "t", "21.5")
	require.ErrorIs(t, err, ErrRemoteChange)
	require.ErrorIs(t, err, errControllerDown)

	_, wire, err := m.Registry().Value("t")
	require.NoError(t, err)
	assert.Equal(t, "21.5", wire)
}

func TestWriteRejectsUncoercibleValue(t *testing.T) {
	ctrl := gomock.NewController(t)

	m := newTestMirror(t, NewMockRemoteStore(ctrl), NewMockAttributeHost(ctrl),
		Attribute{Name: "n", RemoteID: 9, DataType: Integer})

	require.ErrorIs(t, m.Write(context.Background(), "n", "warm"), ErrCoercion)

	_, wire, err := m.Registry().Value("n")
	require.NoError(t, err)
	assert.Equal(t, "0", wire)
}

func TestWriteNotificationFailureIsNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockRemoteStore(ctrl)
	host := NewMockAttributeHost(ctrl)

	store.EXPECT().RequestValueChange(gomock.Any(), int64(9), true).Return(nil)
	host.EXPECT().NotifyChanged(gomock.Any(), "b", true).Return(errControllerDown)

	m := newTestMirror(t, store, host, Attribute{Name: "b", RemoteID: 9, DataType: Boolean})

	require.NoError(t, m.Write(context.Background(), "b", "TRUE"))
}

func TestUnknownNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestMirror(t, NewMockRemoteStore(ctrl), NewMockAttributeHost(ctrl))

	_, err := m.Read(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, m.Write(context.Background(), "nope", 1), ErrNotFound)
}

func TestReadDoesNotWaitForRefresh(t *testing.T) {
	store := newFakeStore()
	store.delay = 200 * time.Millisecond
	store.set(1, "0")

	m := newTestMirror(t, store, &fakeHost{}, Attribute{Name: "slow", RemoteID: 1, DataType: Integer})
	m.Refresher().Start(context.Background())

	t.Cleanup(func() { require.NoError(t, m.Stop(context.Background())) })

	start := time.Now()

	v, err := m.Read(context.Background(), "slow")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	require.Eventually(t, func() bool { return m.Refresher().Passes() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestReadReportsCoercionFailure(t *testing.T) {
	store := newFakeStore()
	m := newTestMirror(t, store, &fakeHost{}, Attribute{Name: "n", RemoteID: 1, DataType: Integer})

	_, err := m.Registry().Store("n", "garbage")
	require.NoError(t, err)

	_, err = m.Read(context.Background(), "n")
	require.ErrorIs(t, err, ErrCoercion)
}

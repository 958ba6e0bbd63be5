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

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Duration
		wantErr  bool
	}{
		{name: "string duration", input: `"5s"`, expected: Duration(5 * time.Second)},
		{name: "numeric nanoseconds", input: `5000000000`, expected: Duration(5 * time.Second)},
		{name: "invalid string", input: `"soon"`, wantErr: true},
		{name: "invalid type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestParseAccessMode(t *testing.T) {
	mode, err := ParseAccessMode("")
	require.NoError(t, err)
	assert.Equal(t, AccessReadWrite, mode)

	mode, err = ParseAccessMode("read")
	require.NoError(t, err)
	assert.Equal(t, AccessRead, mode)
	assert.False(t, mode.Writable())

	mode, err = ParseAccessMode("READ_WITH_WRITE")
	require.NoError(t, err)
	assert.True(t, mode.Writable())

	_, err = ParseAccessMode("EXECUTE")
	require.ErrorIs(t, err, errInvalidAccess)
}

func TestMirrorConfigValidateDefaults(t *testing.T) {
	cfg := &MirrorConfig{}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1", cfg.Symcon.Host)
	assert.Equal(t, 3777, cfg.Symcon.Port)
	assert.Equal(t, "http", cfg.Symcon.Protocol)
	assert.Equal(t, Duration(5*time.Second), cfg.RefreshInterval)
	assert.Zero(t, cfg.PollInterval)
	assert.InDelta(t, 6.0, cfg.MinKernelVersion, 0)
	assert.Equal(t, "http://127.0.0.1:3777/api/", cfg.Symcon.Endpoint())
	assert.Equal(t, 5, cfg.Symcon.CircuitBreaker.FailureThreshold)
}

func TestMirrorConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  MirrorConfig
		err  error
	}{
		{name: "bad protocol", cfg: MirrorConfig{Symcon: SymconConfig{Protocol: "ftp"}}, err: errInvalidProtocol},
		{name: "bad port", cfg: MirrorConfig{Symcon: SymconConfig{Port: 70000}}, err: errInvalidPort},
		{name: "negative interval", cfg: MirrorConfig{RefreshInterval: Duration(-time.Second)}, err: errInvalidInterval},
		{name: "negative poll", cfg: MirrorConfig{PollInterval: Duration(-time.Second)}, err: errInvalidPoll},
		{name: "bad access", cfg: MirrorConfig{Access: "ALL"}, err: errInvalidAccess},
		{name: "nats without url", cfg: MirrorConfig{NATS: &NATSConfig{}}, err: errMissingNATSURL},
		{name: "redis without addr", cfg: MirrorConfig{Redis: &RedisConfig{}}, err: errMissingRedisAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			require.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}
}

func TestMirrorConfigDefaultsOptionalSections(t *testing.T) {
	cfg := &MirrorConfig{
		NATS:  &NATSConfig{URL: "nats://127.0.0.1:4222"},
		Redis: &RedisConfig{Addr: "127.0.0.1:6379"},
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "symcon", cfg.NATS.Stream)
	assert.Equal(t, "symcon.attributes", cfg.NATS.SubjectPrefix)
	assert.Equal(t, "symcon", cfg.Redis.Prefix)
	assert.Equal(t, cfg.RefreshInterval, cfg.PollInterval)
}

func TestVariableDetailsEffectiveProfile(t *testing.T) {
	v := VariableDetails{VariableProfile: "~Temperature"}
	assert.Equal(t, "~Temperature", v.EffectiveProfile())

	v.VariableCustomProfile = "Custom.Temp"
	assert.Equal(t, "Custom.Temp", v.EffectiveProfile())
}

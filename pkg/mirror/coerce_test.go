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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferDataType(t *testing.T) {
	tests := []struct {
		code     int
		expected DataType
	}{
		{0, Boolean},
		{1, Integer},
		{2, Float},
		{3, String},
		{4, String},
		{-1, String},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, InferDataType(tt.code), "code %d", tt.code)
	}
}

func TestCoerceBoolean(t *testing.T) {
	tests := []struct {
		wire     string
		expected bool
	}{
		{"TRUE", true},
		{"true", true},
		{"True", true},
		{"false", false},
		{"FALSE", false},
		{"0", false},
		{"1", true},
		{"2.0", true},
		{"0.5", false},
		{"-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			v, err := Coerce(Boolean, tt.wire)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		dataType DataType
		wire     string
		expected interface{}
		wantErr  bool
	}{
		{name: "integer", dataType: Integer, wire: "42", expected: int64(42)},
		{name: "integer truncates", dataType: Integer, wire: "2.7", expected: int64(2)},
		{name: "integer truncates negative", dataType: Integer, wire: "-2.7", expected: int64(-2)},
		{name: "integer rejects text", dataType: Integer, wire: "on", wantErr: true},
		{name: "integer rejects empty", dataType: Integer, wire: "", wantErr: true},
		{name: "integer rejects NaN", dataType: Integer, wire: "NaN", wantErr: true},
		{name: "float", dataType: Float, wire: "21.5", expected: 21.5},
		{name: "float exponent", dataType: Float, wire: "1e3", expected: 1000.0},
		{name: "float rejects text", dataType: Float, wire: "warm", wantErr: true},
		{name: "float rejects NaN", dataType: Float, wire: "NaN", wantErr: true},
		{name: "float rejects infinity", dataType: Float, wire: "+Inf", wantErr: true},
		{name: "float rejects overflow", dataType: Float, wire: "1e400", wantErr: true},
		{name: "string passthrough", dataType: String, wire: " Hello ", expected: " Hello "},
		{name: "string empty", dataType: String, wire: "", expected: ""},
		{name: "boolean rejects text", dataType: Boolean, wire: "yes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(tt.dataType, tt.wire)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrCoercion)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestCoerceRoundTripIsIdempotent(t *testing.T) {
	inputs := map[DataType][]string{
		Boolean: {"true", "FALSE", "0", "3", "2.0"},
		Integer: {"0", "-17", "2.9", "1e6"},
		Float:   {"0", "21.5", "-0.125", "1e-7", "3.14159265358979"},
		String:  {"", "on", "21.5 °C"},
	}

	for dt, values := range inputs {
		for _, s := range values {
			first, err := Coerce(dt, s)
			require.NoError(t, err, "%s %q", dt, s)

			second, err := Coerce(dt, FormatForWire(first))
			require.NoError(t, err, "%s %q", dt, s)

			assert.Equal(t, first, second, "%s %q", dt, s)
		}
	}
}

func TestFormatForWire(t *testing.T) {
	assert.Equal(t, "true", FormatForWire(true))
	assert.Equal(t, "42", FormatForWire(42))
	assert.Equal(t, "42", FormatForWire(int64(42)))
	assert.Equal(t, "21.5", FormatForWire(21.5))
	assert.Equal(t, "0.1", FormatForWire(float32(0.1)))
	assert.Equal(t, "1000000", FormatForWire(1e6))
	assert.Equal(t, "on", FormatForWire("on"))
	assert.Empty(t, FormatForWire(nil))
}

func TestCoerceValue(t *testing.T) {
	v, err := CoerceValue(Integer, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = CoerceValue(Integer, 41.9)
	require.NoError(t, err)
	assert.Equal(t, int64(41), v)

	v, err = CoerceValue(Float, int64(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = CoerceValue(Boolean, 1)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = CoerceValue(String, 21.5)
	require.NoError(t, err)
	assert.Equal(t, "21.5", v)

	v, err = CoerceValue(Float, "19.25")
	require.NoError(t, err)
	assert.Equal(t, 19.25, v)

	_, err = CoerceValue(Integer, "warm")
	require.ErrorIs(t, err, ErrCoercion)

	_, err = CoerceValue(Float, math.Inf(1))
	require.ErrorIs(t, err, ErrCoercion)

	_, err = CoerceValue(Integer, []int{1})
	require.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestDataTypeText(t *testing.T) {
	text, err := Integer.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "integer", string(text))
	assert.True(t, Float.Numeric())
	assert.False(t, Boolean.Numeric())
	assert.Equal(t, "unknown", DataType(42).String())
}

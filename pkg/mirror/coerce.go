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
	"math"
	"strconv"
	"strings"
)

// Controller variable type codes as reported by IPS_GetVariable.
const (
	variableTypeBoolean = 0
	variableTypeInteger = 1
	variableTypeFloat   = 2
	variableTypeString  = 3
)

// InferDataType maps a controller variable type code onto a DataType.
// Unknown codes fall back to String.
func InferDataType(code int) DataType {
	switch code {
	case variableTypeBoolean:
		return Boolean
	case variableTypeInteger:
		return Integer
	case variableTypeFloat:
		return Float
	case variableTypeString:
		return String
	default:
		return String
	}
}

// Coerce parses a wire value into the Go type of dt: bool, int64, float64 or string.
//
// Booleans accept "true"/"false" in any case, and otherwise any number,
// truncated, with nonzero meaning true.
func Coerce(dt DataType, wire string) (interface{}, error) {
	switch dt {
	case Boolean:
		if strings.EqualFold(wire, "true") {
			return true, nil
		}

		if strings.EqualFold(wire, "false") {
			return false, nil
		}

		n, err := parseTruncated(wire)
		if err != nil {
			return nil, err
		}

		return n != 0, nil
	case Integer:
		return parseTruncated(wire)
	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(wire), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %q is not a finite float", ErrCoercion, wire)
		}

		return f, nil
	case String:
		return wire, nil
	default:
		return wire, nil
	}
}

func parseTruncated(wire string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(wire), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrCoercion, wire)
	}

	t := math.Trunc(f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0, fmt.Errorf("%w: %q overflows int64", ErrCoercion, wire)
	}

	return int64(t), nil
}

// FormatForWire renders a typed value in the form the cache stores and
// change requests carry.
func FormatForWire(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// CoerceValue converts an externally written value into the Go type of dt.
// Strings go through Coerce. Numbers and booleans convert between each other
// the same way wire values do.
func CoerceValue(dt DataType, v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case string:
		return Coerce(dt, val)
	case bool, int, int32, int64, uint64, float32, float64:
		if dt == String {
			return FormatForWire(val), nil
		}

		return Coerce(dt, FormatForWire(val))
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

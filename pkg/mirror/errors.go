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

import "errors"

var (
	// ErrNotFound is returned for an unknown qualified name.
	ErrNotFound = errors.New("attribute not found")
	// ErrCoercion is returned when a wire value does not parse as the declared type.
	ErrCoercion = errors.New("value does not match attribute type")
	// ErrUnsupportedVersion aborts bootstrap against an incompatible controller kernel.
	ErrUnsupportedVersion = errors.New("unsupported kernel version")
	// ErrDuplicateID is returned when a remote id is registered under a second name.
	ErrDuplicateID = errors.New("remote id already registered")
	// ErrReadOnly is returned for writes to attributes that do not accept writes.
	ErrReadOnly = errors.New("attribute is read-only")
	// ErrRemoteChange wraps a failed change request. The local cache keeps the written value.
	ErrRemoteChange = errors.New("remote change request failed")
	// ErrInvalidConfig is returned by New for unusable options.
	ErrInvalidConfig = errors.New("invalid mirror configuration")
	// ErrUnsupportedValue is returned when a written Go value has no mapping to the attribute type.
	ErrUnsupportedValue = errors.New("unsupported value type")
)

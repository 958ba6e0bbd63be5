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
	"fmt"
)

const sourceWrite = "write"

// Read returns the cached value of name coerced to its type. It never waits
// on the controller; it only requests a background refresh.
func (m *Mirror) Read(_ context.Context, name string) (interface{}, error) {
	m.refresher.TriggerBouncedRefresh()

	attr, wire, err := m.registry.Value(name)
	if err != nil {
		return nil, err
	}

	typed, err := Coerce(attr.DataType, wire)
	if err != nil {
		m.logger.Warn().Err(err).Str("attribute", name).Str("value", wire).Msg("Cached value does not match attribute type")

		return nil, err
	}

	m.logger.Debug().Str("attribute", name).Int64("object_id", attr.RemoteID).Str("value", wire).Msg("Read value")

	return typed, nil
}

// Write stores value in the cache, forwards it to the controller and notifies the host.
// The cache keeps the new value even when the change request fails.
func (m *Mirror) Write(ctx context.Context, name string, value interface{}) error {
	attr, err := m.registry.Lookup(name)
	if err != nil {
		return err
	}

	if !attr.Access.Writable() {
		return fmt.Errorf("%w: %q", ErrReadOnly, name)
	}

	typed, err := CoerceValue(attr.DataType, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}

	wire := FormatForWire(typed)
	if _, err := m.registry.Store(name, wire); err != nil {
		return err
	}

	m.logger.Info().Str("attribute", name).Int64("object_id", attr.RemoteID).Str("value", wire).Msg("Publish variable")

	if err := m.store.RequestValueChange(ctx, attr.RemoteID, typed); err != nil {
		recordWrite(ctx, outcomeFailure)

		return fmt.Errorf("%w: %q: %w", ErrRemoteChange, name, err)
	}

	recordWrite(ctx, outcomeSuccess)
	recordValueChange(ctx, sourceWrite)

	if err := m.host.NotifyChanged(ctx, name, typed); err != nil {
		m.logger.Warn().Err(err).Str("attribute", name).Msg("Failed to notify attribute change")
	}

	return nil
}

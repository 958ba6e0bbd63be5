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

// Package host exposes mirrored attributes to local readers and writers and
// forwards change notifications to the configured notifiers.
package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carverauto/symcon-mirror/pkg/logger"
	"github.com/carverauto/symcon-mirror/pkg/mirror"
	"github.com/carverauto/symcon-mirror/pkg/models"
)

// ErrAlreadyRegistered is returned when an attribute name is registered twice.
var ErrAlreadyRegistered = errors.New("attribute already registered")

// Notifier receives attribute change events.
type Notifier interface {
	Notify(ctx context.Context, ev models.AttributeChangeEvent) error
}

type hosted struct {
	spec    mirror.AttributeSpec
	onRead  mirror.ReadFunc
	onWrite mirror.WriteFunc
}

// Host is an in-process attribute table. It implements mirror.AttributeHost.
type Host struct {
	mu        sync.RWMutex
	attrs     map[string]*hosted
	notifiers []Notifier
	logger    logger.Logger
	now       func() time.Time
}

var _ mirror.AttributeHost = (*Host)(nil)

// New creates a host that fans change events out to notifiers.
func New(log logger.Logger, notifiers ...Notifier) *Host {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Host{
		attrs:     make(map[string]*hosted),
		notifiers: notifiers,
		logger:    log,
		now:       time.Now,
	}
}

// RegisterAttribute exposes an attribute. onWrite may be nil for read-only attributes.
func (h *Host) RegisterAttribute(spec mirror.AttributeSpec, onRead mirror.ReadFunc, onWrite mirror.WriteFunc) error {
	if onRead == nil {
		return fmt.Errorf("%w: %s has no read callback", mirror.ErrInvalidConfig, spec.Name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.attrs[spec.Name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, spec.Name)
	}

	h.attrs[spec.Name] = &hosted{spec: spec, onRead: onRead, onWrite: onWrite}

	h.logger.Debug().
		Str("attribute", spec.Name).
		Str("data_type", spec.DataType.String()).
		Bool("writable", spec.Writable).
		Msg("Attribute exposed")

	return nil
}

func (h *Host) lookup(name string) (*hosted, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	attr, ok := h.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", mirror.ErrNotFound, name)
	}

	return attr, nil
}

// Read returns the current value of name through its read callback.
func (h *Host) Read(ctx context.Context, name string) (interface{}, error) {
	attr, err := h.lookup(name)
	if err != nil {
		return nil, err
	}

	return attr.onRead(ctx)
}

// Write sends value to name through its write callback.
func (h *Host) Write(ctx context.Context, name string, value interface{}) error {
	attr, err := h.lookup(name)
	if err != nil {
		return err
	}

	if attr.onWrite == nil || !attr.spec.Writable {
		return fmt.Errorf("%w: %s", mirror.ErrReadOnly, name)
	}

	return attr.onWrite(ctx, value)
}

// Attributes returns the exposed specs sorted by name.
func (h *Host) Attributes() []mirror.AttributeSpec {
	h.mu.RLock()
	specs := make([]mirror.AttributeSpec, 0, len(h.attrs))

	for _, attr := range h.attrs {
		specs = append(specs, attr.spec)
	}
	h.mu.RUnlock()

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })

	return specs
}

// NotifyChanged delivers a change event for name to every notifier. All
// notifiers are attempted; their failures are joined.
func (h *Host) NotifyChanged(ctx context.Context, name string, value interface{}) error {
	if _, err := h.lookup(name); err != nil {
		return err
	}

	ev := models.AttributeChangeEvent{
		Name:      name,
		Value:     value,
		Timestamp: h.now().UTC(),
	}

	var errs []error

	for _, n := range h.notifiers {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

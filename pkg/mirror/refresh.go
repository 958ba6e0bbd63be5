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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/symcon-mirror/pkg/logger"
)

const sourceRefresh = "refresh"

// Refresher re-fetches every registered value in passes. At most one pass
// runs at a time, and a pass only starts once the interval since the last
// completed pass has elapsed. Passes run on a single worker goroutine,
// requested by reads and, when poll is set, by a ticker.
type Refresher struct {
	registry *Registry
	store    RemoteStore
	host     AttributeHost
	clock    Clock
	interval time.Duration
	poll     time.Duration
	logger   logger.Logger
	tracer   trace.Tracer

	mu          sync.Mutex
	running     bool
	inFlight    bool
	lastRefresh time.Time
	passes      uint64

	requests chan struct{}
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRefresher wires a refresher. clock may be nil.
func NewRefresher(
	registry *Registry, store RemoteStore, host AttributeHost, clock Clock, interval time.Duration, log logger.Logger,
) *Refresher {
	if clock == nil {
		clock = realClock{}
	}

	return &Refresher{
		registry: registry,
		store:    store,
		host:     host,
		clock:    clock,
		interval: interval,
		logger:   log,
		tracer:   otel.Tracer(meterName),
		requests: make(chan struct{}, 1),
	}
}

// Start launches the worker. It returns immediately.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.running = true

	go r.run(ctx, r.done)
}

// SetPollInterval makes the worker request a pass every d. Zero disables
// polling. It only takes effect if called before Start.
func (r *Refresher) SetPollInterval(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.poll = d
}

// Stop ends the worker after any running pass completes, or when ctx expires.
func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if done == nil {
		return nil
	}

	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Refresher) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer r.shutdown()

	r.mu.Lock()
	poll := r.poll
	r.mu.Unlock()

	var tick <-chan time.Time

	if poll > 0 {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()

		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			r.TriggerBouncedRefresh()
		case <-r.requests:
			// A started pass runs to completion even during shutdown.
			r.RunPass(context.WithoutCancel(ctx))
		}
	}
}

// shutdown closes the gate and releases a request the worker never picked up.
func (r *Refresher) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = false

	select {
	case <-r.requests:
		r.inFlight = false
	default:
	}
}

// TriggerBouncedRefresh requests a pass without blocking. It reports whether
// the request passed the gate. Requests are refused while the worker is not
// running.
func (r *Refresher) TriggerBouncedRefresh() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || r.inFlight {
		return false
	}

	if !r.lastRefresh.IsZero() && r.clock.Now().Sub(r.lastRefresh) <= r.interval {
		return false
	}

	// The slot is free: only the gate holder sends, and the worker drains
	// it before release.
	select {
	case r.requests <- struct{}{}:
	default:
		return false
	}

	r.inFlight = true

	return true
}

func (r *Refresher) release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRefresh = r.clock.Now()
	r.inFlight = false
	r.passes++
}

// RunPass refreshes every attribute once. Callers other than the worker
// must hold the gate; see TriggerBouncedRefresh.
func (r *Refresher) RunPass(ctx context.Context) {
	defer r.release()

	ctx, span := r.tracer.Start(ctx, "RefreshPass")
	defer span.End()

	start := time.Now()
	names := r.registry.Names()

	var changed, failed int

	for _, name := range names {
		ok, err := r.refreshOne(ctx, name)
		if err != nil {
			failed++

			continue
		}

		if ok {
			changed++
		}
	}

	elapsed := time.Since(start)
	recordRefreshPass(ctx, elapsed)

	span.SetAttributes(
		attribute.Int("mirror.attributes", len(names)),
		attribute.Int("mirror.changed", changed),
		attribute.Int("mirror.failed", failed),
	)

	r.logger.Debug().
		Int("attributes", len(names)).
		Int("changed", changed).
		Int("failed", failed).
		Dur("took", elapsed).
		Msg("Finished refresh pass")
}

func (r *Refresher) refreshOne(ctx context.Context, name string) (bool, error) {
	attr, err := r.registry.Lookup(name)
	if err != nil {
		return false, err
	}

	wire, err := r.store.GetValue(ctx, attr.RemoteID)
	if err != nil {
		recordFetchFailure(ctx)
		r.logger.Warn().
			Err(err).
			Str("attribute", name).
			Int64("object_id", attr.RemoteID).
			Msg("Failed to refresh attribute")

		return false, err
	}

	changed, err := r.registry.Store(name, wire)
	if err != nil || !changed {
		return false, err
	}

	recordValueChange(ctx, sourceRefresh)

	r.logger.Debug().
		Str("attribute", name).
		Int64("object_id", attr.RemoteID).
		Str("value", wire).
		Msg("Attribute value changed")

	typed, err := Coerce(attr.DataType, wire)
	if err != nil {
		r.logger.Warn().Err(err).Str("attribute", name).Msg("Changed value does not match attribute type")

		return true, nil
	}

	if err := r.host.NotifyChanged(ctx, name, typed); err != nil {
		r.logger.Warn().Err(err).Str("attribute", name).Msg("Failed to notify attribute change")
	}

	return true, nil
}

// Passes returns the number of completed passes.
func (r *Refresher) Passes() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.passes
}

// InFlight reports whether a pass is pending or running.
func (r *Refresher) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.inFlight
}

// LastRefresh returns when the last pass completed. Zero means never.
func (r *Refresher) LastRefresh() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastRefresh
}

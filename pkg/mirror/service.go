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
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/symcon-mirror/pkg/logger"
	"github.com/carverauto/symcon-mirror/pkg/models"
)

// Config holds the settings read once at bootstrap.
type Config struct {
	RootObjectID    int64
	RefreshInterval time.Duration
	// PollInterval requests a refresh pass on a timer, on top of the ones
	// reads trigger. Zero disables it.
	PollInterval     time.Duration
	Access           models.AccessMode
	MinKernelVersion float64
	// Clock drives the refresh gate; nil uses wall time.
	Clock Clock
}

// ConfigFromModel maps the daemon configuration onto a mirror Config.
func ConfigFromModel(cfg *models.MirrorConfig) (Config, error) {
	access, err := models.ParseAccessMode(cfg.Access)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return Config{
		RootObjectID:     cfg.RootObjectID,
		RefreshInterval:  time.Duration(cfg.RefreshInterval),
		PollInterval:     time.Duration(cfg.PollInterval),
		Access:           access,
		MinKernelVersion: cfg.MinKernelVersion,
	}, nil
}

// Mirror bootstraps the attribute set from the controller and serves reads
// and writes against the cache.
type Mirror struct {
	cfg       Config
	store     RemoteStore
	host      AttributeHost
	registry  *Registry
	refresher *Refresher
	resolver  *Resolver
	logger    logger.Logger
	tracer    trace.Tracer

	mu            sync.RWMutex
	kernelVersion string
	kernelDir     string
}

// New validates cfg and wires a mirror. Nothing is fetched until Start.
func New(cfg Config, store RemoteStore, host AttributeHost, log logger.Logger) (*Mirror, error) {
	if store == nil || host == nil {
		return nil, fmt.Errorf("%w: remote store and host are required", ErrInvalidConfig)
	}

	if cfg.RefreshInterval < 0 {
		return nil, fmt.Errorf("%w: negative refresh interval", ErrInvalidConfig)
	}

	if cfg.PollInterval < 0 {
		return nil, fmt.Errorf("%w: negative poll interval", ErrInvalidConfig)
	}

	if cfg.Access == "" {
		cfg.Access = models.AccessReadWrite
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	registry := NewRegistry()

	refresher := NewRefresher(registry, store, host, cfg.Clock, cfg.RefreshInterval, log)
	refresher.SetPollInterval(cfg.PollInterval)

	return &Mirror{
		cfg:       cfg,
		store:     store,
		host:      host,
		registry:  registry,
		refresher: refresher,
		resolver:  NewResolver(store, cfg.Access, log),
		logger:    log,
		tracer:    otel.Tracer(meterName),
	}, nil
}

// Start checks the kernel version, registers every variable below the root
// object and starts the refresh worker. Any failure aborts startup.
func (m *Mirror) Start(ctx context.Context) error {
	if err := m.Bootstrap(ctx); err != nil {
		return err
	}

	m.refresher.Start(ctx)

	return nil
}

// Stop waits for the refresh worker to exit.
func (m *Mirror) Stop(ctx context.Context) error {
	return m.refresher.Stop(ctx)
}

// Bootstrap performs the one-time discovery without starting the worker.
func (m *Mirror) Bootstrap(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "Bootstrap")
	defer span.End()

	if err := m.checkKernel(ctx); err != nil {
		span.RecordError(err)

		return err
	}

	count, err := m.resolver.Resolve(ctx, m.cfg.RootObjectID, m.registerAttribute)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to resolve object tree: %w", err)
	}

	m.logger.Info().
		Int64("root_object_id", m.cfg.RootObjectID).
		Int("attributes", count).
		Msg("Mirror bootstrap complete")

	return nil
}

func (m *Mirror) checkKernel(ctx context.Context) error {
	dir, err := m.store.KernelDir(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch kernel dir: %w", err)
	}

	raw, err := m.store.KernelVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch kernel version: %w", err)
	}

	m.mu.Lock()
	m.kernelDir, m.kernelVersion = dir, raw
	m.mu.Unlock()

	m.logger.Info().Str("kernel_dir", dir).Str("kernel_version", raw).Msg("Connected to controller")

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%w: cannot parse %q", ErrUnsupportedVersion, raw)
	}

	if v < m.cfg.MinKernelVersion {
		return fmt.Errorf("%w: requires %g and up, detected %s", ErrUnsupportedVersion, m.cfg.MinKernelVersion, raw)
	}

	return nil
}

// registerAttribute seeds the cache with the current value and exposes the attribute.
func (m *Mirror) registerAttribute(ctx context.Context, attr Attribute) error {
	wire, err := m.store.GetValue(ctx, attr.RemoteID)
	if err != nil {
		return fmt.Errorf("failed to fetch initial value of %d: %w", attr.RemoteID, err)
	}

	if err := m.registry.Register(attr, wire); err != nil {
		return err
	}

	name := attr.Name

	onRead := func(ctx context.Context) (interface{}, error) {
		return m.Read(ctx, name)
	}

	var onWrite WriteFunc
	if attr.Access.Writable() {
		onWrite = func(ctx context.Context, value interface{}) error {
			return m.Write(ctx, name, value)
		}
	}

	if err := m.host.RegisterAttribute(attr.Spec(), onRead, onWrite); err != nil {
		return err
	}

	recordAttributeRegistered(ctx)

	ev := m.logger.Info().
		Str("attribute", name).
		Int64("object_id", attr.RemoteID).
		Stringer("type", attr.DataType)

	if attr.Min != nil {
		ev = ev.Float64("min", *attr.Min).Float64("max", *attr.Max)
	}

	ev.Msg("Added attribute")

	m.announceSeed(ctx, attr, wire)

	return nil
}

// announceSeed pushes the bootstrap value to the host so subscribers see
// every attribute before the first refresh pass.
func (m *Mirror) announceSeed(ctx context.Context, attr Attribute, wire string) {
	typed, err := Coerce(attr.DataType, wire)
	if err != nil {
		m.logger.Warn().Err(err).Str("attribute", attr.Name).Str("value", wire).Msg("Initial value does not match attribute type")

		return
	}

	if err := m.host.NotifyChanged(ctx, attr.Name, typed); err != nil {
		m.logger.Warn().Err(err).Str("attribute", attr.Name).Msg("Failed to announce initial value")
	}
}

// Registry returns the attribute registry.
func (m *Mirror) Registry() *Registry {
	return m.registry
}

// Refresher returns the refresh engine.
func (m *Mirror) Refresher() *Refresher {
	return m.refresher
}

// Status reports counts and refresh state.
func (m *Mirror) Status() Status {
	m.mu.RLock()
	version, dir := m.kernelVersion, m.kernelDir
	m.mu.RUnlock()

	return Status{
		Attributes:     m.registry.Len(),
		RefreshPasses:  m.refresher.Passes(),
		RefreshRunning: m.refresher.InFlight(),
		LastRefresh:    m.refresher.LastRefresh(),
		KernelVersion:  version,
		KernelDir:      dir,
	}
}

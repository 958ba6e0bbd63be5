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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/symcon-mirror/pkg/config"
	"github.com/carverauto/symcon-mirror/pkg/config/kvnats"
	"github.com/carverauto/symcon-mirror/pkg/host"
	"github.com/carverauto/symcon-mirror/pkg/lifecycle"
	"github.com/carverauto/symcon-mirror/pkg/logger"
	"github.com/carverauto/symcon-mirror/pkg/mirror"
	"github.com/carverauto/symcon-mirror/pkg/models"
	"github.com/carverauto/symcon-mirror/pkg/natsutil"
	"github.com/carverauto/symcon-mirror/pkg/symcon"
	"github.com/carverauto/symcon-mirror/pkg/version"
)

const (
	serviceName      = "symcon-mirror"
	defaultKVBucket  = "config"
	defaultKVNATSURL = nats.DefaultURL
)

var (
	errFailedToLoadConfig = errors.New("failed to load config")
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/symcon-mirror/mirror.json", "Path to mirror config file")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.UserAgent())

		return nil
	}

	ctx := context.Background()

	// Step 1: Load configuration
	cfgLoader := config.NewConfig(nil)

	if config.Source() == "kv" {
		closeKV, err := attachKVStore(ctx, cfgLoader)
		if err != nil {
			return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
		}
		defer closeKV()
	}

	var cfg models.MirrorConfig

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	// Step 2: Create logger from loaded config
	logConfig := logger.ApplyDefaults(cfg.Logging)

	mirrorLogger, err := lifecycle.CreateComponentLogger(ctx, "mirror", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			mirrorLogger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	// Step 3: Telemetry
	initTelemetry(ctx, cfg.Metrics, mirrorLogger)

	// Step 4: Wire the mirror
	d, err := newDaemon(ctx, &cfg, mirrorLogger)
	if err != nil {
		return err
	}

	return lifecycle.RunService(ctx, &lifecycle.ServiceOptions{
		Service: d,
		Logger:  mirrorLogger,
	})
}

// attachKVStore connects to the NATS KV bucket named by CONFIG_KV_BUCKET.
func attachKVStore(ctx context.Context, cfgLoader *config.Config) (func(), error) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = defaultKVNATSURL
	}

	bucket := os.Getenv("CONFIG_KV_BUCKET")
	if bucket == "" {
		bucket = defaultKVBucket
	}

	nc, err := nats.Connect(url, nats.Name(serviceName+"-config"), nats.Timeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to config KV at %s: %w", url, err)
	}

	store, err := kvnats.New(ctx, nc, bucket)
	if err != nil {
		nc.Close()

		return nil, err
	}

	cfgLoader.SetKVStore(store)

	return func() {
		_ = store.Close()
		nc.Close()
	}, nil
}

func initTelemetry(ctx context.Context, metrics *models.MetricsConfig, log logger.Logger) {
	var otelCfg *logger.OTelConfig

	if metrics != nil && metrics.Enabled {
		otelCfg = &logger.OTelConfig{
			Enabled:     true,
			Endpoint:    metrics.Endpoint,
			Insecure:    metrics.Insecure,
			ServiceName: serviceName,
		}

		_, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
			ServiceName:    serviceName,
			OTel:           otelCfg,
			ExportInterval: time.Duration(metrics.ExportInterval),
		})
		if err != nil {
			log.Warn().Err(err).Msg("OTel metrics disabled")
		}
	}

	if _, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName: serviceName,
		Logger:      log,
		OTel:        otelCfg,
	}); err != nil {
		log.Warn().Err(err).Msg("OTel tracing disabled")
	}
}

// daemon owns the mirror and the notifier connections it publishes through.
type daemon struct {
	mirror  *mirror.Mirror
	closers []io.Closer
	nc      *nats.Conn
	logger  logger.Logger
}

func newDaemon(ctx context.Context, cfg *models.MirrorConfig, log logger.Logger) (*daemon, error) {
	d := &daemon{logger: log}

	var notifiers []host.Notifier

	if cfg.NATS != nil {
		nc, err := natsutil.ConnectWithSecurity(ctx, cfg.NATS.URL, cfg.NATS.Security, log)
		if err != nil {
			return nil, err
		}

		d.nc = nc

		publisher, err := natsutil.CreateEventPublisher(ctx, nc, cfg.NATS.Domain, cfg.NATS.Stream,
			[]string{cfg.NATS.SubjectPrefix + ".>"}, log)
		if err != nil {
			d.close()

			return nil, err
		}

		notifiers = append(notifiers, host.NewNATSNotifier(publisher, cfg.NATS.SubjectPrefix))
	}

	if cfg.Redis != nil {
		redisNotifier, err := host.NewRedisNotifier(ctx, cfg.Redis)
		if err != nil {
			d.close()

			return nil, err
		}

		d.closers = append(d.closers, redisNotifier)
		notifiers = append(notifiers, redisNotifier)
	}

	mirrorCfg, err := mirror.ConfigFromModel(cfg)
	if err != nil {
		d.close()

		return nil, err
	}

	client := symcon.NewClient(&cfg.Symcon, log)

	m, err := mirror.New(mirrorCfg, client, host.New(log, notifiers...), log)
	if err != nil {
		d.close()

		return nil, err
	}

	d.mirror = m

	log.Info().
		Str("endpoint", cfg.Symcon.Endpoint()).
		Int64("root_object_id", cfg.RootObjectID).
		Int("notifiers", len(notifiers)).
		Msg("Mirror configured")

	return d, nil
}

func (d *daemon) Start(ctx context.Context) error {
	if err := d.mirror.Start(ctx); err != nil {
		d.close()

		return err
	}

	return nil
}

func (d *daemon) Stop(ctx context.Context) error {
	err := d.mirror.Stop(ctx)

	status := d.mirror.Status()
	d.logger.Info().
		Int("attributes", status.Attributes).
		Uint64("refresh_passes", status.RefreshPasses).
		Msg("Mirror stopped")

	d.close()

	return err
}

func (d *daemon) close() {
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			d.logger.Warn().Err(err).Msg("Failed to close notifier")
		}
	}

	if d.nc != nil {
		if err := d.nc.Drain(); err != nil {
			d.nc.Close()
		}
	}
}

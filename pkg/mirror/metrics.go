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
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/carverauto/symcon-mirror/pkg/mirror"

	metricRefreshPasses   = "symcon_mirror_refresh_passes_total"
	metricRefreshDuration = "symcon_mirror_refresh_duration_seconds"
	metricValueChanges    = "symcon_mirror_value_changes_total"
	metricFetchFailures   = "symcon_mirror_fetch_failures_total"
	metricWrites          = "symcon_mirror_writes_total"
	metricAttributes      = "symcon_mirror_attributes"

	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	passCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	passHistogram metric.Float64Histogram
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	changeCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	fetchFailureCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	writeCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	attributeGauge metric.Int64UpDownCounter
)

func initMeter() {
	meter := otel.Meter(meterName)

	var err error

	if passCounter, err = meter.Int64Counter(
		metricRefreshPasses,
		metric.WithDescription("Completed cache refresh passes"),
	); err != nil {
		otel.Handle(err)
	}

	if passHistogram, err = meter.Float64Histogram(
		metricRefreshDuration,
		metric.WithDescription("Duration of a full cache refresh pass"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	}

	if changeCounter, err = meter.Int64Counter(
		metricValueChanges,
		metric.WithDescription("Attribute value changes observed, by source"),
	); err != nil {
		otel.Handle(err)
	}

	if fetchFailureCounter, err = meter.Int64Counter(
		metricFetchFailures,
		metric.WithDescription("Per-attribute value fetches that failed during refresh"),
	); err != nil {
		otel.Handle(err)
	}

	if writeCounter, err = meter.Int64Counter(
		metricWrites,
		metric.WithDescription("Attribute writes forwarded to the controller"),
	); err != nil {
		otel.Handle(err)
	}

	if attributeGauge, err = meter.Int64UpDownCounter(
		metricAttributes,
		metric.WithDescription("Attributes currently mirrored"),
	); err != nil {
		otel.Handle(err)
	}
}

func recordRefreshPass(ctx context.Context, elapsed time.Duration) {
	meterOnce.Do(initMeter)

	if passCounter != nil {
		passCounter.Add(ctx, 1)
	}

	if passHistogram != nil {
		passHistogram.Record(ctx, elapsed.Seconds())
	}
}

func recordValueChange(ctx context.Context, source string) {
	meterOnce.Do(initMeter)

	if changeCounter == nil {
		return
	}

	changeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func recordFetchFailure(ctx context.Context) {
	meterOnce.Do(initMeter)

	if fetchFailureCounter == nil {
		return
	}

	fetchFailureCounter.Add(ctx, 1)
}

func recordWrite(ctx context.Context, outcome string) {
	meterOnce.Do(initMeter)

	if writeCounter == nil {
		return
	}

	writeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func recordAttributeRegistered(ctx context.Context) {
	meterOnce.Do(initMeter)

	if attributeGauge == nil {
		return
	}

	attributeGauge.Add(ctx, 1)
}

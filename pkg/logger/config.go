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

package logger

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix scopes logger settings to this daemon. SYMCON_MIRROR_LOG_LEVEL
// wins over LOG_LEVEL, and so on for every key below.
const EnvPrefix = "SYMCON_MIRROR_"

const (
	defaultLevel        = "info"
	defaultOutput       = "stdout"
	defaultBatchTimeout = 5 * time.Second
)

// DefaultConfig builds a Config from the environment.
func DefaultConfig() *Config {
	return &Config{
		Level:      lookupEnv(defaultLevel, "LOG_LEVEL"),
		Debug:      lookupEnvBool(false, "DEBUG"),
		Output:     lookupEnv(defaultOutput, "LOG_OUTPUT"),
		TimeFormat: lookupEnv("", "LOG_TIME_FORMAT"),
		OTel:       DefaultOTelConfig(),
	}
}

// DefaultOTelConfig reads the standard OTLP exporter variables. Log-specific
// keys take precedence over the generic OTEL_EXPORTER_OTLP_* ones.
func DefaultOTelConfig() OTelConfig {
	batchTimeout := defaultBatchTimeout

	if raw := lookupEnv("", "OTEL_EXPORTER_OTLP_LOGS_TIMEOUT", "OTEL_EXPORTER_OTLP_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			batchTimeout = d
		}
	}

	return OTelConfig{
		Enabled:      lookupEnvBool(false, "OTEL_LOGS_ENABLED"),
		Endpoint:     lookupEnv("", "OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"),
		Headers:      parseHeaders(lookupEnv("", "OTEL_EXPORTER_OTLP_LOGS_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")),
		ServiceName:  lookupEnv(defaultServiceName, "OTEL_SERVICE_NAME"),
		BatchTimeout: Duration(batchTimeout),
		Insecure:     lookupEnvBool(false, "OTEL_EXPORTER_OTLP_LOGS_INSECURE", "OTEL_EXPORTER_OTLP_INSECURE"),
	}
}

// ApplyDefaults returns cfg with empty fields filled from DefaultConfig.
// A nil cfg yields DefaultConfig itself. cfg is not modified.
func ApplyDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()
	if cfg == nil {
		return defaults
	}

	out := *cfg

	if out.Level == "" {
		out.Level = defaults.Level
	}

	if out.Output == "" {
		out.Output = defaults.Output
	}

	if out.TimeFormat == "" {
		out.TimeFormat = defaults.TimeFormat
	}

	out.Debug = out.Debug || defaults.Debug

	if out.OTel.Endpoint == "" {
		out.OTel.Endpoint = defaults.OTel.Endpoint
	}

	if out.OTel.ServiceName == "" {
		out.OTel.ServiceName = defaults.OTel.ServiceName
	}

	if out.OTel.BatchTimeout <= 0 {
		out.OTel.BatchTimeout = defaults.OTel.BatchTimeout
	}

	if len(out.OTel.Headers) == 0 {
		out.OTel.Headers = defaults.OTel.Headers
	}

	return &out
}

// lookupEnv returns the first non-empty value among the prefixed keys, then
// the plain keys, or def.
func lookupEnv(def string, keys ...string) string {
	for _, prefix := range []string{EnvPrefix, ""} {
		for _, key := range keys {
			if v := strings.TrimSpace(os.Getenv(prefix + key)); v != "" {
				return v
			}
		}
	}

	return def
}

func lookupEnvBool(def bool, keys ...string) bool {
	raw := lookupEnv("", keys...)
	if raw == "" {
		return def
	}

	switch strings.ToLower(raw) {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}

	return v
}

// parseHeaders reads the OTLP "k1=v1,k2=v2" header list. Values may be
// percent-encoded; malformed pairs are skipped.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			continue
		}

		value = strings.TrimSpace(value)
		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}

		headers[key] = value
	}

	return headers
}

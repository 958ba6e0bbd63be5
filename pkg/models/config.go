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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/symcon-mirror/pkg/logger"
)

var (
	errInvalidDuration   = errors.New("invalid duration")
	errInvalidProtocol   = errors.New("protocol must be http or https")
	errInvalidPort       = errors.New("port must be between 1 and 65535")
	errInvalidInterval   = errors.New("refresh_interval must not be negative")
	errInvalidPoll       = errors.New("poll_interval must not be negative")
	errInvalidAccess     = errors.New("unsupported access mode")
	errMissingNATSURL    = errors.New("nats.url is required when nats is configured")
	errMissingRedisAddr  = errors.New("redis.addr is required when redis is configured")
	errInvalidKernelSpec = errors.New("min_kernel_version must not be negative")
)

const (
	defaultSymconHost       = "127.0.0.1"
	defaultSymconPort       = 3777
	defaultSymconProtocol   = "http"
	defaultSymconTimeout    = 10 * time.Second
	defaultRefreshInterval  = 5 * time.Second
	defaultMinKernelVersion = 6
	defaultNATSStream       = "symcon"
	defaultNATSSubject      = "symcon.attributes"
	defaultRedisPrefix      = "symcon"
	defaultFailureThreshold = 5
	defaultSuccessThreshold = 2
	defaultBreakerTimeout   = 30 * time.Second
	defaultBreakerReset     = 60 * time.Second
)

// Duration is a time.Duration that unmarshals from either a Go duration
// string ("5s") or integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// AccessMode mirrors the write type of an exposed attribute.
type AccessMode string

const (
	AccessRead          AccessMode = "READ"
	AccessWrite         AccessMode = "WRITE"
	AccessReadWrite     AccessMode = "READ_WRITE"
	AccessReadWithWrite AccessMode = "READ_WITH_WRITE"
)

// ParseAccessMode maps a configured write type onto an AccessMode. The empty
// string selects READ_WRITE.
func ParseAccessMode(s string) (AccessMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return AccessReadWrite, nil
	case string(AccessRead):
		return AccessRead, nil
	case string(AccessWrite):
		return AccessWrite, nil
	case string(AccessReadWrite):
		return AccessReadWrite, nil
	case string(AccessReadWithWrite):
		return AccessReadWithWrite, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: READ, WRITE, READ_WRITE, READ_WITH_WRITE)", errInvalidAccess, s)
	}
}

// Writable reports whether attributes with this mode accept writes.
func (a AccessMode) Writable() bool {
	return a != AccessRead
}

// CircuitBreakerConfig tunes the breaker guarding remote calls.
type CircuitBreakerConfig struct {
	FailureThreshold int      `json:"failure_threshold"`
	SuccessThreshold int      `json:"success_threshold"`
	Timeout          Duration `json:"timeout"`
	ResetTimeout     Duration `json:"reset_timeout"`
}

// SymconConfig describes how to reach the controller's JSON-RPC API.
type SymconConfig struct {
	Host               string               `json:"host"`
	Port               int                  `json:"port"`
	Protocol           string               `json:"protocol"`
	Username           string               `json:"username"`
	Password           string               `json:"password"`
	Timeout            Duration             `json:"timeout"`
	InsecureSkipVerify bool                 `json:"insecure_skip_verify"`
	CircuitBreaker     CircuitBreakerConfig `json:"circuit_breaker"`
}

// Endpoint returns the JSON-RPC URL of the controller.
func (c *SymconConfig) Endpoint() string {
	return fmt.Sprintf("%s://%s:%d/api/", c.Protocol, c.Host, c.Port)
}

// NATSConfig enables change-event publishing to JetStream.
type NATSConfig struct {
	URL           string          `json:"url"`
	Stream        string          `json:"stream"`
	SubjectPrefix string          `json:"subject_prefix"`
	Domain        string          `json:"domain,omitempty"`
	Security      *SecurityConfig `json:"security,omitempty"`
}

// RedisConfig enables the Redis change notifier.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
}

// MetricsConfig enables OTLP metric export.
type MetricsConfig struct {
	Enabled        bool     `json:"enabled"`
	Endpoint       string   `json:"endpoint"`
	Insecure       bool     `json:"insecure"`
	ExportInterval Duration `json:"export_interval"`
}

// MirrorConfig is the top-level configuration of the mirror daemon.
type MirrorConfig struct {
	Symcon           SymconConfig   `json:"symcon"`
	RootObjectID     int64          `json:"root_object_id"`
	RefreshInterval  Duration       `json:"refresh_interval"`
	PollInterval     Duration       `json:"poll_interval"`
	Access           string         `json:"access"`
	MinKernelVersion float64        `json:"min_kernel_version"`
	NATS             *NATSConfig    `json:"nats,omitempty"`
	Redis            *RedisConfig   `json:"redis,omitempty"`
	Logging          *logger.Config `json:"logging,omitempty"`
	Metrics          *MetricsConfig `json:"metrics,omitempty"`
}

// Validate fills in defaults and rejects unusable settings.
func (c *MirrorConfig) Validate() error {
	c.applyDefaults()

	if c.Symcon.Protocol != "http" && c.Symcon.Protocol != "https" {
		return fmt.Errorf("%w: %q", errInvalidProtocol, c.Symcon.Protocol)
	}

	if c.Symcon.Port < 1 || c.Symcon.Port > 65535 {
		return fmt.Errorf("%w: %d", errInvalidPort, c.Symcon.Port)
	}

	if c.RefreshInterval < 0 {
		return errInvalidInterval
	}

	if c.PollInterval < 0 {
		return errInvalidPoll
	}

	if c.MinKernelVersion < 0 {
		return errInvalidKernelSpec
	}

	if _, err := ParseAccessMode(c.Access); err != nil {
		return err
	}

	if c.NATS != nil && c.NATS.URL == "" {
		return errMissingNATSURL
	}

	if c.Redis != nil && c.Redis.Addr == "" {
		return errMissingRedisAddr
	}

	return nil
}

func (c *MirrorConfig) applyDefaults() {
	if c.Symcon.Host == "" {
		c.Symcon.Host = defaultSymconHost
	}

	if c.Symcon.Port == 0 {
		c.Symcon.Port = defaultSymconPort
	}

	if c.Symcon.Protocol == "" {
		c.Symcon.Protocol = defaultSymconProtocol
	}

	c.Symcon.Protocol = strings.ToLower(c.Symcon.Protocol)

	if c.Symcon.Timeout == 0 {
		c.Symcon.Timeout = Duration(defaultSymconTimeout)
	}

	cb := &c.Symcon.CircuitBreaker
	if cb.FailureThreshold == 0 {
		cb.FailureThreshold = defaultFailureThreshold
	}

	if cb.SuccessThreshold == 0 {
		cb.SuccessThreshold = defaultSuccessThreshold
	}

	if cb.Timeout == 0 {
		cb.Timeout = Duration(defaultBreakerTimeout)
	}

	if cb.ResetTimeout == 0 {
		cb.ResetTimeout = Duration(defaultBreakerReset)
	}

	if c.RefreshInterval == 0 {
		c.RefreshInterval = Duration(defaultRefreshInterval)
	}

	// Notifier subscribers get no reads of their own, so the cache is polled.
	if c.PollInterval == 0 && (c.NATS != nil || c.Redis != nil) {
		c.PollInterval = c.RefreshInterval
	}

	if c.MinKernelVersion == 0 {
		c.MinKernelVersion = defaultMinKernelVersion
	}

	if c.NATS != nil {
		if c.NATS.Stream == "" {
			c.NATS.Stream = defaultNATSStream
		}

		if c.NATS.SubjectPrefix == "" {
			c.NATS.SubjectPrefix = defaultNATSSubject
		}
	}

	if c.Redis != nil && c.Redis.Prefix == "" {
		c.Redis.Prefix = defaultRedisPrefix
	}
}

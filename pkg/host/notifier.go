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

package host

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/carverauto/symcon-mirror/pkg/mirror"
	"github.com/carverauto/symcon-mirror/pkg/models"
	"github.com/carverauto/symcon-mirror/pkg/natsutil"
)

const subjectEscape = '~'

// NATSNotifier publishes change events to JetStream on <prefix>.<name>.
type NATSNotifier struct {
	publisher *natsutil.EventPublisher
	prefix    string
}

// NewNATSNotifier wraps publisher. prefix is the subject prefix, e.g. "symcon.attributes".
func NewNATSNotifier(publisher *natsutil.EventPublisher, prefix string) *NATSNotifier {
	return &NATSNotifier{
		publisher: publisher,
		prefix:    strings.TrimSuffix(prefix, "."),
	}
}

// Subject returns the subject used for attribute name.
func (n *NATSNotifier) Subject(name string) string {
	return n.prefix + "." + subjectToken(name)
}

// Notify publishes ev.
func (n *NATSNotifier) Notify(ctx context.Context, ev models.AttributeChangeEvent) error {
	if err := n.publisher.PublishAttributeChanged(ctx, n.Subject(ev.Name), ev); err != nil {
		return fmt.Errorf("nats notifier: %w", err)
	}

	return nil
}

// subjectToken maps an attribute name onto a single NATS subject token.
// Characters NATS reserves, and the escape byte itself, become ~XX with the
// upper-case hex code, so distinct names never share a subject. The empty
// name maps to "~".
func subjectToken(name string) string {
	if name == "" {
		return string(subjectEscape)
	}

	var b strings.Builder

	b.Grow(len(name))

	for _, r := range name {
		switch r {
		case subjectEscape, '.', '*', '>', ' ', '\t', '\r', '\n':
			fmt.Fprintf(&b, "%c%02X", subjectEscape, r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// RedisNotifier keeps the latest wire value of every attribute in the hash
// <prefix>:values and publishes each change as JSON on <prefix>:changes.
type RedisNotifier struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisNotifier connects to the configured Redis server.
func NewRedisNotifier(ctx context.Context, cfg *models.RedisConfig) (*RedisNotifier, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisNotifier{rdb: rdb, prefix: cfg.Prefix}, nil
}

// ValuesKey is the hash holding the latest wire values.
func (n *RedisNotifier) ValuesKey() string {
	return n.prefix + ":values"
}

// ChangesChannel is the pub/sub channel for change events.
func (n *RedisNotifier) ChangesChannel() string {
	return n.prefix + ":changes"
}

// Notify stores the new value and publishes ev.
func (n *RedisNotifier) Notify(ctx context.Context, ev models.AttributeChangeEvent) error {
	if err := n.rdb.HSet(ctx, n.ValuesKey(), ev.Name, mirror.FormatForWire(ev.Value)).Err(); err != nil {
		return fmt.Errorf("failed to write attribute value to Redis: %w", err)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal attribute change event: %w", err)
	}

	if err := n.rdb.Publish(ctx, n.ChangesChannel(), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish attribute change event: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (n *RedisNotifier) Close() error {
	return n.rdb.Close()
}

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

// Package kvnats backs kv.KVStore with a NATS JetStream key-value bucket.
package kvnats

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/symcon-mirror/pkg/config/kv"
)

// Client reads configuration documents from a JetStream KV bucket.
type Client struct {
	nc     *nats.Conn
	kv     jetstream.KeyValue
	bucket string
}

var _ kv.KVStore = (*Client)(nil)

// New binds to bucket, creating it when it does not exist yet.
func New(ctx context.Context, nc *nats.Conn, bucket string) (*Client, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := js.KeyValue(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		store, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open KV bucket %q: %w", bucket, err)
	}

	return &Client{nc: nc, kv: store, bucket: bucket}, nil
}

// Get returns the value for key, reporting false when the key is missing.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := c.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return entry.Value(), true, nil
}

// Put stores value under key.
func (c *Client) Put(ctx context.Context, key string, value []byte) error {
	_, err := c.kv.Put(ctx, key, value)

	return err
}

// Bucket returns the bound bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// Close drains the underlying connection.
func (c *Client) Close() error {
	c.nc.Close()

	return nil
}

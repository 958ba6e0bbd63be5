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

// Package symcon is a JSON-RPC client for the IP-Symcon controller API.
package symcon

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/carverauto/symcon-mirror/pkg/logger"
	"github.com/carverauto/symcon-mirror/pkg/models"
	"github.com/carverauto/symcon-mirror/pkg/version"
)

const (
	methodGetObject          = "IPS_GetObject"
	methodGetVariable        = "IPS_GetVariable"
	methodGetVariableProfile = "IPS_GetVariableProfile"
	methodGetLink            = "IPS_GetLink"
	methodGetValue           = "GetValue"
	methodRequestAction      = "RequestAction"
	methodGetKernelVersion   = "IPS_GetKernelVersion"
	methodGetKernelDir       = "IPS_GetKernelDir"

	maxResponseBytes = 4 << 20
)

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error,omitempty"`
	ID     uint64          `json:"id"`
}

// Client talks to one controller. It is safe for concurrent use.
type Client struct {
	endpoint   string
	username   string
	password   string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *CircuitBreaker
	logger     logger.Logger
	nextID     atomic.Uint64
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoint overrides the URL derived from the config.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// NewClient builds a client from cfg. cfg is expected to be validated.
func NewClient(cfg *models.SymconConfig, log logger.Logger, opts ...Option) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		//nolint:gosec // controllers commonly run with self-signed certificates
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := &Client{
		endpoint:   cfg.Endpoint(),
		username:   cfg.Username,
		password:   cfg.Password,
		timeout:    time.Duration(cfg.Timeout),
		httpClient: &http.Client{Transport: transport},
		logger:     log,
	}

	c.breaker = NewCircuitBreaker("symcon", cfg.CircuitBreaker, log)
	c.breaker.isFailure = func(err error) bool { return errors.Is(err, ErrTransport) }

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Breaker exposes the circuit breaker for status reporting.
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

func (c *Client) call(ctx context.Context, method string, result interface{}, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}

	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	var resp rpcResponse

	err := c.breaker.Execute(ctx, func() error {
		return c.roundTrip(ctx, &req, &resp)
	})
	if err != nil {
		return err
	}

	if resp.Error != nil {
		return fmt.Errorf("%s: %w", method, resp.Error)
	}

	if result == nil {
		return nil
	}

	if len(resp.Result) == 0 {
		resp.Result = json.RawMessage("null")
	}

	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnexpectedResult, method, err)
	}

	return nil
}

func (c *Client) roundTrip(ctx context.Context, req *rpcRequest, resp *rpcResponse) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", req.Method, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())

	if c.username != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, req.Method, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status %d", ErrTransport, req.Method, httpResp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, req.Method, err)
	}

	if err := json.Unmarshal(data, resp); err != nil {
		return fmt.Errorf("%w: %s: invalid response body: %w", ErrTransport, req.Method, err)
	}

	c.logger.Trace().Str("method", req.Method).Uint64("id", req.ID).Msg("symcon call completed")

	return nil
}

// GetObject returns the object metadata for id.
func (c *Client) GetObject(ctx context.Context, id int64) (*models.ObjectDetails, error) {
	var out models.ObjectDetails
	if err := c.call(ctx, methodGetObject, &out, id); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetVariable returns the variable metadata for id, with its effective profile attached.
func (c *Client) GetVariable(ctx context.Context, id int64) (*models.VariableDetails, error) {
	var out models.VariableDetails
	if err := c.call(ctx, methodGetVariable, &out, id); err != nil {
		return nil, err
	}

	if name := out.EffectiveProfile(); name != "" {
		profile, err := c.GetVariableProfile(ctx, name)
		if err != nil {
			return nil, err
		}

		out.Profile = profile
	}

	return &out, nil
}

// GetVariableProfile returns the named variable profile.
func (c *Client) GetVariableProfile(ctx context.Context, name string) (*models.VariableProfile, error) {
	var out models.VariableProfile
	if err := c.call(ctx, methodGetVariableProfile, &out, name); err != nil {
		return nil, err
	}

	return &out, nil
}

// ResolveLink returns the target object id of link id.
func (c *Client) ResolveLink(ctx context.Context, id int64) (int64, error) {
	var out models.LinkDetails
	if err := c.call(ctx, methodGetLink, &out, id); err != nil {
		return 0, err
	}

	return out.TargetID, nil
}

// GetValue returns the current value of variable id in wire form.
func (c *Client) GetValue(ctx context.Context, id int64) (string, error) {
	var raw json.RawMessage
	if err := c.call(ctx, methodGetValue, &raw, id); err != nil {
		return "", err
	}

	return wireString(raw)
}

// RequestValueChange asks the controller to run the variable's action with value.
func (c *Client) RequestValueChange(ctx context.Context, id int64, value interface{}) error {
	return c.call(ctx, methodRequestAction, nil, id, value)
}

// KernelVersion returns the controller kernel version string, e.g. "6.4".
func (c *Client) KernelVersion(ctx context.Context) (string, error) {
	var raw json.RawMessage
	if err := c.call(ctx, methodGetKernelVersion, &raw); err != nil {
		return "", err
	}

	return wireString(raw)
}

// KernelDir returns the controller installation directory.
func (c *Client) KernelDir(ctx context.Context) (string, error) {
	var out string
	if err := c.call(ctx, methodGetKernelDir, &out); err != nil {
		return "", err
	}

	return out, nil
}

// wireString renders a scalar JSON result the way the controller prints it:
// strings unquoted, numbers and booleans verbatim, null empty.
func wireString(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnexpectedResult, err)
		}

		return s, nil
	case '{', '[':
		return "", fmt.Errorf("%w: non-scalar value", ErrUnexpectedResult)
	default:
		return string(trimmed), nil
	}
}

// Package apiclient provides a Go client for the keybridge management API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"keybridge/apitypes"
	"keybridge/keypad"
)

// Client provides a high-level interface to the keybridge API, handling
// request formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the keybridge API server.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the version and identity of the keybridge server.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

// PingCtx is the context-aware version of Ping.
func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	const path = "ping"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// Press queues a virtual press of the given key. The key may be a name
// ("MENU") or a decimal code. A Busy error (status 503) means the event
// queue is full and the call should be retried.
func (c *Client) Press(key keypad.KeyCode) (*apitypes.KeyEventResponse, error) {
	return c.PressCtx(context.Background(), key)
}

func (c *Client) PressCtx(ctx context.Context, key keypad.KeyCode) (*apitypes.KeyEventResponse, error) {
	const path = "key/press"
	raw, err := c.transport.DoCtx(ctx, path, key.String(), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.KeyEventResponse](raw)
}

// Release queues a virtual release of the given key. The release must match
// the currently predicted pressed key or the server rejects it.
func (c *Client) Release(key keypad.KeyCode) (*apitypes.KeyEventResponse, error) {
	return c.ReleaseCtx(context.Background(), key)
}

func (c *Client) ReleaseCtx(ctx context.Context, key keypad.KeyCode) (*apitypes.KeyEventResponse, error) {
	const path = "key/release"
	raw, err := c.transport.DoCtx(ctx, path, key.String(), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.KeyEventResponse](raw)
}

// Tap queues a press immediately followed by its release.
func (c *Client) Tap(key keypad.KeyCode) (*apitypes.KeyEventResponse, error) {
	return c.TapCtx(context.Background(), key)
}

func (c *Client) TapCtx(ctx context.Context, key keypad.KeyCode) (*apitypes.KeyEventResponse, error) {
	const path = "key/tap"
	raw, err := c.transport.DoCtx(ctx, path, key.String(), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.KeyEventResponse](raw)
}

// Depth reads the pending event queue depth, a backpressure signal.
func (c *Client) Depth() (*apitypes.QueueDepthResponse, error) {
	return c.DepthCtx(context.Background())
}

func (c *Client) DepthCtx(ctx context.Context) (*apitypes.QueueDepthResponse, error) {
	const path = "key/depth"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.QueueDepthResponse](raw)
}

// State reads a diagnostic snapshot of the injection subsystem.
func (c *Client) State() (*apitypes.StateResponse, error) {
	return c.StateCtx(context.Background())
}

func (c *Client) StateCtx(ctx context.Context) (*apitypes.StateResponse, error) {
	const path = "key/state"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.StateResponse](raw)
}

// parse unmarshals a raw response line into T, converting problem+json
// bodies into *apitypes.ApiError.
func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}

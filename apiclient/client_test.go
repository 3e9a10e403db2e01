package apiclient_test

import (
	"context"
	"errors"
	"testing"

	"keybridge/apiclient"
	"keybridge/apitypes"
	"keybridge/keypad"

	"github.com/stretchr/testify/assert"
)

// testClient constructs a client backed by a simple in-memory responder.
// responses maps paths to raw JSON payloads. If err is non-nil, every
// request returns that error, simulating dial failures.
func testClient(responses map[string]string, err error) *apiclient.Client {
	return apiclient.WithTransport(apiclient.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		if err != nil {
			return "", err
		}
		if out, ok := responses[path]; ok {
			return out, nil
		}
		return "", nil
	}))
}

func TestHighLevelClient(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(responses map[string]string) (err error)
		call       func(c *apiclient.Client) (any, error)
		wantErr    string
		assertFunc func(t *testing.T, got any)
	}{
		{
			name: "ping success",
			setup: func(responses map[string]string) error {
				responses["ping"] = `{"server":"keybridge","version":"0.0.1-dev"}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Ping() },
			assertFunc: func(t *testing.T, got any) {
				resp, ok := got.(*apitypes.PingResponse)
				assert.True(t, ok, "expected *apitypes.PingResponse type")
				assert.Equal(t, "keybridge", resp.Server)
			},
		},
		{
			name: "press accepted",
			setup: func(responses map[string]string) error {
				responses["key/press"] = `{"key":"MENU","status":"accepted","depth":1}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Press(keypad.KeyMenu) },
			assertFunc: func(t *testing.T, got any) {
				resp := got.(*apitypes.KeyEventResponse)
				assert.Equal(t, "MENU", resp.Key)
				assert.Equal(t, 1, resp.Depth)
			},
		},
		{
			name: "press error structured",
			setup: func(responses map[string]string) error {
				responses["key/press"] = `{"status":400,"title":"Bad Request","detail":"press PTT rejected"}`
				return nil
			},
			call:    func(c *apiclient.Client) (any, error) { return c.Press(keypad.KeyPTT) },
			wantErr: "400 Bad Request: press PTT rejected",
		},
		{
			name: "press busy",
			setup: func(responses map[string]string) error {
				responses["key/press"] = `{"status":503,"title":"Busy","detail":"queue full, press 5 not queued"}`
				return nil
			},
			call:    func(c *apiclient.Client) (any, error) { return c.Press(keypad.Key5) },
			wantErr: "503 Busy",
		},
		{
			name: "depth",
			setup: func(responses map[string]string) error {
				responses["key/depth"] = `{"depth":3}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Depth() },
			assertFunc: func(t *testing.T, got any) {
				resp := got.(*apitypes.QueueDepthResponse)
				assert.Equal(t, 3, resp.Depth)
			},
		},
		{
			name: "state",
			setup: func(responses map[string]string) error {
				responses["key/state"] = `{"injected":"MENU","effective":"PTT","depth":0}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.State() },
			assertFunc: func(t *testing.T, got any) {
				resp := got.(*apitypes.StateResponse)
				assert.Equal(t, "MENU", resp.Injected)
				assert.Equal(t, "PTT", resp.Effective)
			},
		},
		{
			name:    "transport failure",
			setup:   func(responses map[string]string) error { return errors.New("dial fail") },
			call:    func(c *apiclient.Client) (any, error) { return c.Ping() },
			wantErr: "dial fail",
		},
		{
			name:    "blank response error",
			setup:   func(responses map[string]string) error { return nil },
			call:    func(c *apiclient.Client) (any, error) { return c.Ping() },
			wantErr: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := map[string]string{}
			errInject := error(nil)
			if tt.setup != nil {
				if e := tt.setup(responses); e != nil {
					errInject = e
				}
			}
			c := testClient(responses, errInject)
			got, err := tt.call(c)
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			if tt.assertFunc != nil {
				tt.assertFunc(t, got)
			}
		})
	}
}

func TestContextCancellation(t *testing.T) {
	c := apiclient.New("127.0.0.1:9") // address irrelevant due to early cancel
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.PingCtx(ctx)
	assert.Error(t, err)
}

func TestStreamNotSupportedOnMock(t *testing.T) {
	c := testClient(nil, nil)
	_, err := c.OpenStream(context.Background())
	assert.Error(t, err)
}

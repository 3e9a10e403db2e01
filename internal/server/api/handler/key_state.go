package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"keybridge/apitypes"
	"keybridge/internal/server/api"
	"keybridge/internal/server/scan"
)

// KeyDepth returns a handler reporting the pending event queue depth,
// used by producers as a backpressure signal.
func KeyDepth(e *scan.Engine) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		out, err := json.Marshal(apitypes.QueueDepthResponse{Depth: e.Injector().QueueDepth()})
		if err != nil {
			return api.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(out)
		return nil
	}
}

// KeyState returns a handler with a diagnostic snapshot of the injection
// subsystem: the live virtual key, the last published effective key and
// the queue depth.
func KeyState(e *scan.Engine) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		out, err := json.Marshal(apitypes.StateResponse{
			Injected:  e.Injector().InjectedKey().String(),
			Effective: e.EffectiveKey().String(),
			Depth:     e.Injector().QueueDepth(),
		})
		if err != nil {
			return api.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(out)
		return nil
	}
}

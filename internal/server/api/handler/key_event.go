package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"keybridge/apitypes"
	"keybridge/internal/server/api"
	"keybridge/internal/server/scan"
	"keybridge/keypad"
)

// KeyPress returns a handler that queues a virtual key press.
// The payload is a key name ("MENU") or a decimal key code.
func KeyPress(e *scan.Engine) api.HandlerFunc {
	return keyEvent(e, keypad.ActionPress)
}

// KeyRelease returns a handler that queues a virtual key release.
func KeyRelease(e *scan.Engine) api.HandlerFunc {
	return keyEvent(e, keypad.ActionRelease)
}

func keyEvent(e *scan.Engine, action keypad.Action) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		key, ok := keypad.ParseKey(req.Payload)
		if !ok {
			return api.ErrBadRequest(fmt.Sprintf("unknown key: %q", strings.TrimSpace(req.Payload)))
		}
		return enqueue(e, key, action, res)
	}
}

// KeyTap returns a handler that queues a press immediately followed by its
// release. The admission model accepts both up front; the release then
// applies only after the minimum hold has elapsed.
func KeyTap(e *scan.Engine) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		key, ok := keypad.ParseKey(req.Payload)
		if !ok {
			return api.ErrBadRequest(fmt.Sprintf("unknown key: %q", strings.TrimSpace(req.Payload)))
		}
		switch st := e.Injector().Enqueue(key, keypad.ActionPress); st {
		case keypad.StatusAccepted:
		case keypad.StatusBusy:
			return api.ErrBusy(fmt.Sprintf("queue full, press %s not queued", key))
		default:
			return api.ErrBadRequest(fmt.Sprintf("press %s rejected", key))
		}
		if st := e.Injector().Enqueue(key, keypad.ActionRelease); st != keypad.StatusAccepted {
			// The press stays queued; the caller must submit the release once
			// space frees up or the tap stays held.
			return api.ErrBusy(fmt.Sprintf("queue full, press %s queued without release", key))
		}
		return writeEvent(res, key, keypad.StatusAccepted, e.Injector().QueueDepth())
	}
}

func enqueue(e *scan.Engine, key keypad.KeyCode, action keypad.Action, res *api.Response) error {
	switch st := e.Injector().Enqueue(key, action); st {
	case keypad.StatusAccepted:
		return writeEvent(res, key, st, e.Injector().QueueDepth())
	case keypad.StatusBusy:
		return api.ErrBusy(fmt.Sprintf("queue full, %s %s not queued", action, key))
	default:
		return api.ErrBadRequest(fmt.Sprintf("%s %s rejected", action, key))
	}
}

func writeEvent(res *api.Response, key keypad.KeyCode, st keypad.Status, depth int) error {
	out, err := json.Marshal(apitypes.KeyEventResponse{Key: key.String(), Status: st.String(), Depth: depth})
	if err != nil {
		return api.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
	}
	res.JSON = string(out)
	return nil
}

package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"keybridge/apitypes"
	"keybridge/internal/server/api"
	"keybridge/internal/version"
)

// Ping returns a handler that reports server identity and version.
func Ping() api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		out, err := json.Marshal(apitypes.PingResponse{Server: "keybridge", Version: version.Get()})
		if err != nil {
			return api.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(out)
		return nil
	}
}

package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net"

	"keybridge/internal/log"
	"keybridge/internal/server/api"
	"keybridge/internal/server/scan"
	"keybridge/keypad"
)

// KeyStream returns a stream handler for long-lived event connections.
// The client sends 2-byte frames [key, action]; the server answers each
// frame with a single ack byte carrying the Status wire value, so a
// producer can throttle on busy acks without a round trip per command
// connection.
func KeyStream(rawLogger log.RawLogger) api.StreamHandlerFunc {
	return func(conn net.Conn, eng *scan.Engine, logger *slog.Logger) error {
		buf := make([]byte, 2)
		for {
			if _, err := io.ReadFull(conn, buf); err != nil {
				if err == io.EOF {
					logger.Info("client disconnected")
					return nil
				}
				return fmt.Errorf("read event: %w", err)
			}
			rawLogger.Log(true, buf)

			st := eng.Injector().Enqueue(keypad.KeyCode(buf[0]), keypad.Action(buf[1]))

			ack := []byte{byte(st)}
			rawLogger.Log(false, ack)
			if _, err := conn.Write(ack); err != nil {
				return fmt.Errorf("write ack: %w", err)
			}
		}
	}
}

package apiclient

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"keybridge/keypad"
)

// EventStream is a persistent connection to the key event stream channel.
// Unlike the one-shot request routes, a stream stays open and carries one
// 2-byte frame per event with a 1-byte status acknowledgement each.
type EventStream struct {
	conn   net.Conn
	r      *bufio.Reader
	closed bool
}

// OpenStream connects to the server's key event stream channel. The caller
// owns the returned stream and must Close it.
func (c *Client) OpenStream(ctx context.Context) (*EventStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}

	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Write([]byte("key/stream\x00")); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}

	return &EventStream{conn: conn, r: bufio.NewReader(conn)}, nil
}

// Send writes one key event frame and waits for the server's status byte.
// A StatusBusy result means the server queue is full; the caller may retry
// after a short delay.
func (s *EventStream) Send(key keypad.KeyCode, action keypad.Action) (keypad.Status, error) {
	if s.closed {
		return 0, fmt.Errorf("stream closed")
	}
	frame := [2]byte{byte(key), byte(action)}
	if _, err := s.conn.Write(frame[:]); err != nil {
		return 0, fmt.Errorf("write event frame: %w", err)
	}
	ack, err := s.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("stream closed by server: %w", err)
		}
		return 0, fmt.Errorf("read status ack: %w", err)
	}
	return keypad.Status(ack), nil
}

// Press sends a press frame for the given key.
func (s *EventStream) Press(key keypad.KeyCode) (keypad.Status, error) {
	return s.Send(key, keypad.ActionPress)
}

// Release sends a release frame for the given key.
func (s *EventStream) Release(key keypad.KeyCode) (keypad.Status, error) {
	return s.Send(key, keypad.ActionRelease)
}

// Tap sends a press frame immediately followed by a release frame. If the
// press is refused the release is not sent.
func (s *EventStream) Tap(key keypad.KeyCode) (keypad.Status, error) {
	st, err := s.Press(key)
	if err != nil || st != keypad.StatusAccepted {
		return st, err
	}
	return s.Release(key)
}

// SetDeadline sets the read and write deadline for the underlying connection.
func (s *EventStream) SetDeadline(t time.Time) error {
	return s.conn.SetDeadline(t)
}

// Close closes the stream connection.
func (s *EventStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

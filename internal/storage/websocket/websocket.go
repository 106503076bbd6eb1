// Package websocket pushes every archived snapshot to a web frontend over a
// WebSocket connection. The payload is the same document the memory backend
// writes to disk.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/oxcstats/soldierstats/internal/storage/memory"
	"github.com/oxcstats/soldierstats/pkg/core"

	ws "github.com/gorilla/websocket"
)

// TypeSnapshot is the envelope type of an archived snapshot.
const TypeSnapshot = "snapshot"

const (
	writeWait         = 10 * time.Second
	defaultAckTimeout = 10 * time.Second
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL        string
	Secret     string // sent as the secret query parameter
	AckTimeout time.Duration
}

// Envelope wraps every message sent to the server.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AckMessage is the server's reply to an envelope. A non-empty Error means the
// server refused it.
type AckMessage struct {
	Type  string `json:"type"`
	For   string `json:"for"`
	Error string `json:"error,omitempty"`
}

// Backend sends snapshots one at a time and waits for each ack.
type Backend struct {
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	conn *ws.Conn
	sent int
}

// New creates an unconnected backend; Init dials.
func New(cfg Config, logger *slog.Logger) *Backend {
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = defaultAckTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{cfg: cfg, logger: logger}
}

// Init connects to the server.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connect(context.Background())
}

// connect dials the server. Callers hold b.mu.
func (b *Backend) connect(ctx context.Context) error {
	u, err := url.Parse(b.cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid websocket URL: %w", err)
	}
	if b.cfg.Secret != "" {
		q := u.Query()
		q.Set("secret", b.cfg.Secret)
		u.RawQuery = q.Encode()
	}

	conn, _, err := ws.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	b.conn = conn
	b.logger.Info("Connected to snapshot server", "url", b.cfg.URL)
	return nil
}

// StoreSnapshot sends the snapshot and waits for the server's ack. A dropped
// connection is redialed on the next call.
func (b *Backend) StoreSnapshot(ctx context.Context, snap *core.Snapshot) error {
	data, err := marshalEnvelope(TypeSnapshot, memory.BuildExport(snap))
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		if err := b.connect(ctx); err != nil {
			return err
		}
	}

	if err := b.exchange(ctx, data, TypeSnapshot); err != nil {
		var rejected *RejectedError
		if !errors.As(err, &rejected) {
			_ = b.conn.Close()
			b.conn = nil
		}
		b.logger.WarnContext(ctx, "Snapshot not delivered", "source", snap.Source, "error", err)
		return err
	}

	b.sent++
	b.logger.DebugContext(ctx, "Snapshot delivered", "source", snap.Source, "bytes", len(data))
	return nil
}

// RejectedError is returned when the server acks a message with an error.
type RejectedError struct {
	For    string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("server rejected %s: %s", e.For, e.Reason)
}

// exchange writes data and reads until the matching ack arrives. Other
// messages are skipped. Callers hold b.mu.
func (b *Backend) exchange(ctx context.Context, data []byte, ackFor string) error {
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := b.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := b.conn.WriteMessage(ws.TextMessage, data); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}

	if err := b.conn.SetReadDeadline(time.Now().Add(b.cfg.AckTimeout)); err != nil {
		return err
	}
	for {
		_, message, err := b.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("waiting for ack of %q: %w", ackFor, err)
		}

		var ack AckMessage
		if err := json.Unmarshal(message, &ack); err != nil || ack.Type != "ack" || ack.For != ackFor {
			b.logger.Debug("Skipping non-ack message", "raw", string(message))
			continue
		}
		if ack.Error != "" {
			return &RejectedError{For: ackFor, Reason: ack.Error}
		}
		return nil
	}
}

// Sent returns the number of acknowledged snapshots.
func (b *Backend) Sent() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sent
}

// Close sends a close frame and drops the connection.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}
	_ = b.conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := b.conn.Close()
	b.conn = nil
	return err
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

package transport

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"
	"unicode"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"meshagotchi/internal/providers"
	"meshagotchi/internal/structures"
)

// Message is one inbound text from a mesh node.
type Message struct {
	ID     string
	NodeID string
	Text   string
}

type TransportInterface interface {
	Send(nodeID, text string) error
	Poll() ([]Message, error)
	Close()
}

// runner executes one external command and returns its stdout. Injected so
// tests never spawn real processes.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// MeshCliTransport bridges to the radio through the meshcore command line
// client. One subprocess per operation keeps the serial session state in
// the client and this process stateless across restarts.
type MeshCliTransport struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	run     runner
	running *atomic.Bool

	mu       sync.Mutex
	lastSend time.Time
}

func NewMeshCliTransport(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) TransportInterface {
	return &MeshCliTransport{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
		run:     execRunner,
		running: atomic.NewBool(true),
	}
}

func (t *MeshCliTransport) baseArgs() []string {
	if t.conf.Transport.SerialPort != "" {
		return []string{"-S", t.conf.Transport.SerialPort, "-j"}
	}
	return []string{"-j"}
}

// Send transmits one frame, pacing consecutive sends so the radio duty
// cycle is respected. The frame is sanitized and hard-capped at the
// configured budget; callers are expected to chunk before calling.
func (t *MeshCliTransport) Send(nodeID, text string) error {
	if !t.running.Load() {
		return nil
	}

	t.mu.Lock()
	if wait := t.conf.Transport.MinSendInterval - time.Since(t.lastSend); wait > 0 {
		time.Sleep(wait)
	}
	t.lastSend = time.Now()
	t.mu.Unlock()

	frame := sanitize(text)
	if max := t.conf.Transport.MaxFrameLen; len(frame) > max {
		frame = frame[:max]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := append(t.baseArgs(), "msg", nodeID, frame)
	if _, err := t.run(ctx, t.conf.Transport.MeshCliPath, args...); err != nil {
		t.logger.Errorf(providers.TypeMesh, "Send to %s failed: %s", nodeID, err)
		return err
	}
	t.metrics.IncFramesSent()
	t.logger.Debugf(providers.TypeMesh, "Sent %d bytes to %s", len(frame), nodeID)
	return nil
}

type inboundPayload struct {
	Type         string `json:"type"`
	PubkeyPrefix string `json:"pubkey_prefix"`
	Text         string `json:"text"`
}

// Poll drains messages queued on the radio since the last call.
func (t *MeshCliTransport) Poll() ([]Message, error) {
	if !t.running.Load() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := append(t.baseArgs(), "sync_msgs")
	out, err := t.run(ctx, t.conf.Transport.MeshCliPath, args...)
	if err != nil {
		return nil, err
	}

	out = []byte(strings.TrimSpace(string(out)))
	if len(out) == 0 {
		return nil, nil
	}

	var payloads []inboundPayload
	if err := json.Unmarshal(out, &payloads); err != nil {
		t.logger.Warnf(providers.TypeMesh, "Malformed poll payload: %s", err)
		return nil, nil
	}

	var messages []Message
	for _, p := range payloads {
		if p.Type != "" && p.Type != "PRIV" {
			continue
		}
		if p.PubkeyPrefix == "" || strings.TrimSpace(p.Text) == "" {
			continue
		}
		messages = append(messages, Message{
			ID:     uuid.NewString(),
			NodeID: p.PubkeyPrefix,
			Text:   p.Text,
		})
	}
	return messages, nil
}

func (t *MeshCliTransport) Close() {
	t.running.Store(false)
}

// sanitize drops control characters that confuse downstream radios,
// keeping newlines intact.
func sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

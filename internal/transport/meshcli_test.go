package transport

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"meshagotchi/internal/providers"
	"meshagotchi/internal/structures"
)

// Local stubs: testutil depends on this package, so its mocks cannot be
// used here.
type stubLogger struct{}

func (stubLogger) Errorf(providers.TypeEnum, string, ...interface{}) {}
func (stubLogger) Warnf(providers.TypeEnum, string, ...interface{})  {}
func (stubLogger) Debugf(providers.TypeEnum, string, ...interface{}) {}
func (stubLogger) Infof(providers.TypeEnum, string, ...interface{})  {}
func (stubLogger) Fatalf(providers.TypeEnum, string, ...interface{}) {}
func (stubLogger) Close()                                            {}

type stubMetrics struct {
	mu     sync.Mutex
	frames int
}

func (s *stubMetrics) IncRequestsTotal(string, int)                 {}
func (s *stubMetrics) ObserveRequestDuration(string, time.Duration) {}
func (s *stubMetrics) IncCommandsTotal(string)                      {}
func (s *stubMetrics) IncNotificationsTotal(string)                 {}
func (s *stubMetrics) IncFramesSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
}
func (s *stubMetrics) SetPetsAlive(int)                         {}
func (s *stubMetrics) ObserveAIRequestDuration(time.Duration)   {}
func (s *stubMetrics) ObservePersistenceDuration(time.Duration) {}
func (s *stubMetrics) IncCacheHits()                            {}
func (s *stubMetrics) IncCacheMisses()                          {}

type call struct {
	name string
	args []string
}

func transportConfig() *structures.Config {
	return &structures.Config{
		Transport: structures.TransportConfig{
			MaxFrameLen: 150,
			MeshCliPath: "meshcore-cli",
			SerialPort:  "/dev/ttyUSB0",
		},
	}
}

func newTestTransport(conf *structures.Config, metrics *stubMetrics, run runner) (*MeshCliTransport, *[]call) {
	calls := &[]call{}
	var mu sync.Mutex
	tr := &MeshCliTransport{
		conf:    conf,
		logger:  stubLogger{},
		metrics: metrics,
		running: atomic.NewBool(true),
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			mu.Lock()
			*calls = append(*calls, call{name: name, args: args})
			mu.Unlock()
			return run(ctx, name, args...)
		},
	}
	return tr, calls
}

func TestSend_InvokesCliWithFrame(t *testing.T) {
	metrics := &stubMetrics{}
	tr, calls := newTestTransport(transportConfig(), metrics, func(context.Context, string, ...string) ([]byte, error) {
		return nil, nil
	})

	require.NoError(t, tr.Send("!node1", "hello pet"))
	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, "meshcore-cli", got.name)
	assert.Equal(t, []string{"-S", "/dev/ttyUSB0", "-j", "msg", "!node1", "hello pet"}, got.args)
	assert.Equal(t, 1, metrics.frames)
}

func TestSend_StripsControlCharacters(t *testing.T) {
	tr, calls := newTestTransport(transportConfig(), &stubMetrics{}, func(context.Context, string, ...string) ([]byte, error) {
		return nil, nil
	})

	require.NoError(t, tr.Send("!node1", "line one\nline\rtwo\x07"))
	frame := (*calls)[0].args[len((*calls)[0].args)-1]
	assert.Equal(t, "line one\nlinetwo", frame)
}

func TestSend_HardCapsFrameLength(t *testing.T) {
	conf := transportConfig()
	conf.Transport.MaxFrameLen = 20
	tr, calls := newTestTransport(conf, &stubMetrics{}, func(context.Context, string, ...string) ([]byte, error) {
		return nil, nil
	})

	require.NoError(t, tr.Send("!node1", strings.Repeat("x", 100)))
	frame := (*calls)[0].args[len((*calls)[0].args)-1]
	assert.Len(t, frame, 20)
}

func TestSend_PropagatesCliError(t *testing.T) {
	metrics := &stubMetrics{}
	tr, _ := newTestTransport(transportConfig(), metrics, func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("serial port busy")
	})

	assert.Error(t, tr.Send("!node1", "hi"))
	assert.Equal(t, 0, metrics.frames)
}

func TestSend_RateLimited(t *testing.T) {
	conf := transportConfig()
	conf.Transport.MinSendInterval = 30 * time.Millisecond
	tr, _ := newTestTransport(conf, &stubMetrics{}, func(context.Context, string, ...string) ([]byte, error) {
		return nil, nil
	})

	start := time.Now()
	require.NoError(t, tr.Send("!node1", "one"))
	require.NoError(t, tr.Send("!node1", "two"))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSend_NoopAfterClose(t *testing.T) {
	tr, calls := newTestTransport(transportConfig(), &stubMetrics{}, func(context.Context, string, ...string) ([]byte, error) {
		return nil, nil
	})

	tr.Close()
	require.NoError(t, tr.Send("!node1", "hi"))
	assert.Empty(t, *calls)
}

func TestPoll_ParsesInbound(t *testing.T) {
	payload := `[
		{"type":"PRIV","pubkey_prefix":"abcd1234","text":"/pet"},
		{"type":"CHAN","pubkey_prefix":"ffff0000","text":"ignored"},
		{"type":"PRIV","pubkey_prefix":"","text":"no sender"},
		{"type":"PRIV","pubkey_prefix":"eeee1111","text":"   "}
	]`
	tr, calls := newTestTransport(transportConfig(), &stubMetrics{}, func(context.Context, string, ...string) ([]byte, error) {
		return []byte(payload), nil
	})

	messages, err := tr.Poll()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "abcd1234", messages[0].NodeID)
	assert.Equal(t, "/pet", messages[0].Text)
	assert.NotEmpty(t, messages[0].ID)

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"-S", "/dev/ttyUSB0", "-j", "sync_msgs"}, (*calls)[0].args)
}

func TestPoll_EmptyOutput(t *testing.T) {
	tr, _ := newTestTransport(transportConfig(), &stubMetrics{}, func(context.Context, string, ...string) ([]byte, error) {
		return []byte("  \n"), nil
	})

	messages, err := tr.Poll()
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestPoll_MalformedPayloadDropped(t *testing.T) {
	tr, _ := newTestTransport(transportConfig(), &stubMetrics{}, func(context.Context, string, ...string) ([]byte, error) {
		return []byte("garbage not json"), nil
	})

	messages, err := tr.Poll()
	assert.NoError(t, err)
	assert.Empty(t, messages)
}

func TestPoll_CliError(t *testing.T) {
	tr, _ := newTestTransport(transportConfig(), &stubMetrics{}, func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("device disconnected")
	})

	_, err := tr.Poll()
	assert.Error(t, err)
}

func TestSanitize_KeepsNewlines(t *testing.T) {
	assert.Equal(t, "a\nb", sanitize("a\nb"))
	assert.Equal(t, "ab", sanitize("a\tb"))
}

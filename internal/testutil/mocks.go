package testutil

import (
	"context"
	"sync"
	"time"

	"meshagotchi/internal/providers"
	"meshagotchi/internal/transport"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockTransport implements transport.TransportInterface and records every
// outbound frame.
type MockTransport struct {
	mu     sync.Mutex
	Sent   []SentFrame
	SendFn func(nodeID, text string) error
	PollFn func() ([]transport.Message, error)
	Closed bool
}

type SentFrame struct {
	NodeID string
	Text   string
}

func (m *MockTransport) Send(nodeID, text string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentFrame{NodeID: nodeID, Text: text})
	m.mu.Unlock()
	if m.SendFn != nil {
		return m.SendFn(nodeID, text)
	}
	return nil
}

func (m *MockTransport) Poll() ([]transport.Message, error) {
	if m.PollFn != nil {
		return m.PollFn()
	}
	return nil, nil
}

func (m *MockTransport) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

// MockTextGen implements ai.ClientInterface.
type MockTextGen struct {
	EnabledVal bool
	GenerateFn func(ctx context.Context, prompt string) (string, error)
	Prompts    []string
}

func (m *MockTextGen) Enabled() bool {
	return m.EnabledVal
}

func (m *MockTextGen) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	return "", nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu            sync.Mutex
	Requests      int
	Commands      map[string]int
	Notifications map[string]int
	FramesSent    int
	PetsAlive     int
	AIRequests    int
	Persists      int
	CacheHits     int
	CacheMisses   int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Commands:      make(map[string]int),
		Notifications: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {}

func (m *MockMetrics) IncCommandsTotal(command string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands[command]++
}

func (m *MockMetrics) IncNotificationsTotal(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications[kind]++
}

func (m *MockMetrics) IncFramesSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FramesSent++
}

func (m *MockMetrics) SetPetsAlive(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PetsAlive = count
}

func (m *MockMetrics) ObserveAIRequestDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AIRequests++
}

func (m *MockMetrics) ObservePersistenceDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

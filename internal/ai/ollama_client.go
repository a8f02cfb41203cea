package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"meshagotchi/internal/providers"
	"meshagotchi/internal/structures"
)

// ErrBackendUnavailable covers every failure mode of the remote text
// generation backend: connection errors, timeouts and malformed payloads.
// Callers convert it into a single bounded user-facing frame.
var ErrBackendUnavailable = errors.New("text generation backend unavailable")

type ClientInterface interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

const systemPrompt = "You are a tiny virtual pet living on a LoRa mesh node. " +
	"Answer in at most two short sentences."

type OllamaClient struct {
	conf    *structures.Config
	client  *http.Client
	url     string
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewOllamaClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	timeout := conf.Ollama.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OllamaClient{
		conf:    conf,
		client:  &http.Client{Timeout: timeout},
		url:     fmt.Sprintf("http://%s:%d/api/chat", conf.Ollama.Host, conf.Ollama.Port),
		logger:  logger,
		metrics: metrics,
	}
}

func (c *OllamaClient) Enabled() bool {
	return c.conf.Ollama.Enabled
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrBackendUnavailable
	}

	body, err := json.Marshal(chatRequest{
		Model: c.conf.Ollama.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", ErrBackendUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", ErrBackendUnavailable
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.ObserveAIRequestDuration(time.Since(start))
	if err != nil {
		c.logger.Warnf(providers.TypeAI, "Generation request failed: %s", err)
		return "", ErrBackendUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnf(providers.TypeAI, "Generation request returned status %d", resp.StatusCode)
		return "", ErrBackendUnavailable
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warnf(providers.TypeAI, "Malformed generation payload: %s", err)
		return "", ErrBackendUnavailable
	}

	text := strings.TrimSpace(parsed.Message.Content)
	if text == "" {
		return "", ErrBackendUnavailable
	}
	return text, nil
}

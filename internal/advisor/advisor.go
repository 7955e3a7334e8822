// Package advisor connects bots to an external language model for
// action advice. The client speaks the Ollama chat API; any endpoint
// implementing POST /api/chat with the same shape works.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Advisor produces a free-form completion for a prompt. Implementations
// must honor the context; callers treat any error as "no advice".
type Advisor interface {
	Advise(ctx context.Context, system, prompt string) (string, error)
}

// Config holds connection settings for the Ollama client
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// withDefaults fills unset fields with the standard local endpoint
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "llama3.1:8b"
	}
	if c.Timeout <= 0 {
		c.Timeout = 8 * time.Second
	}
	return c
}

// Ollama is an Advisor backed by an Ollama chat endpoint
type Ollama struct {
	cfg    Config
	client *http.Client
	logger *log.Logger
}

// NewOllama creates a client for the given endpoint
func NewOllama(cfg Config, logger *log.Logger) *Ollama {
	cfg = cfg.withDefaults()
	return &Ollama{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.WithPrefix("advisor"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Advise sends a single-turn chat request and returns the raw
// completion text
func (o *Ollama) Advise(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:    o.cfg.Model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}

	o.logger.Debug("advice received",
		"model", o.cfg.Model,
		"elapsed", time.Since(start),
		"chars", len(parsed.Message.Content))

	return parsed.Message.Content, nil
}

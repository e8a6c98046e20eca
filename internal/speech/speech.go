// Package speech synthesizes reply audio through the external text-to-speech
// service and stores the result as a publicly reachable mp3.
package speech

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aumigobot/aumigobot/internal/storage"
)

// Synthesizer converts text into a stored audio object and returns its URL.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Client calls the TTS service and persists the audio via the storage provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	voiceID    string
	provider   storage.Provider
	logger     *slog.Logger
}

// NewClient creates a speech client.
func NewClient(log *slog.Logger, baseURL, apiKey, voiceID string, timeout time.Duration, provider storage.Provider) *Client {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     apiKey,
		voiceID:    voiceID,
		provider:   provider,
		logger:     log.With(slog.String("client", "speech")),
	}
}

type synthesizeRequest struct {
	Text         string `json:"text"`
	VoiceID      string `json:"voice_id"`
	OutputFormat string `json:"output_format"`
}

// Synthesize converts text to speech, stores the mp3 under a content-derived
// name, and returns the public URL. The same text always maps to the same
// object, so repeated narrations reuse the stored file.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("speech base url not configured")
	}
	if c.provider == nil {
		return "", fmt.Errorf("storage provider not configured")
	}

	payload, err := json.Marshal(synthesizeRequest{
		Text:         text,
		VoiceID:      c.voiceID,
		OutputFormat: "mp3",
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/synthesize", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call tts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("tts returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	sum := md5.Sum([]byte(text))
	key := "audio/" + hex.EncodeToString(sum[:]) + ".mp3"
	if err := c.provider.Put(ctx, key, resp.Body); err != nil {
		return "", fmt.Errorf("store audio: %w", err)
	}

	url := c.provider.AccessURL(key)
	c.logger.Debug("speech synthesized", slog.String("key", key))
	return url, nil
}

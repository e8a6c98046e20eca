// Package vision calls the external pet label-detection service.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Pet is one detected animal with its breed guesses.
type Pet struct {
	Type       string   `json:"type"`
	Confidence float64  `json:"confidence"`
	Breeds     []string `json:"breeds"`
}

// Detection is the detector's structured result. A "no match" is reported
// with Success=false and an explanatory Message, never as an error.
type Detection struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Pets    []Pet  `json:"pets,omitempty"`
}

// Detector detects pets in a stored image.
type Detector interface {
	DetectPet(ctx context.Context, objectKey string) (Detection, error)
}

// Client is the HTTP detector client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates a detector client with a bounded per-call timeout.
func NewClient(log *slog.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
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
		logger:     log.With(slog.String("client", "vision")),
	}
}

type detectRequest struct {
	ObjectKey string `json:"object_key"`
}

// DetectPet submits the stored image reference for label detection.
func (c *Client) DetectPet(ctx context.Context, objectKey string) (Detection, error) {
	if c.baseURL == "" {
		return Detection{}, fmt.Errorf("vision base url not configured")
	}
	payload, err := json.Marshal(detectRequest{ObjectKey: objectKey})
	if err != nil {
		return Detection{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/detect-pet", bytes.NewReader(payload))
	if err != nil {
		return Detection{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Detection{}, fmt.Errorf("call detector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Detection{}, fmt.Errorf("detector returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var detection Detection
	if err := json.NewDecoder(resp.Body).Decode(&detection); err != nil {
		return Detection{}, fmt.Errorf("decode detection: %w", err)
	}
	c.logger.Debug("pet detection completed",
		slog.String("object_key", objectKey),
		slog.Bool("success", detection.Success),
		slog.Int("pets", len(detection.Pets)),
	)
	return detection, nil
}

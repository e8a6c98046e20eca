package dialogue

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

// Client is the HTTP adapter for the managed dialogue engine's
// recognize-text endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botID      string
	botAliasID string
	localeID   string
	logger     *slog.Logger
}

// NewClient creates an engine client with a bounded per-call timeout.
func NewClient(log *slog.Logger, baseURL, botID, botAliasID, localeID string, timeout time.Duration) *Client {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		botID:      botID,
		botAliasID: botAliasID,
		localeID:   localeID,
		logger:     log.With(slog.String("client", "dialogue")),
	}
}

type sessionState struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
}

type recognizeTextRequest struct {
	BotID        string       `json:"botId"`
	BotAliasID   string       `json:"botAliasId"`
	LocaleID     string       `json:"localeId"`
	SessionID    string       `json:"sessionId"`
	Text         string       `json:"text"`
	SessionState sessionState `json:"sessionState"`
}

type recognizeTextResponse struct {
	SessionState sessionState `json:"sessionState"`
	Messages     []ReplyPart  `json:"messages"`
}

// Exchange drives one turn through the engine. Any transport, status, or
// decode failure surfaces as *EngineError.
func (c *Client) Exchange(ctx context.Context, userID, utterance string, attrs map[string]string) (Exchange, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	payload, err := json.Marshal(recognizeTextRequest{
		BotID:        c.botID,
		BotAliasID:   c.botAliasID,
		LocaleID:     c.localeID,
		SessionID:    userID,
		Text:         utterance,
		SessionState: sessionState{SessionAttributes: attrs},
	})
	if err != nil {
		return Exchange{}, &EngineError{Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recognize-text", bytes.NewReader(payload))
	if err != nil {
		return Exchange{}, &EngineError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Exchange{}, &EngineError{Op: "recognize text", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Exchange{}, &EngineError{
			Op:  "recognize text",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var decoded recognizeTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Exchange{}, &EngineError{Op: "decode response", Err: err}
	}

	updated := decoded.SessionState.SessionAttributes
	if updated == nil {
		updated = map[string]string{}
	}
	c.logger.Debug("dialogue exchange completed",
		slog.String("session_id", userID),
		slog.Int("parts", len(decoded.Messages)),
	)
	return Exchange{Parts: decoded.Messages, Attributes: updated}, nil
}

// Package webhook orchestrates one conversational turn: normalize inbound
// media, load session state, drive the dialogue engine, persist the updated
// state, and render the reply envelope.
package webhook

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aumigobot/aumigobot/internal/dialogue"
	"github.com/aumigobot/aumigobot/internal/media"
	"github.com/aumigobot/aumigobot/internal/reply"
)

const channelPrefix = "whatsapp:+"

// Inbound is the decoded webhook payload for one turn.
type Inbound struct {
	Body             string
	From             string
	MediaContentType string
	MediaURL         string
}

// UserID derives the stable session identity from the channel address.
func (in Inbound) UserID() string {
	return strings.TrimPrefix(in.From, channelPrefix)
}

// Normalizer converts an attachment plus raw text into one utterance.
type Normalizer interface {
	Normalize(ctx context.Context, mediaType, mediaURL, userText string) (string, error)
}

// SessionStore carries conversation continuity across turns.
type SessionStore interface {
	Load(ctx context.Context, userID string) map[string]string
	Save(ctx context.Context, userID string, attrs map[string]string)
}

// Processor composes the turn pipeline. Each call is independent; continuity
// lives entirely in the session store.
type Processor struct {
	normalizer Normalizer
	sessions   SessionStore
	engine     dialogue.Engine
	logger     *slog.Logger
}

// NewProcessor creates a turn processor.
func NewProcessor(log *slog.Logger, normalizer Normalizer, sessions SessionStore, engine dialogue.Engine) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		normalizer: normalizer,
		sessions:   sessions,
		engine:     engine,
		logger:     log.With(slog.String("service", "webhook")),
	}
}

// Process runs one turn and returns the rendered reply envelope.
//
// Failure policy: media failures degrade to the raw text body; session reads
// and writes never fail the turn; an engine failure aborts with the error for
// the transport layer to surface. The session is written only after a
// successful exchange.
func (p *Processor) Process(ctx context.Context, in Inbound) (reply.Envelope, error) {
	userID := in.UserID()
	log := p.logger.With(slog.String("user_id", userID))

	utterance, err := p.normalizer.Normalize(ctx, in.MediaContentType, in.MediaURL, in.Body)
	if err != nil {
		var procErr *media.ProcessingError
		if !errors.As(err, &procErr) {
			return reply.Envelope{}, err
		}
		log.Warn("media processing failed, degrading to text body", slog.Any("error", err))
		utterance = in.Body
	}

	attrs := p.sessions.Load(ctx, userID)

	exchange, err := p.engine.Exchange(ctx, userID, utterance, attrs)
	if err != nil {
		log.Error("dialogue exchange failed", slog.Any("error", err))
		return reply.Envelope{}, err
	}

	p.sessions.Save(ctx, userID, exchange.Attributes)

	log.Info("turn completed",
		slog.Int("reply_parts", len(exchange.Parts)),
		slog.Bool("had_media", in.MediaContentType != ""),
	)
	return reply.Render(exchange.Parts), nil
}

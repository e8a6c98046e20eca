// Package dialogue adapts the managed dialogue engine. The engine is a black
// box that accepts one utterance plus session attributes and returns a
// structured multi-part reply with updated attributes; this package only
// marshals between that wire contract and the neutral types the pipeline uses.
package dialogue

import "context"

// Reply part content types produced by the engine.
const (
	ContentTypePlainText     = "PlainText"
	ContentTypeCustomPayload = "CustomPayload"
)

// ReplyPart is one unit of the engine's structured reply. CustomPayload
// content is a JSON-encoded object that may carry image/audio/text keys;
// PlainText content is prose. The producer does not distinguish the two
// structurally, so consumers disambiguate at render time.
type ReplyPart struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Exchange is the outcome of one engine turn.
type Exchange struct {
	Parts      []ReplyPart
	Attributes map[string]string
}

// Engine drives one conversational exchange.
type Engine interface {
	Exchange(ctx context.Context, userID, utterance string, attrs map[string]string) (Exchange, error)
}

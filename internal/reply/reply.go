// Package reply renders the dialogue engine's multi-part structured reply
// into the messaging channel's XML envelope.
package reply

import (
	"encoding/json"
	"encoding/xml"

	"github.com/aumigobot/aumigobot/internal/dialogue"
)

// ChannelMessage is one outbound message: optional body text plus zero or
// more media attachment URLs.
type ChannelMessage struct {
	Body     string
	MediaURL string
}

// Envelope is the ordered set of outbound messages for one turn.
type Envelope struct {
	Messages []ChannelMessage
}

// Render maps reply parts to channel messages in order. Each part's content
// is first interpreted as a JSON object carrying "image", "audio" or "text"
// keys; content that does not decode is demoted to plain body text, never
// dropped. Rendering cannot fail.
func Render(parts []dialogue.ReplyPart) Envelope {
	var env Envelope
	for _, part := range parts {
		var payload map[string]any
		if err := json.Unmarshal([]byte(part.Content), &payload); err != nil {
			env.Messages = append(env.Messages, ChannelMessage{Body: part.Content})
			continue
		}
		if image, ok := payload["image"].(string); ok {
			env.Messages = append(env.Messages, ChannelMessage{MediaURL: image})
		}
		if audio, ok := payload["audio"].(string); ok {
			env.Messages = append(env.Messages, ChannelMessage{MediaURL: audio})
		}
		if text, ok := payload["text"].(string); ok {
			env.Messages = append(env.Messages, ChannelMessage{Body: text})
		}
	}
	return env
}

type xmlMessage struct {
	XMLName xml.Name `xml:"Message"`
	Body    string   `xml:"Body,omitempty"`
	Media   string   `xml:"Media,omitempty"`
}

type xmlResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []xmlMessage
}

// TwiML serializes the envelope as the channel's markup response. Output is
// deterministic: the same envelope always yields identical bytes.
func (e Envelope) TwiML() ([]byte, error) {
	doc := xmlResponse{}
	for _, msg := range e.Messages {
		doc.Messages = append(doc.Messages, xmlMessage{Body: msg.Body, Media: msg.MediaURL})
	}
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

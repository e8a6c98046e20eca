package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aumigobot/aumigobot/internal/dialogue"
	"github.com/aumigobot/aumigobot/internal/media"
)

type fakeNormalizer struct {
	utterance string
	err       error
	gotText   string
	gotType   string
}

func (f *fakeNormalizer) Normalize(_ context.Context, mediaType, _, userText string) (string, error) {
	f.gotType = mediaType
	f.gotText = userText
	if f.err != nil {
		return "", f.err
	}
	if f.utterance != "" {
		return f.utterance, nil
	}
	return userText, nil
}

type fakeSessions struct {
	stored     map[string]string
	loadedFor  string
	savedFor   string
	savedAttrs map[string]string
	saves      int
}

func (f *fakeSessions) Load(_ context.Context, userID string) map[string]string {
	f.loadedFor = userID
	if f.stored == nil {
		return map[string]string{}
	}
	return f.stored
}

func (f *fakeSessions) Save(_ context.Context, userID string, attrs map[string]string) {
	f.saves++
	f.savedFor = userID
	f.savedAttrs = attrs
}

type fakeEngine struct {
	exchange     dialogue.Exchange
	err          error
	gotUserID    string
	gotUtterance string
	gotAttrs     map[string]string
}

func (f *fakeEngine) Exchange(_ context.Context, userID, utterance string, attrs map[string]string) (dialogue.Exchange, error) {
	f.gotUserID = userID
	f.gotUtterance = utterance
	f.gotAttrs = attrs
	if f.err != nil {
		return dialogue.Exchange{}, f.err
	}
	return f.exchange, nil
}

func TestProcessTextTurnEndToEnd(t *testing.T) {
	t.Parallel()

	normalizer := &fakeNormalizer{}
	sessions := &fakeSessions{stored: map[string]string{"nome": "Ana"}}
	engine := &fakeEngine{exchange: dialogue.Exchange{
		Parts:      []dialogue.ReplyPart{{ContentType: dialogue.ContentTypePlainText, Content: "Olá Ana"}},
		Attributes: map[string]string{"nome": "Ana", "userId": "u-1"},
	}}
	p := NewProcessor(nil, normalizer, sessions, engine)

	env, err := p.Process(context.Background(), Inbound{
		Body: "Oi",
		From: "whatsapp:+5511999999999",
	})
	require.NoError(t, err)

	assert.Equal(t, "5511999999999", sessions.loadedFor)
	assert.Equal(t, "5511999999999", engine.gotUserID)
	assert.Equal(t, "Oi", engine.gotUtterance)
	assert.Equal(t, map[string]string{"nome": "Ana"}, engine.gotAttrs)

	assert.Equal(t, "5511999999999", sessions.savedFor)
	assert.Equal(t, "u-1", sessions.savedAttrs["userId"])

	require.Len(t, env.Messages, 1)
	assert.Equal(t, "Olá Ana", env.Messages[0].Body)
}

func TestProcessMediaFailureDegradesToBody(t *testing.T) {
	t.Parallel()

	normalizer := &fakeNormalizer{err: &media.ProcessingError{Op: "relay image", Err: errors.New("timeout")}}
	sessions := &fakeSessions{}
	engine := &fakeEngine{exchange: dialogue.Exchange{Attributes: map[string]string{}}}
	p := NewProcessor(nil, normalizer, sessions, engine)

	_, err := p.Process(context.Background(), Inbound{
		Body:             "olha essa foto",
		From:             "whatsapp:+5511999999999",
		MediaContentType: "image/jpeg",
		MediaURL:         "https://m/x.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "olha essa foto", engine.gotUtterance)
}

func TestProcessEngineFailureAbortsWithoutSessionWrite(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	engine := &fakeEngine{err: &dialogue.EngineError{Op: "recognize text", Err: errors.New("timeout")}}
	p := NewProcessor(nil, &fakeNormalizer{}, sessions, engine)

	_, err := p.Process(context.Background(), Inbound{Body: "Oi", From: "whatsapp:+551199"})
	require.Error(t, err)
	var engineErr *dialogue.EngineError
	assert.True(t, errors.As(err, &engineErr))
	assert.Zero(t, sessions.saves, "session must not be written after a failed exchange")
}

func TestUserIDDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from string
		want string
	}{
		{"whatsapp:+5511999999999", "5511999999999"},
		{"5511999999999", "5511999999999"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Inbound{From: tt.from}.UserID())
	}
}

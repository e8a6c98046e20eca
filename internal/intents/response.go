package intents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aumigobot/aumigobot/internal/dialogue"
	"github.com/aumigobot/aumigobot/internal/speech"
)

const menuTemplate = "O que você deseja fazer agora %s? \n \n" +
	"1. Adotar um Animal \n" +
	"2. Realizar doação para ONG \n" +
	"3. Identificar Raça de Cachorro (Não precisa selecionar a opção, basta enviar a foto do mesmo!) \n" +
	"4. Sair"

// Responder builds engine responses, attaching synthesized narration where
// the conversation calls for it.
type Responder struct {
	tts    speech.Synthesizer
	logger *slog.Logger
}

func NewResponder(log *slog.Logger, tts speech.Synthesizer) *Responder {
	if log == nil {
		log = slog.Default()
	}
	return &Responder{
		tts:    tts,
		logger: log.With(slog.String("service", "intents")),
	}
}

// audioPart synthesizes message and wraps the URL as an attachment carrier.
// Synthesis failure just drops the audio; the text reply stands on its own.
func (r *Responder) audioPart(ctx context.Context, message string) (dialogue.ReplyPart, bool) {
	if r.tts == nil {
		return dialogue.ReplyPart{}, false
	}
	url, err := r.tts.Synthesize(ctx, message)
	if err != nil {
		r.logger.Warn("speech synthesis failed, replying without audio", slog.Any("error", err))
		return dialogue.ReplyPart{}, false
	}
	payload, err := json.Marshal(map[string]string{"audio": url})
	if err != nil {
		return dialogue.ReplyPart{}, false
	}
	return dialogue.ReplyPart{ContentType: dialogue.ContentTypeCustomPayload, Content: string(payload)}, true
}

// CloseDialog ends the intent as fulfilled with a final message and, when
// possible, its narrated audio.
func (r *Responder) CloseDialog(ctx context.Context, attrs map[string]string, intentName, message string, slots Slots) Response {
	messages := []dialogue.ReplyPart{
		{ContentType: dialogue.ContentTypePlainText, Content: message},
	}
	if audio, ok := r.audioPart(ctx, message); ok {
		messages = append(messages, audio)
	}
	return Response{
		SessionState: SessionState{
			SessionAttributes: attrs,
			DialogAction:      &DialogAction{Type: actionClose},
			Intent:            Intent{Name: intentName, State: stateFulfilled, Slots: slots},
		},
		Messages: messages,
	}
}

// ElicitSlotWithList asks the user for a slot, offering the options as a
// newline-joined custom payload.
func (r *Responder) ElicitSlotWithList(attrs map[string]string, intentName, slotToElicit, message string, options []string) Response {
	return Response{
		SessionState: SessionState{
			SessionAttributes: attrs,
			DialogAction:      &DialogAction{Type: actionElicitSlot, SlotToElicit: slotToElicit},
			Intent:            Intent{Name: intentName, Slots: Slots{}},
		},
		Messages: []dialogue.ReplyPart{
			{ContentType: dialogue.ContentTypePlainText, Content: message},
			{ContentType: dialogue.ContentTypeCustomPayload, Content: strings.Join(options, "\n")},
		},
	}
}

// Finish closes the intent with a message and, when showMenu is set and the
// user's name is known, appends the main menu.
func (r *Responder) Finish(attrs map[string]string, intentName, message, state string, showMenu bool) Response {
	messages := []dialogue.ReplyPart{
		{ContentType: dialogue.ContentTypePlainText, Content: message},
	}
	if showMenu && attrs["nome"] != "" {
		messages = append(messages, dialogue.ReplyPart{
			ContentType: dialogue.ContentTypeCustomPayload,
			Content:     fmt.Sprintf(menuTemplate, attrs["nome"]),
		})
	}
	return Response{
		SessionState: SessionState{
			SessionAttributes: attrs,
			DialogAction:      &DialogAction{Type: actionClose},
			Intent:            Intent{Name: intentName, State: state},
		},
		Messages: messages,
	}
}

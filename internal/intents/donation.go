package intents

import (
	"context"
	"encoding/json"

	"github.com/aumigobot/aumigobot/internal/dialogue"
)

const donationMessage = "Você pode realizar sua doação para a ONG através do QRCODE de PIX acima! <3 \n" +
	"Agradecemos sua iniciativa para a doação, qualquer valor será bem-vindo! \n\n"

// donation replies with the PIX QR code image, a thank-you message, and its
// narration. The QR code image precedes the text so the "acima" reference
// holds in the rendered conversation.
func (d *Dispatcher) donation(ctx context.Context, event Event) Response {
	intentName := event.SessionState.Intent.Name
	attrs := event.Attributes()

	imagePayload, _ := json.Marshal(map[string]string{"image": d.qrCodeURL})
	messages := []dialogue.ReplyPart{
		{ContentType: dialogue.ContentTypeCustomPayload, Content: string(imagePayload)},
	}
	if audio, ok := d.responder.audioPart(ctx, donationMessage); ok {
		messages = append(messages, audio)
	}
	messages = append(messages, dialogue.ReplyPart{
		ContentType: dialogue.ContentTypePlainText,
		Content:     donationMessage,
	})

	return Response{
		SessionState: SessionState{
			SessionAttributes: attrs,
			DialogAction:      &DialogAction{Type: actionClose},
			Intent:            Intent{Name: intentName, State: stateFulfilled},
		},
		Messages: messages,
	}
}

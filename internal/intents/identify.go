package intents

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aumigobot/aumigobot/internal/dialogue"
)

// identifyDog narrates the breed-detection result carried in the slots the
// engine filled from the detection utterance.
func (d *Dispatcher) identifyDog(ctx context.Context, event Event) Response {
	intentName := event.SessionState.Intent.Name
	slots := event.SessionState.Intent.Slots
	attrs := event.Attributes()

	petType := slots.Get("typePet")
	breed := slots.Get("racapet")
	chance := slots.Get("chancePet")

	chanceText := "Não disponível"
	if v, err := strconv.ParseFloat(chance, 64); err == nil {
		chanceText = fmt.Sprintf("%.2f%%", v)
	}

	message := fmt.Sprintf("As chances do %s ser um %s é de %s.", petType, breed, chanceText)

	messages := []dialogue.ReplyPart{}
	if audio, ok := d.responder.audioPart(ctx, message); ok {
		messages = append(messages, audio)
	}
	messages = append(messages, dialogue.ReplyPart{
		ContentType: dialogue.ContentTypePlainText,
		Content:     message,
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

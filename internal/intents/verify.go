package intents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aumigobot/aumigobot/internal/users"
)

// verifyRegistration looks up a registration by phone and restores the
// user's identity into the session attributes.
func (d *Dispatcher) verifyRegistration(ctx context.Context, event Event) Response {
	intentName := event.SessionState.Intent.Name
	slots := event.SessionState.Intent.Slots
	attrs := event.Attributes()

	phone := slots.Get("verificaTelefone")
	if phone == SlotNotInformed {
		return d.responder.Finish(attrs, intentName,
			"Por favor, forneça um telefone para verificar seu cadastro.", stateFailed, false)
	}

	user, err := d.users.SearchByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return d.responder.Finish(attrs, intentName,
				"Cadastro não encontrado. Digite 'Recomeçar' para reiniciar a conversa!", stateFailed, true)
		}
		d.logger.Error("registration verification failed", slog.Any("error", err))
		return d.responder.Finish(attrs, intentName,
			fmt.Sprintf("Ocorreu um erro ao tentar verificar seu cadastro: %v", err), stateFailed, false)
	}

	attrs["nome"] = user.Name
	attrs["e-mail"] = user.Email
	attrs["telefone"] = user.Phone
	attrs["idade"] = user.Age
	attrs["userId"] = user.ID

	return d.responder.Finish(attrs, intentName, "Cadastro encontrado com sucesso.", stateFulfilled, true)
}

package intents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aumigobot/aumigobot/internal/users"
)

// newRegistration registers a user from the captured slots, refusing
// duplicate phone numbers.
func (d *Dispatcher) newRegistration(ctx context.Context, event Event) Response {
	intentName := event.SessionState.Intent.Name
	slots := event.SessionState.Intent.Slots
	attrs := event.Attributes()

	name := slots.Get("nome")
	email := slots.Get("e-mail")
	phone := slots.Get("telefone")
	age := slots.Get("idade")

	_, err := d.users.SearchByPhone(ctx, phone)
	switch {
	case err == nil:
		return d.responder.Finish(attrs, intentName, "O telefone já está cadastrado.", stateFulfilled, true)
	case !errors.Is(err, users.ErrNotFound):
		d.logger.Error("registration lookup failed", slog.Any("error", err))
		return d.responder.Finish(attrs, intentName,
			fmt.Sprintf("Ocorreu um erro ao realizar o cadastro: %v", err), stateFailed, false)
	}

	user, err := d.users.Insert(ctx, name, email, phone, age)
	if err != nil {
		d.logger.Error("registration insert failed", slog.Any("error", err))
		return d.responder.Finish(attrs, intentName,
			fmt.Sprintf("Ocorreu um erro ao realizar o cadastro: %v", err), stateFailed, false)
	}

	attrs["nome"] = name
	attrs["e-mail"] = email
	attrs["telefone"] = phone
	attrs["idade"] = age
	attrs["userId"] = user.ID

	return d.responder.Finish(attrs, intentName, "Novo cadastro realizado com sucesso.", stateFulfilled, true)
}

package intents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aumigobot/aumigobot/internal/pets"
)

const slotAnimalToAdopt = "AnimalToAdopt"

// adoptPet walks the adoption flow: offer the available pets, resolve the
// user's pick, and record the solicitation.
func (d *Dispatcher) adoptPet(ctx context.Context, event Event) Response {
	intentName := event.SessionState.Intent.Name
	slots := event.SessionState.Intent.Slots
	attrs := event.Attributes()

	if slots.Has(slotAnimalToAdopt) {
		return d.resolveAdoptionChoice(ctx, event, slots.Get(slotAnimalToAdopt))
	}

	options, err := d.availablePetLabels(ctx)
	if err != nil {
		d.logger.Error("pet catalog unavailable", slog.Any("error", err))
		return d.responder.CloseDialog(ctx, attrs, intentName,
			"Desculpe, ocorreu um erro ao tentar adotar o animal. Por favor, tente novamente.", slots)
	}
	if len(options) == 0 {
		return d.responder.CloseDialog(ctx, attrs, intentName,
			"Desculpe, não temos animais disponíveis no momento.", slots)
	}
	return d.responder.ElicitSlotWithList(attrs, intentName, slotAnimalToAdopt,
		"Aqui estão os animais disponíveis para adoção. Qual você prefere? Digite a resposta no seguinte formato (Nome - Raça)",
		options)
}

func (d *Dispatcher) resolveAdoptionChoice(ctx context.Context, event Event, choice string) Response {
	intentName := event.SessionState.Intent.Name
	slots := event.SessionState.Intent.Slots
	attrs := event.Attributes()

	pet, err := d.lookupChoice(ctx, choice)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			options, listErr := d.availablePetLabels(ctx)
			if listErr != nil {
				options = nil
			}
			return d.responder.ElicitSlotWithList(attrs, intentName, slotAnimalToAdopt,
				"O animal escolhido não está disponível. Por favor, escolha da lista abaixo:", options)
		}
		d.logger.Error("adoption lookup failed", slog.Any("error", err))
		return d.responder.CloseDialog(ctx, attrs, intentName,
			"Desculpe, ocorreu um erro ao tentar adotar o animal. Por favor, tente novamente.", slots)
	}

	if _, err := d.adoptions.Insert(ctx, pet.ID, attrs["phone"], attrs["userId"]); err != nil {
		d.logger.Error("adoption request insert failed", slog.Any("error", err))
		return d.responder.CloseDialog(ctx, attrs, intentName,
			"Desculpe, ocorreu um erro ao tentar adotar o animal. Por favor, tente novamente.", slots)
	}

	return d.responder.CloseDialog(ctx, attrs, intentName,
		fmt.Sprintf("Sua solicitação para adotar o Cachorro '%s' foi recebida. Em breve entraremos em contato.", pet.Name),
		slots)
}

// lookupChoice parses the "Nome - Raça" answer and resolves it against the
// catalog. Answers that don't fit the format count as not found.
func (d *Dispatcher) lookupChoice(ctx context.Context, choice string) (pets.Pet, error) {
	parts := strings.Split(choice, " - ")
	if len(parts) < 2 {
		return pets.Pet{}, pets.ErrNotFound
	}
	return d.pets.GetByNameAndBreed(ctx, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
}

func (d *Dispatcher) availablePetLabels(ctx context.Context) ([]string, error) {
	available, err := d.pets.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(available))
	for _, pet := range available {
		labels = append(labels, pet.Label())
	}
	return labels, nil
}

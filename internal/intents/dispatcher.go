package intents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aumigobot/aumigobot/internal/adoptions"
	"github.com/aumigobot/aumigobot/internal/pets"
	"github.com/aumigobot/aumigobot/internal/users"
)

// Intent names as registered on the dialogue engine.
const (
	IntentAdoptPet           = "adotarPet"
	IntentNewRegistration    = "novoCadastro"
	IntentVerifyRegistration = "verificacaoCadastro"
	IntentDonation           = "doacaoOng"
	IntentIdentifyDog        = "identificarCachorro"
)

// PetCatalog lists and resolves adoptable pets.
type PetCatalog interface {
	ListAvailable(ctx context.Context) ([]pets.Pet, error)
	GetByNameAndBreed(ctx context.Context, name, breed string) (pets.Pet, error)
}

// UserDirectory looks up and registers users.
type UserDirectory interface {
	SearchByPhone(ctx context.Context, phone string) (users.User, error)
	Insert(ctx context.Context, name, email, phone, age string) (users.User, error)
}

// AdoptionBook records adoption requests.
type AdoptionBook interface {
	Insert(ctx context.Context, petID, phone, userID string) (adoptions.Request, error)
}

// Dispatcher routes fulfillment events to their intent handlers.
type Dispatcher struct {
	pets      PetCatalog
	users     UserDirectory
	adoptions AdoptionBook
	responder *Responder
	qrCodeURL string
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher. qrCodeURL is the public URL of the
// donation PIX QR code image.
func NewDispatcher(log *slog.Logger, responder *Responder, petCatalog PetCatalog, userDirectory UserDirectory, adoptionBook AdoptionBook, qrCodeURL string) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		pets:      petCatalog,
		users:     userDirectory,
		adoptions: adoptionBook,
		responder: responder,
		qrCodeURL: qrCodeURL,
		logger:    log.With(slog.String("service", "intents")),
	}
}

// Dispatch fulfills one intent event. Unknown intents fail the dialogue
// rather than erroring at the transport level, so the engine can recover
// the conversation.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) Response {
	name := event.SessionState.Intent.Name
	d.logger.Info("fulfilling intent", slog.String("intent", name))

	switch name {
	case IntentAdoptPet:
		return d.adoptPet(ctx, event)
	case IntentNewRegistration:
		return d.newRegistration(ctx, event)
	case IntentVerifyRegistration:
		return d.verifyRegistration(ctx, event)
	case IntentDonation:
		return d.donation(ctx, event)
	case IntentIdentifyDog:
		return d.identifyDog(ctx, event)
	default:
		d.logger.Warn("unknown intent", slog.String("intent", name))
		return d.responder.Finish(event.Attributes(), name,
			fmt.Sprintf("Desculpe, não sei atender a intenção '%s'.", name),
			stateFailed, false)
	}
}

// Package intents fulfills the dialogue engine's business intents: adoption
// intake, user registration and lookup, donation info, and breed-report
// narration.
package intents

import "github.com/aumigobot/aumigobot/internal/dialogue"

// SlotNotInformed is the default when the engine captured no value.
const SlotNotInformed = "Não informado"

// SlotValue carries the engine's interpretation of a captured slot.
type SlotValue struct {
	InterpretedValue string `json:"interpretedValue"`
}

// Slot is one captured slot; Value is nil when nothing was captured.
type Slot struct {
	Value *SlotValue `json:"value,omitempty"`
}

// Slots maps slot names to captured values.
type Slots map[string]Slot

// Get returns the interpreted value for name, or SlotNotInformed.
func (s Slots) Get(name string) string {
	slot, ok := s[name]
	if !ok || slot.Value == nil || slot.Value.InterpretedValue == "" {
		return SlotNotInformed
	}
	return slot.Value.InterpretedValue
}

// Has reports whether a value was captured for name.
func (s Slots) Has(name string) bool {
	slot, ok := s[name]
	return ok && slot.Value != nil && slot.Value.InterpretedValue != ""
}

// Intent identifies the in-flight intent and its captured slots.
type Intent struct {
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
	Slots Slots  `json:"slots,omitempty"`
}

// DialogAction tells the engine how to continue the dialogue.
type DialogAction struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

// SessionState is the engine's conversational state for one user.
type SessionState struct {
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	DialogAction      *DialogAction     `json:"dialogAction,omitempty"`
	Intent            Intent            `json:"intent"`
}

// Event is the fulfillment request the engine posts for one intent.
type Event struct {
	SessionState SessionState `json:"sessionState"`
}

// Attributes returns the event's session attributes, never nil.
func (e Event) Attributes() map[string]string {
	if e.SessionState.SessionAttributes == nil {
		return map[string]string{}
	}
	return e.SessionState.SessionAttributes
}

// Response is the fulfillment result handed back to the engine. Messages
// reuse the reply-part shape the turn pipeline consumes.
type Response struct {
	SessionState SessionState         `json:"sessionState"`
	Messages     []dialogue.ReplyPart `json:"messages"`
}

const (
	actionClose      = "Close"
	actionElicitSlot = "ElicitSlot"

	stateFulfilled = "Fulfilled"
	stateFailed    = "Failed"
)

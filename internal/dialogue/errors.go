package dialogue

import "fmt"

// EngineError wraps any failure talking to the dialogue engine. It is fatal
// to the turn: without the engine there is no meaningful reply.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("dialogue engine: %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrHandNotEnded is returned by StartNextHand while a hand is still live.
	ErrHandNotEnded = errors.New("engine: current hand has not ended")

	// ErrNotEnoughPlayers is returned when fewer than two funded seats remain,
	// so small and big blind cannot both be assigned.
	ErrNotEnoughPlayers = errors.New("engine: fewer than two funded seats")
)

// InvalidActionError reports an action rejected by ApplyAction. Callers are
// expected to have filtered against GetLegalActions first, so one of these
// indicates a caller bug rather than a recoverable condition. The engine
// state is untouched when it is returned.
type InvalidActionError struct {
	Seat   int
	Action ActionType
	Reason string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("engine: invalid action %s by seat %d: %s", e.Action, e.Seat, e.Reason)
}

func invalidAction(seat int, action ActionType, format string, args ...any) error {
	return &InvalidActionError{Seat: seat, Action: action, Reason: fmt.Sprintf(format, args...)}
}

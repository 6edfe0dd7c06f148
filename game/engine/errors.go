package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is the parent of every rejected request. A rejection
// never changes game state.
var ErrInvalidOperation = errors.New("invalid operation")

var (
	ErrGameOver         = rejection("game is over")
	ErrNotStarted       = rejection("game has not started")
	ErrAnimating        = rejection("move in progress")
	ErrRollPending      = rejection("dice already rolled")
	ErrNoRoll           = rejection("roll the dice first")
	ErrNotYourToken     = rejection("token does not belong to the current player")
	ErrIllegalMove      = rejection("token cannot move that far")
	ErrManualMode       = rejection("dice are entered manually")
	ErrNotManualMode    = rejection("manual dice mode is off")
	ErrForfeitPending   = rejection("turn is being forfeited")
	ErrSkipPending      = rejection("no legal moves, turn is being skipped")
	ErrNothingToResolve = rejection("nothing to resolve")
	ErrInvalidValue     = rejection("invalid value")
	ErrUnknownPref      = rejection("unknown preference")
)

// ErrCorruptState reports a saved record that cannot be restored
var ErrCorruptState = errors.New("corrupt game state")

func rejection(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, msg)
}

package game

import "errors"

// Errors reported to the caller of a single operation. None of them leave
// the session partially mutated.
var (
	ErrInvalidPhase     = errors.New("operation not valid in current phase")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrPlayersNotReady  = errors.New("players not ready")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrNoDecisionWindow = errors.New("no decision window open for player")
	ErrAlreadyConfirmed = errors.New("decision already confirmed")
	ErrDecisionPending  = errors.New("no decision chosen yet")
	ErrInvalidChoice    = errors.New("choice must be continue or return")
	ErrPlayerExists     = errors.New("player already in session")
)

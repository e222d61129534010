// Package policy provides decision makers for automated players.
package policy

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// Policy names accepted by New
const (
	NameContinue  = "continue"
	NameReturn    = "return"
	NameHeuristic = "heuristic"
	NameRemote    = "remote"
)

// Fixed always makes the same choice
type Fixed models.Choice

// Decide implements game.Decider
func (f Fixed) Decide(context.Context, models.Snapshot) (models.Choice, error) {
	return models.Choice(f), nil
}

// Heuristic thresholds
const (
	RiskThreshold    = 2
	TakeThreshold    = 8
	ReturnLikelihood = 0.8
)

// Heuristic is the rule-based opponent: once two or more hazards are on the
// path, or the player's take on returning now would exceed eight, it returns
// with probability 0.8. Otherwise it continues.
type Heuristic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristic returns a heuristic policy drawing from rng. A nil rng gets a
// freshly seeded generator.
func NewHeuristic(rng *rand.Rand) *Heuristic {
	if rng == nil {
		rng = game.NewShuffler()
	}
	return &Heuristic{rng: rng}
}

// ExpectedTake is what the player would receive by returning alone now
func ExpectedTake(snap models.Snapshot) int {
	if snap.Explorers <= 0 {
		return snap.RoundGain
	}
	return snap.RoundGain + snap.PathTreasure/snap.Explorers
}

// Decide implements game.Decider
func (h *Heuristic) Decide(_ context.Context, snap models.Snapshot) (models.Choice, error) {
	if snap.HazardsRevealed() < RiskThreshold && ExpectedTake(snap) <= TakeThreshold {
		return models.ChoiceContinue, nil
	}
	h.mu.Lock()
	roll := h.rng.Float64()
	h.mu.Unlock()
	if roll < ReturnLikelihood {
		return models.ChoiceReturn, nil
	}
	return models.ChoiceContinue, nil
}

// Options carries what New needs to build the configured policy
type Options struct {
	Requester Requester
	Subject   string
	Rand      *rand.Rand
}

// New builds a policy by name
func New(name string, opts Options) (game.Decider, error) {
	switch name {
	case NameContinue, "":
		return Fixed(models.ChoiceContinue), nil
	case NameReturn:
		return Fixed(models.ChoiceReturn), nil
	case NameHeuristic:
		return NewHeuristic(opts.Rand), nil
	case NameRemote:
		if opts.Requester == nil {
			return nil, fmt.Errorf("policy %q needs a NATS connection", name)
		}
		return NewRemote(opts.Requester, opts.Subject), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

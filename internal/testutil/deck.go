package testutil

import (
	"slices"
	"sync"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// ScriptedDeck hands out one deck per round request, in order. Each deck
// is listed in draw order. Requests past the script get an empty deck.
type ScriptedDeck struct {
	mu       sync.Mutex
	rounds   [][]models.Card
	Requests []game.DeckRequest
}

// NewScriptedDeck returns a deck script
func NewScriptedDeck(rounds ...[]models.Card) *ScriptedDeck {
	return &ScriptedDeck{rounds: rounds}
}

// Func returns the deck function to pass to game.WithDeck
func (d *ScriptedDeck) Func() game.DeckFunc {
	return func(req game.DeckRequest) []models.Card {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.Requests = append(d.Requests, req)
		if len(d.rounds) == 0 {
			return nil
		}
		deck := slices.Clone(d.rounds[0])
		d.rounds = d.rounds[1:]
		slices.Reverse(deck)
		return deck
	}
}

// NoShuffle leaves every sequence in its original order
type NoShuffle struct{}

// Shuffle implements game.Shuffler
func (NoShuffle) Shuffle(int, func(i, j int)) {}

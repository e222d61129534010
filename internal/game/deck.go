package game

import (
	crand "crypto/rand"
	"math/rand/v2"

	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// Shuffler permutes n elements in place through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// DeckRequest describes the deck wanted for one round
type DeckRequest struct {
	Round    int
	Removed  map[models.HazardKind]int
	Artifact *models.Card
}

// DeckFunc returns the draw pile for a round. Cards are drawn from the end.
type DeckFunc func(req DeckRequest) []models.Card

// NewShuffler returns a ChaCha8 generator seeded from crypto/rand
func NewShuffler() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return rand.New(rand.NewChaCha8(seed))
}

// BuildDeck assembles the unshuffled deck: treasures, then the remaining
// copies of each hazard kind, then the round's artifact if any.
func BuildDeck(rules Rules, req DeckRequest) []models.Card {
	deck := make([]models.Card, 0, len(rules.TreasureValues)+len(rules.HazardKinds)*rules.HazardCopies+1)
	for _, v := range rules.TreasureValues {
		deck = append(deck, models.Treasure(v))
	}
	for _, kind := range rules.HazardKinds {
		copies := rules.HazardCopies - req.Removed[kind]
		for i := 0; i < copies; i++ {
			deck = append(deck, models.Hazard(kind))
		}
	}
	if req.Artifact != nil {
		deck = append(deck, *req.Artifact)
	}
	return deck
}

// StandardDeck builds decks from rules and shuffles them uniformly with shuf
func StandardDeck(rules Rules, shuf Shuffler) DeckFunc {
	return func(req DeckRequest) []models.Card {
		deck := BuildDeck(rules, req)
		shuf.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
		return deck
	}
}

// Package sim runs offline simulations of expeditions and policy play.
package sim

import (
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// Distribution counts how many cards an expedition lasts with nobody
// returning to camp
type Distribution struct {
	Trials int
	// Lengths maps the number of cards revealed, the repeating hazard
	// included, to how many expeditions ended there
	Lengths map[int]int
	// Survived counts expeditions that emptied the deck
	Survived int
}

// RiskRow is one line of the risk table
type RiskRow struct {
	Card       int
	Ended      int
	Chance     float64 // expedition ends on this card
	Cumulative float64 // expedition has ended by this card
}

// Expeditions draws trials fresh first-round decks and records when a hazard
// first repeats
func Expeditions(rules game.Rules, trials int, rng *rand.Rand) Distribution {
	d := Distribution{Trials: trials, Lengths: make(map[int]int)}
	req := game.DeckRequest{Round: 1}
	if len(rules.ArtifactValues) > 0 {
		c := models.Artifact(rules.ArtifactValues[0])
		req.Artifact = &c
	}
	base := game.BuildDeck(rules, req)
	deck := make([]models.Card, len(base))
	seen := make(map[models.HazardKind]int, len(rules.HazardKinds))

	for range trials {
		copy(deck, base)
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		clear(seen)
		if n, ok := firstRepeat(deck, seen); ok {
			d.Lengths[n]++
		} else {
			d.Survived++
		}
	}
	return d
}

// firstRepeat walks the deck in draw order, from the end
func firstRepeat(deck []models.Card, seen map[models.HazardKind]int) (int, bool) {
	for i := len(deck) - 1; i >= 0; i-- {
		c := deck[i]
		if c.Kind != models.CardHazard {
			continue
		}
		seen[c.Hazard]++
		if seen[c.Hazard] == game.TriggerCount {
			return len(deck) - i, true
		}
	}
	return 0, false
}

// Mean is the average length of the expeditions that ended on a hazard
func (d Distribution) Mean() float64 {
	ended, total := 0, 0
	for n, count := range d.Lengths {
		ended += count
		total += n * count
	}
	if ended == 0 {
		return 0
	}
	return float64(total) / float64(ended)
}

// Risk returns the per-card and cumulative chance of the expedition ending,
// for every length observed
func (d Distribution) Risk() []RiskRow {
	if d.Trials == 0 {
		return nil
	}
	cards := slices.Sorted(maps.Keys(d.Lengths))
	rows := make([]RiskRow, 0, len(cards))
	ended := 0
	for _, n := range cards {
		ended += d.Lengths[n]
		rows = append(rows, RiskRow{
			Card:       n,
			Ended:      d.Lengths[n],
			Chance:     float64(d.Lengths[n]) / float64(d.Trials),
			Cumulative: float64(ended) / float64(d.Trials),
		})
	}
	return rows
}

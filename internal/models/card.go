package models

import (
	"encoding/json"
	"fmt"
)

// HazardKind names one of the danger categories in the deck
type HazardKind string

const (
	HazardSnake  HazardKind = "snake"
	HazardSpider HazardKind = "spider"
	HazardMummy  HazardKind = "mummy"
	HazardFire   HazardKind = "fire"
	HazardRocks  HazardKind = "rocks"
)

// DefaultHazards is the reference hazard order, also used for the observation vector
var DefaultHazards = []HazardKind{HazardSnake, HazardSpider, HazardMummy, HazardFire, HazardRocks}

// CardKind tags the variant held by a Card
type CardKind uint8

const (
	CardTreasure CardKind = iota + 1
	CardArtifact
	CardHazard
	// CardCollected marks an artifact taken by a lone quitter
	CardCollected
	// CardLooted marks a treasure entry split down to nothing
	CardLooted
)

var cardKindNames = map[CardKind]string{
	CardTreasure:  "treasure",
	CardArtifact:  "artifact",
	CardHazard:    "hazard",
	CardCollected: "collected",
	CardLooted:    "looted",
}

func (k CardKind) String() string {
	if name, ok := cardKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CardKind(%d)", uint8(k))
}

// Card is either a deck card or a path entry. Value is meaningful for
// treasure and artifact cards, Hazard only for hazard cards.
type Card struct {
	Kind   CardKind
	Value  int
	Hazard HazardKind
}

// Treasure creates a treasure card worth v
func Treasure(v int) Card { return Card{Kind: CardTreasure, Value: v} }

// Artifact creates an artifact card worth v
func Artifact(v int) Card { return Card{Kind: CardArtifact, Value: v} }

// Hazard creates a hazard card of kind k
func Hazard(k HazardKind) Card { return Card{Kind: CardHazard, Hazard: k} }

// Collected is the path marker left after an artifact is taken
func Collected() Card { return Card{Kind: CardCollected} }

// Looted is the path marker left after a treasure is split to zero
func Looted() Card { return Card{Kind: CardLooted} }

func (c Card) String() string {
	switch c.Kind {
	case CardTreasure:
		return fmt.Sprintf("%d", c.Value)
	case CardArtifact:
		return fmt.Sprintf("artifact_%d", c.Value)
	case CardHazard:
		return "hazard_" + string(c.Hazard)
	default:
		return c.Kind.String()
	}
}

type cardJSON struct {
	Kind   string     `json:"kind"`
	Value  int        `json:"value,omitempty"`
	Hazard HazardKind `json:"hazard,omitempty"`
}

// MarshalJSON encodes the card as {"kind": ..., "value": ..., "hazard": ...}
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Kind: c.Kind.String(), Value: c.Value, Hazard: c.Hazard})
}

// UnmarshalJSON decodes the form produced by MarshalJSON
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, name := range cardKindNames {
		if name == raw.Kind {
			*c = Card{Kind: k, Value: raw.Value, Hazard: raw.Hazard}
			return nil
		}
	}
	return fmt.Errorf("unknown card kind %q", raw.Kind)
}

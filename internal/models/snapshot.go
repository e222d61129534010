package models

// Snapshot is the read-only observation handed to an automated decision policy.
// Hazards follows the order of the rules' hazard kinds (padded to five).
type Snapshot struct {
	PlayerID      string `json:"playerId"`
	Round         int    `json:"round"`
	RoundGain     int    `json:"roundGain"`
	PathTreasure  int    `json:"pathTreasure"`
	PathArtifacts int    `json:"pathArtifacts"`
	Hazards       [5]int `json:"hazards"`
	DeckSize      int    `json:"deckSize"`
	Explorers     int    `json:"explorers"`
}

// Vector flattens the snapshot into the 11-value observation layout used by
// trained policies.
func (s Snapshot) Vector() []float32 {
	v := make([]float32, 0, 11)
	v = append(v, float32(s.Round), float32(s.RoundGain), float32(s.PathTreasure), float32(s.PathArtifacts))
	for _, h := range s.Hazards {
		v = append(v, float32(h))
	}
	v = append(v, float32(s.DeckSize), float32(s.Explorers))
	return v
}

// HazardsRevealed sums the hazard counters
func (s Snapshot) HazardsRevealed() int {
	total := 0
	for _, h := range s.Hazards {
		total += h
	}
	return total
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard_JSON(t *testing.T) {
	path := []Card{Treasure(5), Artifact(10), Hazard(HazardSpider), Collected(), Looted()}

	data, err := json.Marshal(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"kind":"treasure","value":5},
		{"kind":"artifact","value":10},
		{"kind":"hazard","hazard":"spider"},
		{"kind":"collected"},
		{"kind":"looted"}
	]`, string(data))

	var back []Card
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, path, back)
}

func TestCard_UnknownKind(t *testing.T) {
	var c Card
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"gem","value":3}`), &c))
}

func TestCard_String(t *testing.T) {
	assert.Equal(t, "7", Treasure(7).String())
	assert.Equal(t, "artifact_12", Artifact(12).String())
	assert.Equal(t, "hazard_mummy", Hazard(HazardMummy).String())
	assert.Equal(t, "looted", Looted().String())
}

func TestSnapshot_Vector(t *testing.T) {
	snap := Snapshot{
		Round:         2,
		RoundGain:     4,
		PathTreasure:  9,
		PathArtifacts: 1,
		Hazards:       [5]int{1, 0, 1, 0, 0},
		DeckSize:      20,
		Explorers:     3,
	}
	assert.Equal(t, []float32{2, 4, 9, 1, 1, 0, 1, 0, 0, 20, 3}, snap.Vector())
	assert.Equal(t, 2, snap.HazardsRevealed())
}

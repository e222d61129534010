package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tydestiny/Incan-Gold/internal/models"
)

func TestSplitPath_FloorAndRemainder(t *testing.T) {
	for q := 1; q <= 8; q++ {
		for v := 1; v <= 17; v++ {
			path := []models.Card{models.Treasure(v)}
			share := SplitPath(path, q)

			assert.Equal(t, v/q, share.Treasure, "v=%d q=%d", v, q)
			rest := PathTreasure(path)
			assert.Equal(t, v%q, rest, "v=%d q=%d", v, q)
			assert.Less(t, rest, q)
			assert.Equal(t, v, share.Treasure*q+rest, "value must be conserved")
			if v%q == 0 {
				assert.Equal(t, models.CardLooted, path[0].Kind)
			}
		}
	}
}

func TestSplitPath_ArtifactOnlyForLoneQuitter(t *testing.T) {
	path := []models.Card{models.Treasure(3), models.Artifact(10)}
	share := SplitPath(path, 2)
	assert.Equal(t, Share{Treasure: 1, Artifact: 0}, share)
	assert.Equal(t, models.Artifact(10), path[1])
	assert.Equal(t, models.Treasure(1), path[0])

	share = SplitPath(path, 1)
	assert.Equal(t, Share{Treasure: 1, Artifact: 10}, share)
	assert.Equal(t, models.Collected(), path[1])
	assert.Equal(t, models.Looted(), path[0])
	assert.Equal(t, 0, PathArtifacts(path))
}

func TestSplitPath_IgnoresHazardsAndMarkers(t *testing.T) {
	path := []models.Card{
		models.Hazard(models.HazardSnake),
		models.Looted(),
		models.Collected(),
		models.Treasure(4),
	}
	share := SplitPath(path, 1)
	assert.Equal(t, 4, share.Total())
	assert.Equal(t, models.Hazard(models.HazardSnake), path[0])
	assert.Equal(t, models.Looted(), path[1])
	assert.Equal(t, models.Collected(), path[2])
}

func TestSplitPath_NoQuitters(t *testing.T) {
	path := []models.Card{models.Treasure(5)}
	assert.Equal(t, Share{}, SplitPath(path, 0))
	assert.Equal(t, models.Treasure(5), path[0])
}

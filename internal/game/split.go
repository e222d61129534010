package game

import "github.com/Tydestiny/Incan-Gold/internal/models"

// Share is what every quitter of one resolution receives
type Share struct {
	Treasure int `json:"share"`
	Artifact int `json:"artifact"`
}

// Total is the combined gain of a share
func (s Share) Total() int {
	return s.Treasure + s.Artifact
}

// SplitPath divides the path among quitters and rewrites it in place.
//
// Every treasure entry v gives floor(v/quitters) to each quitter and keeps
// v mod quitters on the path; an entry split down to zero becomes Looted.
// Artifacts only go to a lone quitter and are then marked Collected.
func SplitPath(path []models.Card, quitters int) Share {
	var share Share
	if quitters <= 0 {
		return share
	}
	for i, c := range path {
		if c.Kind != models.CardTreasure || c.Value <= 0 {
			continue
		}
		share.Treasure += c.Value / quitters
		if rest := c.Value % quitters; rest > 0 {
			path[i] = models.Treasure(rest)
		} else {
			path[i] = models.Looted()
		}
	}
	if quitters == 1 {
		for i, c := range path {
			if c.Kind == models.CardArtifact {
				share.Artifact += c.Value
				path[i] = models.Collected()
			}
		}
	}
	return share
}

// PathTreasure sums the treasure still lying on the path
func PathTreasure(path []models.Card) int {
	total := 0
	for _, c := range path {
		if c.Kind == models.CardTreasure {
			total += c.Value
		}
	}
	return total
}

// PathArtifacts counts the uncollected artifacts on the path
func PathArtifacts(path []models.Card) int {
	n := 0
	for _, c := range path {
		if c.Kind == models.CardArtifact {
			n++
		}
	}
	return n
}

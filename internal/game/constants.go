package game

import (
	"time"

	"github.com/Tydestiny/Incan-Gold/internal/models"
)

const (
	// MinPlayers is the minimum number of players required to start a game
	MinPlayers = 2

	// TotalRounds is the number of expeditions in a game
	TotalRounds = 5

	// HazardCopies is how many copies of each hazard kind a fresh deck holds
	HazardCopies = 3

	// TriggerCount is the number of reveals of one hazard kind that ends an expedition
	TriggerCount = 2
)

// Pacing delays between automated transitions. Tests run them at zero.
const (
	FirstCardDelay         = 2 * time.Second
	NextCardDelay          = 3 * time.Second
	RoundEndDelay          = 3 * time.Second
	HazardEndDelay         = 4 * time.Second
	NextRoundDelay         = 4 * time.Second
	AutomatedDecisionDelay = 1500 * time.Millisecond
	PolicyTimeout          = 2 * time.Second
)

// DefaultTreasureValues is the reference set of treasure cards in every deck
var DefaultTreasureValues = []int{1, 2, 3, 4, 5, 5, 7, 7, 9, 11, 11, 13, 14, 15, 17}

// DefaultArtifactValues are shuffled once per game, one artifact per round
var DefaultArtifactValues = []int{5, 7, 8, 10, 12}

// DefaultChoice is applied when an automated policy is missing or fails
const DefaultChoice = models.ChoiceContinue

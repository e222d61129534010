package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// Pacing holds the scheduling delays requested by the engine
type Pacing struct {
	FirstCard         time.Duration `yaml:"first_card"`
	NextCard          time.Duration `yaml:"next_card"`
	RoundEnd          time.Duration `yaml:"round_end"`
	HazardEnd         time.Duration `yaml:"hazard_end"`
	NextRound         time.Duration `yaml:"next_round"`
	AutomatedDecision time.Duration `yaml:"automated_decision"`
	PolicyTimeout     time.Duration `yaml:"policy_timeout"`
}

// Rules is the rule set a session plays with
type Rules struct {
	TreasureValues []int               `yaml:"treasure_values"`
	HazardKinds    []models.HazardKind `yaml:"hazard_kinds"`
	HazardCopies   int                 `yaml:"hazard_copies"`
	ArtifactValues []int               `yaml:"artifact_values"`
	TotalRounds    int                 `yaml:"total_rounds"`
	MinPlayers     int                 `yaml:"min_players"`
	DefaultChoice  models.Choice       `yaml:"default_choice"`
	Pacing         Pacing              `yaml:"pacing"`
}

// DefaultRules returns the reference rule set with production pacing
func DefaultRules() Rules {
	return Rules{
		TreasureValues: slices.Clone(DefaultTreasureValues),
		HazardKinds:    slices.Clone(models.DefaultHazards),
		HazardCopies:   HazardCopies,
		ArtifactValues: slices.Clone(DefaultArtifactValues),
		TotalRounds:    TotalRounds,
		MinPlayers:     MinPlayers,
		DefaultChoice:  DefaultChoice,
		Pacing: Pacing{
			FirstCard:         FirstCardDelay,
			NextCard:          NextCardDelay,
			RoundEnd:          RoundEndDelay,
			HazardEnd:         HazardEndDelay,
			NextRound:         NextRoundDelay,
			AutomatedDecision: AutomatedDecisionDelay,
			PolicyTimeout:     PolicyTimeout,
		},
	}
}

// Instant returns a copy of r with every pacing delay set to zero
func (r Rules) Instant() Rules {
	r.Pacing = Pacing{PolicyTimeout: r.Pacing.PolicyTimeout}
	return r
}

// Validate checks the rule set for values the engine cannot play with
func (r Rules) Validate() error {
	if r.TotalRounds < 1 {
		return fmt.Errorf("total_rounds must be positive, got %d", r.TotalRounds)
	}
	if r.MinPlayers < 1 {
		return fmt.Errorf("min_players must be positive, got %d", r.MinPlayers)
	}
	if r.HazardCopies < 0 {
		return fmt.Errorf("hazard_copies must not be negative, got %d", r.HazardCopies)
	}
	if len(r.HazardKinds) > 5 {
		return fmt.Errorf("at most 5 hazard kinds are supported, got %d", len(r.HazardKinds))
	}
	seen := make(map[models.HazardKind]bool, len(r.HazardKinds))
	for _, k := range r.HazardKinds {
		if k == "" {
			return fmt.Errorf("hazard kind must not be empty")
		}
		if seen[k] {
			return fmt.Errorf("duplicate hazard kind %q", k)
		}
		seen[k] = true
	}
	for _, v := range r.TreasureValues {
		if v <= 0 {
			return fmt.Errorf("treasure values must be positive, got %d", v)
		}
	}
	for _, v := range r.ArtifactValues {
		if v <= 0 {
			return fmt.Errorf("artifact values must be positive, got %d", v)
		}
	}
	if !r.DefaultChoice.Valid() {
		return fmt.Errorf("default_choice must be continue or return, got %q", r.DefaultChoice)
	}
	return nil
}

package game

import (
	"maps"
	"slices"

	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// View is a detached copy of the session state for rendering and tests
type View struct {
	Code                string                    `json:"room"`
	Phase               models.SessionPhase       `json:"phase"`
	Round               int                       `json:"round"`
	TotalRounds         int                       `json:"totalRounds"`
	HostID              string                    `json:"hostId"`
	Players             []models.Player           `json:"players"`
	Path                []models.Card             `json:"cardTreasures"`
	Explorers           []string                  `json:"explorers"`
	Hazards             map[models.HazardKind]int `json:"hazards"`
	Removed             map[models.HazardKind]int `json:"removedHazards"`
	DeckSize            int                       `json:"deckSize"`
	WaitingForDecisions bool                      `json:"waitingForDecisions"`
	Confirmed           map[string]bool           `json:"confirmed"`
	WinnerID            string                    `json:"winnerId,omitempty"`
}

// View returns the current state. Queries never emit, so they take the
// state lock alone and are safe to call from a Notifier.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Code:                s.code,
		Phase:               s.phase,
		Round:               s.round,
		TotalRounds:         s.rules.TotalRounds,
		Players:             s.playerList(),
		Path:                slices.Clone(s.path),
		Explorers:           slices.Clone(s.inTemple),
		Hazards:             maps.Clone(s.hazards),
		Removed:             maps.Clone(s.removed),
		DeckSize:            len(s.deck),
		WaitingForDecisions: s.waiting,
		Confirmed:           make(map[string]bool),
		WinnerID:            s.winnerID,
	}
	if len(s.players) > 0 {
		v.HostID = s.players[0].ID
	}
	if s.waiting {
		maps.Copy(v.Confirmed, s.confirmed)
	}
	return v
}

// Phase returns the session phase
func (s *Session) Phase() models.SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// PlayerCount returns the roster size
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// Player looks up a player by id
func (s *Session) Player(id string) (models.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.find(id); p != nil {
		return p.Clone(), true
	}
	return models.Player{}, false
}

// IsHost reports whether id is first in join order
func (s *Session) IsHost(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players) > 0 && s.players[0].ID == id
}

// Leader returns the first player holding the strictly greatest banked
// treasure, or nil for an empty roster
func Leader(players []*models.Player) *models.Player {
	var best *models.Player
	for _, p := range players {
		if best == nil || p.Treasure > best.Treasure {
			best = p
		}
	}
	return best
}

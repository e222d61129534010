// Package render projects session state into the JSON shapes the HTTP API
// serves.
package render

import (
	"slices"
	"strings"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// PlayerRow is one entry of the roster as shown to other players
type PlayerRow struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Host      bool               `json:"host"`
	Automated bool               `json:"automated"`
	Ready     bool               `json:"ready"`
	Status    models.PlayerPhase `json:"status"`
	Treasure  int                `json:"treasure"`
	RoundGain int                `json:"roundGain"`
	Confirmed bool               `json:"confirmed"`
}

// PlayerList returns the roster in join order
func PlayerList(v game.View) []PlayerRow {
	rows := make([]PlayerRow, 0, len(v.Players))
	for _, p := range v.Players {
		rows = append(rows, PlayerRow{
			ID:        p.ID,
			Name:      p.Name,
			Host:      p.ID == v.HostID,
			Automated: p.Automated,
			Ready:     p.Ready,
			Status:    p.Phase,
			Treasure:  p.Treasure,
			RoundGain: p.RoundGain,
			Confirmed: v.Confirmed[p.ID],
		})
	}
	return rows
}

// Controls lists the actions available to one player right now
type Controls struct {
	IsHost    bool `json:"isHost"`
	CanReady  bool `json:"canReady"`
	CanStart  bool `json:"canStart"`
	CanAddBot bool `json:"canAddBot"`
	CanReset  bool `json:"canReset"`
	CanDecide bool `json:"canDecide"`
}

// PlayerControls computes the personalised controls for playerID
func PlayerControls(v game.View, rules game.Rules, playerID string) Controls {
	isHost := playerID != "" && playerID == v.HostID
	c := Controls{IsHost: isHost}

	switch v.Phase {
	case models.PhaseLobby:
		c.CanReady = member(v, playerID)
		c.CanAddBot = isHost
		if isHost && len(v.Players) >= rules.MinPlayers {
			c.CanStart = !slices.ContainsFunc(v.Players, func(p models.Player) bool { return !p.Ready })
		}
	case models.PhasePlaying:
		c.CanReset = isHost
		c.CanDecide = v.WaitingForDecisions &&
			slices.Contains(v.Explorers, playerID) && !v.Confirmed[playerID]
	case models.PhaseFinished:
		c.CanReset = isHost
	}
	return c
}

func member(v game.View, playerID string) bool {
	return slices.ContainsFunc(v.Players, func(p models.Player) bool { return p.ID == playerID })
}

// Standing is one row of the final or running score table
type Standing struct {
	Rank     int    `json:"rank"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Treasure int    `json:"treasure"`
	Winner   bool   `json:"winner"`
}

// Standings sorts players by banked treasure, keeping join order between
// equal scores. Equal scores share a rank.
func Standings(v game.View) []Standing {
	players := slices.Clone(v.Players)
	slices.SortStableFunc(players, func(a, b models.Player) int {
		return b.Treasure - a.Treasure
	})
	rows := make([]Standing, 0, len(players))
	for i, p := range players {
		rank := i + 1
		if i > 0 && p.Treasure == players[i-1].Treasure {
			rank = rows[i-1].Rank
		}
		rows = append(rows, Standing{
			Rank:     rank,
			ID:       p.ID,
			Name:     p.Name,
			Treasure: p.Treasure,
			Winner:   p.ID == v.WinnerID,
		})
	}
	return rows
}

// PathSummary describes the cards on the path of the current expedition
type PathSummary struct {
	Cards     []string                  `json:"cards"`
	Treasure  int                       `json:"treasure"`
	Artifacts int                       `json:"artifacts"`
	Hazards   map[models.HazardKind]int `json:"hazards"`
}

// Path summarises the path cards and the hazards revealed so far
func Path(v game.View) PathSummary {
	cards := make([]string, 0, len(v.Path))
	for _, c := range v.Path {
		cards = append(cards, c.String())
	}
	hazards := make(map[models.HazardKind]int)
	for k, n := range v.Hazards {
		if n > 0 {
			hazards[k] = n
		}
	}
	return PathSummary{
		Cards:     cards,
		Treasure:  game.PathTreasure(v.Path),
		Artifacts: game.PathArtifacts(v.Path),
		Hazards:   hazards,
	}
}

// Progress counts confirmed decisions in the open window
type Progress struct {
	Confirmed int `json:"confirmed"`
	Total     int `json:"total"`
}

// DecisionProgress reports how many explorers have locked in
func DecisionProgress(v game.View) Progress {
	p := Progress{Total: len(v.Explorers)}
	if !v.WaitingForDecisions {
		return p
	}
	for _, id := range v.Explorers {
		if v.Confirmed[id] {
			p.Confirmed++
		}
	}
	return p
}

// Room is the complete personalised response for GET /rooms/:code
type Room struct {
	Code        string              `json:"room"`
	Phase       models.SessionPhase `json:"phase"`
	Round       int                 `json:"round"`
	TotalRounds int                 `json:"totalRounds"`
	You         string              `json:"you,omitempty"`
	Players     []PlayerRow         `json:"players"`
	Controls    Controls            `json:"controls"`
	Path        PathSummary         `json:"path"`
	Progress    Progress            `json:"progress"`
	DeckSize    int                 `json:"deckSize"`
	Standings   []Standing          `json:"standings"`
	Winner      string              `json:"winner,omitempty"`
}

// RoomFor builds the room response as seen by playerID
func RoomFor(v game.View, rules game.Rules, playerID string) Room {
	r := Room{
		Code:        v.Code,
		Phase:       v.Phase,
		Round:       v.Round,
		TotalRounds: v.TotalRounds,
		Players:     PlayerList(v),
		Controls:    PlayerControls(v, rules, playerID),
		Path:        Path(v),
		Progress:    DecisionProgress(v),
		DeckSize:    v.DeckSize,
		Standings:   Standings(v),
	}
	if member(v, playerID) {
		r.You = playerID
	}
	if i := slices.IndexFunc(v.Players, func(p models.Player) bool { return p.ID == v.WinnerID }); i >= 0 {
		r.Winner = v.Players[i].Name
	}
	return r
}

// DisplayName trims a user supplied name and caps it at max runes
func DisplayName(name string, max int) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); max > 0 && len(r) > max {
		name = string(r[:max])
	}
	return name
}

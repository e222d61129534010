package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
)

func lobbyView() game.View {
	return game.View{
		Code:   "ABC234",
		Phase:  models.PhaseLobby,
		HostID: "a",
		Players: []models.Player{
			{ID: "a", Name: "Ana", Ready: true},
			{ID: "b", Name: "Bo", Ready: true},
			{ID: "c", Name: "Cy", Ready: false},
		},
		Confirmed: map[string]bool{},
	}
}

func TestPlayerList_KeepsJoinOrder(t *testing.T) {
	rows := PlayerList(lobbyView())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.True(t, rows[0].Host)
	assert.False(t, rows[1].Host)
	assert.False(t, rows[2].Ready)
}

func TestPlayerControls_Lobby(t *testing.T) {
	rules := game.DefaultRules()
	v := lobbyView()

	host := PlayerControls(v, rules, "a")
	assert.True(t, host.IsHost)
	assert.True(t, host.CanAddBot)
	assert.False(t, host.CanStart, "c is not ready")

	v.Players[2].Ready = true
	assert.True(t, PlayerControls(v, rules, "a").CanStart)

	guest := PlayerControls(v, rules, "b")
	assert.False(t, guest.IsHost)
	assert.True(t, guest.CanReady)
	assert.False(t, guest.CanStart)

	stranger := PlayerControls(v, rules, "zzz")
	assert.Equal(t, Controls{}, stranger)
}

func TestPlayerControls_Playing(t *testing.T) {
	v := lobbyView()
	v.Phase = models.PhasePlaying
	v.WaitingForDecisions = true
	v.Explorers = []string{"a", "b"}
	v.Confirmed = map[string]bool{"a": true, "b": false}

	rules := game.DefaultRules()
	assert.False(t, PlayerControls(v, rules, "a").CanDecide, "already confirmed")
	assert.True(t, PlayerControls(v, rules, "b").CanDecide)
	assert.False(t, PlayerControls(v, rules, "c").CanDecide, "at camp")
	assert.True(t, PlayerControls(v, rules, "a").CanReset)
	assert.False(t, PlayerControls(v, rules, "a").CanReady)
}

func TestStandings_SharedRankKeepsJoinOrder(t *testing.T) {
	v := lobbyView()
	v.Phase = models.PhaseFinished
	v.Players[0].Treasure = 5
	v.Players[1].Treasure = 9
	v.Players[2].Treasure = 5
	v.WinnerID = "b"

	rows := Standings(v)
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].ID)
	assert.True(t, rows[0].Winner)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "a", rows[1].ID)
	assert.Equal(t, "c", rows[2].ID)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 2, rows[2].Rank)
}

func TestPath_Summary(t *testing.T) {
	v := lobbyView()
	v.Path = []models.Card{
		models.Treasure(7),
		models.Hazard(models.HazardFire),
		models.Artifact(10),
		models.Looted(),
		models.Treasure(2),
	}
	v.Hazards = map[models.HazardKind]int{models.HazardFire: 1, models.HazardSnake: 0}

	p := Path(v)
	assert.Equal(t, []string{"7", "hazard_fire", "artifact_10", "looted", "2"}, p.Cards)
	assert.Equal(t, 9, p.Treasure)
	assert.Equal(t, 1, p.Artifacts)
	assert.Equal(t, map[models.HazardKind]int{models.HazardFire: 1}, p.Hazards)
}

func TestDecisionProgress(t *testing.T) {
	v := lobbyView()
	v.Explorers = []string{"a", "b", "c"}
	v.Confirmed = map[string]bool{"a": true, "c": true}
	assert.Equal(t, Progress{Total: 3}, DecisionProgress(v))

	v.WaitingForDecisions = true
	assert.Equal(t, Progress{Confirmed: 2, Total: 3}, DecisionProgress(v))
}

func TestRoomFor(t *testing.T) {
	v := lobbyView()
	v.Phase = models.PhaseFinished
	v.WinnerID = "b"

	r := RoomFor(v, game.DefaultRules(), "c")
	assert.Equal(t, "ABC234", r.Code)
	assert.Equal(t, "c", r.You)
	assert.Equal(t, "Bo", r.Winner)
	assert.Len(t, r.Players, 3)

	anon := RoomFor(v, game.DefaultRules(), "nobody")
	assert.Empty(t, anon.You)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ana", DisplayName("  Ana \n", 20))
	assert.Equal(t, "Jóse", DisplayName("Jóseph", 4))
	assert.Equal(t, "", DisplayName("   ", 20))
}

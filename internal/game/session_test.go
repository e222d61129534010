package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
	"github.com/Tydestiny/Incan-Gold/internal/testutil"
)

type fixture struct {
	s     *game.Session
	sched *testutil.ManualScheduler
	rec   *testutil.Recorder
	deck  *testutil.ScriptedDeck
}

func setup(t *testing.T, deck *testutil.ScriptedDeck, opts ...game.Option) *fixture {
	t.Helper()
	f := &fixture{
		sched: testutil.NewManualScheduler(),
		rec:   &testutil.Recorder{},
		deck:  deck,
	}
	base := []game.Option{
		game.WithScheduler(f.sched),
		game.WithNotifier(f.rec),
		game.WithDeck(deck.Func()),
		game.WithShuffler(testutil.NoShuffle{}),
	}
	f.s = game.New("TEST01", game.DefaultRules().Instant(), append(base, opts...)...)
	return f
}

// seat joins and readies human players in order
func (f *fixture) seat(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, f.s.Join(id, "player-"+id))
		ready, err := f.s.ToggleReady(id)
		require.NoError(t, err)
		require.True(t, ready)
	}
}

func (f *fixture) decide(t *testing.T, id string, choice models.Choice) {
	t.Helper()
	require.NoError(t, f.s.Submit(id, choice))
	require.NoError(t, f.s.Confirm(id))
}

func (f *fixture) player(t *testing.T, id string) models.Player {
	t.Helper()
	p, ok := f.s.Player(id)
	require.True(t, ok, "player %s not found", id)
	return p
}

func TestSession_QuitterTakesPathThenWindowReopens(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck(
		[]models.Card{models.Treasure(5), models.Hazard(models.HazardSnake), models.Treasure(2)},
	))
	f.seat(t, "a", "b")
	require.NoError(t, f.s.Start())
	require.Equal(t, 1, f.sched.Pending())

	require.True(t, f.sched.RunNext())
	v := f.s.View()
	assert.True(t, v.WaitingForDecisions)
	assert.Equal(t, []string{"a", "b"}, v.Explorers)

	f.decide(t, "a", models.ChoiceReturn)
	f.decide(t, "b", models.ChoiceContinue)

	a := f.player(t, "a")
	assert.Equal(t, 5, a.Treasure)
	assert.Equal(t, 5, a.RoundGain)
	assert.Equal(t, models.PlayerAtCamp, a.Phase)

	v = f.s.View()
	assert.Equal(t, []models.Card{models.Looted()}, v.Path)
	assert.Equal(t, []string{"b"}, v.Explorers)

	require.True(t, f.sched.RunNext())
	v = f.s.View()
	assert.True(t, v.WaitingForDecisions)
	assert.Equal(t, []string{"b"}, v.Explorers)
	assert.Equal(t, map[string]bool{"b": false}, v.Confirmed)
	assert.Equal(t, 1, v.Hazards[models.HazardSnake])

	assert.ErrorIs(t, f.s.Submit("a", models.ChoiceContinue), game.ErrNoDecisionWindow)
}

func TestSession_SecondHazardEliminatesExplorers(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck(
		[]models.Card{models.Treasure(7), models.Hazard(models.HazardFire), models.Hazard(models.HazardFire)},
		[]models.Card{},
	))
	f.seat(t, "a", "b", "c")
	require.NoError(t, f.s.Start())

	require.True(t, f.sched.RunNext())
	f.decide(t, "a", models.ChoiceContinue)
	f.decide(t, "b", models.ChoiceContinue)
	f.decide(t, "c", models.ChoiceReturn)

	// first fire opens a window like any other card
	require.True(t, f.sched.RunNext())
	require.True(t, f.s.View().WaitingForDecisions)
	f.decide(t, "a", models.ChoiceContinue)
	f.decide(t, "b", models.ChoiceContinue)

	f.rec.Reset()
	require.True(t, f.sched.RunNext())
	assert.Equal(t, []game.EventKind{
		game.EventCardRevealed,
		game.EventHazardTriggered,
		game.EventRoundSummary,
	}, f.rec.Kinds())

	ev, _ := f.rec.Last(game.EventHazardTriggered)
	hazard := ev.Payload.(game.HazardPayload)
	assert.Equal(t, models.HazardFire, hazard.Hazard)
	assert.Equal(t, []string{"a", "b"}, hazard.Victims)

	ev, _ = f.rec.Last(game.EventRoundSummary)
	summary := ev.Payload.(game.RoundSummaryPayload)
	assert.Equal(t, []game.SummaryEntry{
		{PlayerID: "a", Name: "player-a", Status: game.StatusDead, RoundGain: 0},
		{PlayerID: "b", Name: "player-b", Status: game.StatusDead, RoundGain: 0},
		{PlayerID: "c", Name: "player-c", Status: game.StatusSafe, RoundGain: 7},
	}, summary.Entries)

	assert.Equal(t, 0, f.player(t, "a").Treasure)
	assert.Equal(t, 0, f.player(t, "b").RoundGain)
	assert.Equal(t, 7, f.player(t, "c").Treasure)

	v := f.s.View()
	assert.Empty(t, v.Explorers)
	assert.False(t, v.WaitingForDecisions)
	assert.Equal(t, 1, v.Removed[models.HazardFire])

	require.True(t, f.sched.RunNext()) // round end
	ev, ok := f.rec.Last(game.EventRoundEnded)
	require.True(t, ok)
	assert.Equal(t, 1, ev.Payload.(game.RoundEndedPayload).Round)

	require.True(t, f.sched.RunNext()) // round 2 begins
	require.Len(t, f.deck.Requests, 2)
	assert.Equal(t, 2, f.deck.Requests[1].Round)
	assert.Equal(t, 1, f.deck.Requests[1].Removed[models.HazardFire])
	assert.Equal(t, 2, f.s.View().Round)
}

func TestSession_ArtifactSplit(t *testing.T) {
	tests := []struct {
		name     string
		choices  map[string]models.Choice
		gains    map[string]int
		wantPath []models.Card
	}{
		{
			name:     "lone quitter collects",
			choices:  map[string]models.Choice{"a": models.ChoiceReturn, "b": models.ChoiceContinue},
			gains:    map[string]int{"a": 10, "b": 0},
			wantPath: []models.Card{models.Collected()},
		},
		{
			name:     "two quitters leave it",
			choices:  map[string]models.Choice{"a": models.ChoiceReturn, "b": models.ChoiceReturn},
			gains:    map[string]int{"a": 0, "b": 0},
			wantPath: []models.Card{models.Artifact(10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, testutil.NewScriptedDeck([]models.Card{models.Artifact(10), models.Treasure(1)}))
			f.seat(t, "a", "b")
			require.NoError(t, f.s.Start())
			require.True(t, f.sched.RunNext())

			f.decide(t, "a", tt.choices["a"])
			f.decide(t, "b", tt.choices["b"])

			for id, gain := range tt.gains {
				assert.Equal(t, gain, f.player(t, id).Treasure, id)
			}
			assert.Equal(t, tt.wantPath, f.s.View().Path)
		})
	}
}

func TestSession_RemaindersConservedAcrossSplits(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck([]models.Card{models.Treasure(7), models.Treasure(4)}))
	f.seat(t, "a", "b", "c")
	require.NoError(t, f.s.Start())

	require.True(t, f.sched.RunNext())
	f.decide(t, "a", models.ChoiceReturn)
	f.decide(t, "b", models.ChoiceReturn)
	f.decide(t, "c", models.ChoiceContinue)
	assert.Equal(t, []models.Card{models.Treasure(1)}, f.s.View().Path)

	require.True(t, f.sched.RunNext())
	f.decide(t, "c", models.ChoiceReturn)

	a, b, c := f.player(t, "a"), f.player(t, "b"), f.player(t, "c")
	assert.Equal(t, 3, a.Treasure)
	assert.Equal(t, 3, b.Treasure)
	assert.Equal(t, 5, c.Treasure)
	assert.Equal(t, 7+4, a.Treasure+b.Treasure+c.Treasure)
	assert.Equal(t, 0, game.PathTreasure(f.s.View().Path))

	ev, ok := f.rec.Last(game.EventRoundSummary)
	require.True(t, ok)
	for _, e := range ev.Payload.(game.RoundSummaryPayload).Entries {
		assert.Equal(t, game.StatusSafe, e.Status)
	}
}

func TestSession_GameEndsAfterFinalRound(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck(
		[]models.Card{models.Treasure(9)},
	))
	f.seat(t, "a", "b")
	require.NoError(t, f.s.Start())
	require.True(t, f.sched.RunNext())
	f.decide(t, "a", models.ChoiceContinue)
	f.decide(t, "b", models.ChoiceReturn)

	f.sched.RunAll(100)
	assert.Zero(t, f.sched.Pending())

	var rounds []int
	for _, ev := range f.rec.OfKind(game.EventRoundStarted) {
		rounds = append(rounds, ev.Payload.(game.RoundPayload).Round)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rounds)
	assert.Len(t, f.rec.OfKind(game.EventRoundEnded), 4)

	finished := f.rec.OfKind(game.EventGameFinished)
	require.Len(t, finished, 1)
	payload := finished[0].Payload.(game.GameFinishedPayload)
	assert.Equal(t, "b", payload.WinnerID)
	assert.Equal(t, "player-b", payload.WinnerName)
	assert.Equal(t, 5, payload.Rounds)

	v := f.s.View()
	assert.Equal(t, models.PhaseFinished, v.Phase)
	assert.Equal(t, "b", v.WinnerID)
	for _, p := range v.Players {
		assert.Equal(t, models.PlayerAtCamp, p.Phase)
	}
}

func TestSession_TiedWinnerIsEarliestJoiner(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck())
	f.seat(t, "a", "b")
	require.NoError(t, f.s.Start())
	f.sched.RunAll(100)

	assert.Equal(t, models.PhaseFinished, f.s.Phase())
	assert.Equal(t, "a", f.s.View().WinnerID)
}

func TestLeader(t *testing.T) {
	assert.Nil(t, game.Leader(nil))

	players := []*models.Player{
		{ID: "a", Treasure: 4},
		{ID: "b", Treasure: 9},
		{ID: "c", Treasure: 9},
	}
	assert.Equal(t, "b", game.Leader(players).ID)
}

func TestSession_ResetAfterGameOver(t *testing.T) {
	var seen models.Snapshot
	f := setup(t,
		testutil.NewScriptedDeck([]models.Card{models.Treasure(9)}),
		game.WithIDGenerator(func() string { return "bot-1" }),
		game.WithDecider(game.DeciderFunc(func(_ context.Context, snap models.Snapshot) (models.Choice, error) {
			seen = snap
			return models.ChoiceReturn, nil
		})),
	)
	f.seat(t, "a", "b")
	bot, err := f.s.AddAutomatedPlayer("")
	require.NoError(t, err)
	assert.Equal(t, "Bot 1", bot.Name)
	assert.True(t, bot.Ready)

	require.NoError(t, f.s.Start())
	require.True(t, f.sched.RunNext())
	f.decide(t, "a", models.ChoiceReturn)
	f.decide(t, "b", models.ChoiceReturn)
	assert.True(t, f.s.View().WaitingForDecisions, "barrier waits for the automated player")

	require.True(t, f.sched.RunNext())
	assert.Equal(t, models.Snapshot{
		PlayerID:     "bot-1",
		Round:        1,
		PathTreasure: 9,
		Explorers:    3,
	}, seen)
	assert.Equal(t, 3, f.player(t, "bot-1").Treasure)

	f.sched.RunAll(100)
	require.Equal(t, models.PhaseFinished, f.s.Phase())
	assert.Equal(t, "a", f.s.View().WinnerID)

	f.s.Reset()
	v := f.s.View()
	assert.Equal(t, models.PhaseLobby, v.Phase)
	assert.Zero(t, v.Round)
	assert.Empty(t, v.WinnerID)
	require.Len(t, v.Players, 3)
	for i, id := range []string{"a", "b", "bot-1"} {
		p := v.Players[i]
		assert.Equal(t, id, p.ID)
		assert.Zero(t, p.Treasure)
		assert.Zero(t, p.RoundGain)
		assert.Equal(t, models.PlayerWaiting, p.Phase)
		assert.Equal(t, p.Automated, p.Ready)
	}
	_, ok := f.rec.Last(game.EventGameReset)
	assert.True(t, ok)
}

func TestSession_LeaveUnblocksBarrier(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck([]models.Card{models.Treasure(5), models.Treasure(3)}))
	f.seat(t, "a", "b")
	require.NoError(t, f.s.Start())
	require.True(t, f.sched.RunNext())

	f.decide(t, "a", models.ChoiceContinue)
	require.Zero(t, f.sched.Pending())

	require.NoError(t, f.s.Leave("b"))
	_, ok := f.rec.Last(game.EventDecisionsRevealed)
	assert.True(t, ok)
	require.Equal(t, 1, f.sched.Pending())

	require.True(t, f.sched.RunNext())
	v := f.s.View()
	assert.Equal(t, []string{"a"}, v.Explorers)
	assert.True(t, v.WaitingForDecisions)
	assert.Equal(t, []models.Card{models.Treasure(5), models.Treasure(3)}, v.Path)
}

func TestSession_HostLeaveRequiresReady(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck())
	f.seat(t, "a", "b", "c")
	require.True(t, f.s.IsHost("a"))

	require.NoError(t, f.s.Leave("a"))
	assert.True(t, f.s.IsHost("b"))
	assert.False(t, f.player(t, "b").Ready)
	assert.True(t, f.player(t, "c").Ready)
	assert.ErrorIs(t, f.s.Start(), game.ErrPlayersNotReady)

	_, err := f.s.ToggleReady("b")
	require.NoError(t, err)
	assert.NoError(t, f.s.Start())
}

func TestSession_LastPlayerLeavingReturnsToLobby(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck([]models.Card{models.Treasure(5)}))
	f.seat(t, "a", "b")
	require.NoError(t, f.s.Start())
	require.True(t, f.sched.RunNext())

	require.NoError(t, f.s.Leave("a"))
	require.NoError(t, f.s.Leave("b"))
	assert.Equal(t, models.PhaseLobby, f.s.Phase())
	assert.Zero(t, f.s.PlayerCount())

	f.sched.RunAll(10)
	assert.Equal(t, models.PhaseLobby, f.s.Phase())
}

func TestSession_OperationErrors(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck([]models.Card{models.Treasure(5), models.Treasure(5)}))

	require.NoError(t, f.s.Join("a", "player-a"))
	assert.ErrorIs(t, f.s.Join("a", "again"), game.ErrPlayerExists)
	assert.ErrorIs(t, f.s.Start(), game.ErrNotEnoughPlayers)

	require.NoError(t, f.s.Join("b", "player-b"))
	assert.ErrorIs(t, f.s.Start(), game.ErrPlayersNotReady)

	_, err := f.s.ToggleReady("zzz")
	assert.ErrorIs(t, err, game.ErrUnknownPlayer)
	assert.ErrorIs(t, f.s.Leave("zzz"), game.ErrUnknownPlayer)
	assert.ErrorIs(t, f.s.Submit("a", models.ChoiceContinue), game.ErrNoDecisionWindow)

	for _, id := range []string{"a", "b"} {
		_, err := f.s.ToggleReady(id)
		require.NoError(t, err)
	}
	require.NoError(t, f.s.Start())
	assert.ErrorIs(t, f.s.Start(), game.ErrInvalidPhase)
	assert.ErrorIs(t, f.s.Join("c", "late"), game.ErrInvalidPhase)
	_, err = f.s.AddAutomatedPlayer("")
	assert.ErrorIs(t, err, game.ErrInvalidPhase)
	_, err = f.s.ToggleReady("a")
	assert.ErrorIs(t, err, game.ErrInvalidPhase)

	// nothing drawn yet
	assert.ErrorIs(t, f.s.Confirm("a"), game.ErrNoDecisionWindow)

	require.True(t, f.sched.RunNext())
	assert.ErrorIs(t, f.s.Submit("a", models.ChoicePending), game.ErrInvalidChoice)
	assert.ErrorIs(t, f.s.Submit("zzz", models.ChoiceReturn), game.ErrUnknownPlayer)
	assert.ErrorIs(t, f.s.Confirm("a"), game.ErrDecisionPending)

	require.NoError(t, f.s.Submit("a", models.ChoiceReturn))
	require.NoError(t, f.s.Submit("a", models.ChoiceContinue))
	require.NoError(t, f.s.Confirm("a"))
	assert.ErrorIs(t, f.s.Confirm("a"), game.ErrAlreadyConfirmed)
	assert.ErrorIs(t, f.s.Submit("a", models.ChoiceReturn), game.ErrAlreadyConfirmed)

	f.decide(t, "b", models.ChoiceContinue)
	assert.Zero(t, f.player(t, "a").Treasure, "changed mind to continue")
}

func TestSession_ResetDropsScheduledSteps(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck([]models.Card{models.Treasure(5)}))
	f.seat(t, "a", "b")
	require.NoError(t, f.s.Start())
	f.s.Reset()

	f.sched.RunAll(10)
	assert.Empty(t, f.rec.OfKind(game.EventCardRevealed))
	assert.Equal(t, models.PhaseLobby, f.s.Phase())
}

func TestSession_EventsAreSequenced(t *testing.T) {
	f := setup(t, testutil.NewScriptedDeck([]models.Card{models.Treasure(5), models.Hazard(models.HazardRocks), models.Hazard(models.HazardRocks)}))
	f.seat(t, "a", "b")
	require.NoError(t, f.s.Start())
	require.True(t, f.sched.RunNext())
	f.decide(t, "a", models.ChoiceContinue)
	f.decide(t, "b", models.ChoiceContinue)
	f.sched.RunAll(100)

	events := f.rec.Events()
	require.NotEmpty(t, events)
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq)
		assert.Equal(t, "TEST01", ev.Room)
	}
}

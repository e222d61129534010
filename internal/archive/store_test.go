package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(" ")
	assert.Error(t, err)
}

func TestStore_LeaderboardAggregates(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.RecordGame(ctx, Game{
		Room: "ROOM01", Rounds: 5, WinnerID: "a1", WinnerName: "Ana",
		Players: []models.Player{
			{ID: "a1", Name: "Ana", Treasure: 30},
			{ID: "b1", Name: "Ben", Treasure: 12},
		},
	})
	require.NoError(t, err)
	_, err = s.RecordGame(ctx, Game{
		Room: "ROOM02", Rounds: 5, WinnerID: "b2", WinnerName: "Ben",
		Players: []models.Player{
			{ID: "a2", Name: "Ana", Treasure: 8},
			{ID: "b2", Name: "Ben", Treasure: 40},
			{ID: "bot", Name: "Bot 1", Automated: true, Treasure: 3},
		},
	})
	require.NoError(t, err)

	board, err := s.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []Standing{
		{Name: "Ben", Games: 2, Wins: 1, TotalTreasure: 52, BestTreasure: 40},
		{Name: "Ana", Games: 2, Wins: 1, TotalTreasure: 38, BestTreasure: 30},
		{Name: "Bot 1", Games: 1, Wins: 0, TotalTreasure: 3, BestTreasure: 3},
	}, board)

	n, err := s.CountGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_NotifyRecordsFinishedGames(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	s.Notify(game.Event{Room: "ROOM01", Kind: game.EventRoundEnded, Payload: game.RoundEndedPayload{Round: 1}})
	s.Notify(game.Event{Room: "ROOM01", Kind: game.EventGameFinished, Payload: game.GameFinishedPayload{
		WinnerID: "a", WinnerName: "Ana", Rounds: 5,
		Standings: []models.Player{{ID: "a", Name: "Ana", Treasure: 21}, {ID: "b", Name: "Ben", Treasure: 4}},
	}})

	n, err := s.CountGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	board, err := s.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "Ana", board[0].Name)
	assert.Equal(t, 1, board[0].Wins)
}

func TestStore_RecordGameRequiresRoom(t *testing.T) {
	s := openTestStore(t)
	_, err := s.RecordGame(context.Background(), Game{})
	assert.Error(t, err)
}

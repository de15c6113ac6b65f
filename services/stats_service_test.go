package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStatsAfterPlay(t *testing.T) {
	env := newTestEnv(t)
	created := env.createGame(t, 10)

	_, err := env.svc.FinishClassicGame(context.Background(), &FinishGameRequest{
		GameID:       created.GameID,
		CallerUserID: "u2",
		UserGuesses:  guessesFor(created.Images, 8),
	})
	require.NoError(t, err)

	stats := NewStatsService(env.users)

	userStats, err := stats.GetUserStats(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, 80, userStats.AverageAccuracy)
	assert.EqualValues(t, 1, userStats.ChallengesCompleted)
	assert.Equal(t, 80, userStats.Score)
	assert.Equal(t, 1, userStats.GamesWon)
	assert.EqualValues(t, 1, userStats.CurrentRank)

	// u1 has no score yet and ranks below u2.
	u1Stats, err := stats.GetUserStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, u1Stats.CurrentRank)

	_, err = stats.GetUserStats(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLeaderboardOrdering(t *testing.T) {
	env := newTestEnv(t)
	stats := NewStatsService(env.users)

	gameA := env.createGame(t, 4)
	_, err := env.svc.FinishClassicGame(context.Background(), &FinishGameRequest{
		GameID:       gameA.GameID,
		CallerUserID: "u1",
		UserGuesses:  guessesFor(gameA.Images, 2),
	})
	require.NoError(t, err)

	gameB := env.createGame(t, 4)
	_, err = env.svc.FinishClassicGame(context.Background(), &FinishGameRequest{
		GameID:       gameB.GameID,
		CallerUserID: "u2",
		UserGuesses:  guessesFor(gameB.Images, 4),
	})
	require.NoError(t, err)

	players, err := stats.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "u2", players[0].UserID)
	assert.Equal(t, 40, players[0].Score)
	assert.Equal(t, 100, players[0].Accuracy)
	assert.Equal(t, "u1", players[1].UserID)
	assert.Equal(t, 50, players[1].Accuracy)
}

package services

import (
	"context"
	"math"

	"realguess/repository"
)

// StatsService applies completed-session results to user aggregates and
// serves the dashboard read side.
type StatsService struct {
	users *repository.UserRepository
}

func NewStatsService(users *repository.UserRepository) *StatsService {
	return &StatsService{users: users}
}

type UserStats struct {
	AverageAccuracy     int   `json:"averageAccuracy"`
	ChallengesCompleted int64 `json:"challengesCompleted"`
	CurrentRank         int64 `json:"currentRank"`
	Score               int   `json:"score"`
	GamesWon            int   `json:"gamesWon"`
}

type LeaderboardPlayer struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Accuracy int    `json:"accuracy"`
}

// ApplyGameResult adds a finished game's score to the user's aggregates.
// A game counts as won when at least one guess was correct.
func (s *StatsService) ApplyGameResult(ctx context.Context, userID string, score int, won bool) error {
	return s.users.ApplyGameResult(ctx, userID, score, won)
}

func (s *StatsService) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	total, correct, err := s.users.GuessCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.users.CompletedSessionCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	rank, err := s.users.Rank(ctx, user.Score)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		AverageAccuracy:     accuracyPercent(total, correct),
		ChallengesCompleted: completed,
		CurrentRank:         rank,
		Score:               user.Score,
		GamesWon:            user.GamesWon,
	}, nil
}

// Leaderboard returns the top 10 users by aggregate score.
func (s *StatsService) Leaderboard(ctx context.Context) ([]LeaderboardPlayer, error) {
	top, err := s.users.TopByScore(ctx, 10)
	if err != nil {
		return nil, err
	}

	players := make([]LeaderboardPlayer, 0, len(top))
	for i, user := range top {
		total, correct, err := s.users.GuessCounts(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		players = append(players, LeaderboardPlayer{
			Rank:     i + 1,
			UserID:   user.ID,
			Username: user.Username,
			Score:    user.Score,
			Accuracy: accuracyPercent(total, correct),
		})
	}
	return players, nil
}

func accuracyPercent(total, correct int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

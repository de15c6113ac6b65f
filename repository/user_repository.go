package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"realguess/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) ByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ApplyGameResult folds one completed session into the user's aggregate
// counters. Increments run in SQL so concurrent completions for different
// games never lose updates.
func (r *UserRepository) ApplyGameResult(ctx context.Context, userID string, score int, won bool) error {
	updates := map[string]interface{}{
		"score":         gorm.Expr("score + ?", score),
		"games_started": gorm.Expr("games_started + 1"),
	}
	if won {
		updates["games_won"] = gorm.Expr("games_won + 1")
	}
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

// GuessCounts returns the user's lifetime total and correct guess counts.
func (r *UserRepository) GuessCounts(ctx context.Context, userID string) (total int64, correct int64, err error) {
	err = r.db.WithContext(ctx).Model(&models.UserGuess{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.UserGuess{}).
		Where("user_id = ? AND is_correct = ?", userID, true).
		Count(&correct).Error
	if err != nil {
		return 0, 0, err
	}
	return total, correct, nil
}

func (r *UserRepository) CompletedSessionCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserGameSession{}).
		Where("user_id = ? AND status = ?", userID, models.SessionStatusCompleted).
		Count(&count).Error
	return count, err
}

// Rank is 1 + the number of users with a strictly higher score.
func (r *UserRepository) Rank(ctx context.Context, score int) (int64, error) {
	var above int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("score > ?", score).
		Count(&above).Error
	return above + 1, err
}

func (r *UserRepository) TopByScore(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("score DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

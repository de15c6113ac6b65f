package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"realguess/catalog"
	"realguess/models"
)

// codeAttempts bounds the regenerate-on-collision loop for join codes.
const codeAttempts = 10

// GameRepository is the durable store for games, codes, sessions and
// guesses. Uniqueness invariants (one code per game, one session per
// (game, user) pair) are enforced here at the database level.
type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// CreateGameWithImages persists a game, its fixed image set and its join
// code in one transaction, so a timed-out creation never leaves a
// half-created game. newCode is called again whenever the generated code
// collides with an existing one.
func (r *GameRepository) CreateGameWithImages(ctx context.Context, game *models.Game, imageIDs []uint, newCode func() string) (string, error) {
	var code string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(game).Error; err != nil {
			return err
		}

		gameImages := make([]models.GameImage, len(imageIDs))
		for i, id := range imageIDs {
			gameImages[i] = models.GameImage{GameID: game.ID, ImageID: id}
		}
		if len(gameImages) > 0 {
			if err := tx.Create(&gameImages).Error; err != nil {
				return err
			}
		}

		for attempt := 0; attempt < codeAttempts; attempt++ {
			candidate := newCode()
			err := tx.Create(&models.GameCode{Code: candidate, GameID: game.ID}).Error
			if err == nil {
				code = candidate
				return nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
		}
		return errors.New("could not allocate a unique game code")
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func (r *GameRepository) GameByID(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

func (r *GameRepository) GameByCode(ctx context.Context, code string) (*models.Game, error) {
	var gameCode models.GameCode
	err := r.db.WithContext(ctx).First(&gameCode, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.GameByID(ctx, gameCode.GameID)
}

func (r *GameRepository) CodeForGame(ctx context.Context, gameID string) (string, error) {
	var gameCode models.GameCode
	err := r.db.WithContext(ctx).First(&gameCode, "game_id = ?", gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return gameCode.Code, nil
}

// MarkGameExpired flips an active game to expired. The status guard keeps
// the transition monotonic: a cancelled game never becomes expired.
func (r *GameRepository) MarkGameExpired(ctx context.Context, gameID string) error {
	return r.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND status = ?", gameID, models.GameStatusActive).
		Update("status", models.GameStatusExpired).Error
}

// UpdateGameExpiry moves a game's expiry horizon and cascades the new
// window end to the backing competition in the same transaction.
func (r *GameRepository) UpdateGameExpiry(ctx context.Context, gameID string, expiry time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Game{}).
			Where("id = ?", gameID).
			Update("expires_at", expiry).Error; err != nil {
			return err
		}
		return tx.Model(&models.Competition{}).
			Where("game_id = ?", gameID).
			Update("end_time", expiry).Error
	})
}

// GameImages returns the fixed image set assigned to a game, joined back to
// the catalog for locators and true categories.
func (r *GameRepository) GameImages(ctx context.Context, gameID string) ([]catalog.Ref, error) {
	var refs []catalog.Ref
	err := r.db.WithContext(ctx).
		Table("game_images").
		Select("images.id AS id, images.path AS url, images.type AS type").
		Joins("JOIN images ON images.id = game_images.image_id").
		Where("game_images.game_id = ?", gameID).
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *GameRepository) SessionFor(ctx context.Context, gameID, userID string) (*models.UserGameSession, error) {
	var session models.UserGameSession
	err := r.db.WithContext(ctx).
		First(&session, "game_id = ? AND user_id = ?", gameID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// CreateSession inserts a session row. A second session for the same
// (game, user) pair fails with gorm.ErrDuplicatedKey from the composite
// unique index; callers map that to their conflict error.
func (r *GameRepository) CreateSession(ctx context.Context, session *models.UserGameSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// CompleteSession finalizes a session only if it is still active. The
// conditional update serializes concurrent finish calls: exactly one caller
// observes true and applies scoring side effects.
func (r *GameRepository) CompleteSession(ctx context.Context, session *models.UserGameSession) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.UserGameSession{}).
		Where("id = ? AND status = ?", session.ID, models.SessionStatusActive).
		Updates(map[string]interface{}{
			"status":          models.SessionStatusCompleted,
			"completion_time": session.CompletionTime,
			"final_score":     session.FinalScore,
			"correct_guesses": session.CorrectGuesses,
			"total_guesses":   session.TotalGuesses,
			"time_taken":      session.TimeTaken,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SaveGuess persists a guess and, when present, its feedback annotation
// atomically.
func (r *GameRepository) SaveGuess(ctx context.Context, guess *models.UserGuess, feedback *models.GuessFeedback) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(guess).Error; err != nil {
			return err
		}
		if feedback != nil {
			feedback.GuessID = guess.ID
			if err := tx.Create(feedback).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RandomActiveGame draws uniformly among games that are active and not past
// their expiry. Returns nil when no game qualifies.
func (r *GameRepository) RandomActiveGame(ctx context.Context, now time.Time) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).
		Where("status = ? AND (expires_at IS NULL OR expires_at > ?)", models.GameStatusActive, now).
		Order("RANDOM()").
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"realguess/models"
)

type CompetitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

// Create inserts a competition row. The unique index on game_id rejects a
// second competition for the same game with gorm.ErrDuplicatedKey.
func (r *CompetitionRepository) Create(ctx context.Context, competition *models.Competition) error {
	return r.db.WithContext(ctx).Create(competition).Error
}

func (r *CompetitionRepository) ByID(ctx context.Context, id uint) (*models.Competition, error) {
	var competition models.Competition
	err := r.db.WithContext(ctx).First(&competition, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &competition, nil
}

func (r *CompetitionRepository) ByGameID(ctx context.Context, gameID string) (*models.Competition, error) {
	var competition models.Competition
	err := r.db.WithContext(ctx).First(&competition, "game_id = ?", gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &competition, nil
}

func (r *CompetitionRepository) All(ctx context.Context) ([]models.Competition, error) {
	var competitions []models.Competition
	err := r.db.WithContext(ctx).Order("start_time DESC").Find(&competitions).Error
	return competitions, err
}

func (r *CompetitionRepository) SubmitScore(ctx context.Context, entry *models.CompetitionEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// TopEntry returns the highest-scoring entry with its user, or nil when the
// competition has no entries yet.
func (r *CompetitionRepository) TopEntry(ctx context.Context, competitionID uint) (*models.CompetitionEntry, error) {
	var entry models.CompetitionEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("competition_id = ?", competitionID).
		Order("score DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

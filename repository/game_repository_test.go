package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"realguess/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Image{},
		&models.Game{},
		&models.GameImage{},
		&models.GameCode{},
		&models.UserGameSession{},
		&models.UserGuess{},
		&models.GuessFeedback{},
		&models.Competition{},
		&models.CompetitionEntry{},
	))
	return db
}

func seedImages(t *testing.T, db *gorm.DB, count int) []uint {
	t.Helper()
	ids := make([]uint, count)
	for i := 0; i < count; i++ {
		img := models.Image{
			Path:       fmt.Sprintf("img_%02d.jpg", i),
			Type:       models.ImageTypeReal,
			UploadedAt: time.Now(),
		}
		require.NoError(t, db.Create(&img).Error)
		ids[i] = img.ID
	}
	return ids
}

func newGame(userID string) *models.Game {
	return &models.Game{
		ID:        uuid.NewString(),
		Mode:      "classic",
		Board:     "classic",
		Status:    models.GameStatusActive,
		CreatedBy: userID,
	}
}

func TestCreateGameWithImagesRetriesCodeCollision(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)
	imageIDs := seedImages(t, db, 2)

	// First game takes code "collided".
	codes := []string{"collided"}
	next := func() string {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code
	}
	_, err := repo.CreateGameWithImages(context.Background(), newGame("u1"), imageIDs, next)
	require.NoError(t, err)

	// Second game first generates the same code, then a fresh one.
	codes = []string{"collided", "fresh123"}
	code, err := repo.CreateGameWithImages(context.Background(), newGame("u1"), imageIDs, next)
	require.NoError(t, err)
	assert.Equal(t, "fresh123", code)
}

func TestGameByCode(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)
	imageIDs := seedImages(t, db, 3)

	game := newGame("u1")
	code, err := repo.CreateGameWithImages(context.Background(), game, imageIDs, func() string { return "abcd1234" })
	require.NoError(t, err)

	found, err := repo.GameByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, game.ID, found.ID)

	missing, err := repo.GameByCode(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	refs, err := repo.GameImages(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Len(t, refs, 3)
}

func TestCreateSessionEnforcesUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)

	game := newGame("u1")
	_, err := repo.CreateGameWithImages(context.Background(), game, nil, func() string { return "abcd1234" })
	require.NoError(t, err)

	first := &models.UserGameSession{
		ID:        uuid.NewString(),
		GameID:    game.ID,
		UserID:    "u2",
		Status:    models.SessionStatusActive,
		StartTime: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateSession(context.Background(), first))

	second := &models.UserGameSession{
		ID:        uuid.NewString(),
		GameID:    game.ID,
		UserID:    "u2",
		Status:    models.SessionStatusActive,
		StartTime: time.Now().UTC(),
	}
	err = repo.CreateSession(context.Background(), second)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCompleteSessionRunsOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)

	game := newGame("u1")
	_, err := repo.CreateGameWithImages(context.Background(), game, nil, func() string { return "abcd1234" })
	require.NoError(t, err)

	session := &models.UserGameSession{
		ID:        uuid.NewString(),
		GameID:    game.ID,
		UserID:    "u2",
		Status:    models.SessionStatusActive,
		StartTime: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateSession(context.Background(), session))

	now := time.Now().UTC()
	session.CompletionTime = &now
	session.FinalScore = 50
	session.CorrectGuesses = 5
	session.TotalGuesses = 6

	won, err := repo.CompleteSession(context.Background(), session)
	require.NoError(t, err)
	assert.True(t, won)

	// The conditional update is what serializes concurrent finishes.
	won, err = repo.CompleteSession(context.Background(), session)
	require.NoError(t, err)
	assert.False(t, won)

	stored, err := repo.SessionFor(context.Background(), game.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, stored.Status)
	assert.Equal(t, 50, stored.FinalScore)
}

func TestMarkGameExpiredIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)

	game := newGame("u1")
	game.Status = models.GameStatusCancelled
	_, err := repo.CreateGameWithImages(context.Background(), game, nil, func() string { return "abcd1234" })
	require.NoError(t, err)

	require.NoError(t, repo.MarkGameExpired(context.Background(), game.ID))

	stored, err := repo.GameByID(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusCancelled, stored.Status)
}

func TestRandomActiveGameSkipsExpiredAndInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)
	now := time.Now().UTC()

	none, err := repo.RandomActiveGame(context.Background(), now)
	require.NoError(t, err)
	assert.Nil(t, none)

	past := now.Add(-time.Hour)
	expired := newGame("u1")
	expired.ExpiresAt = &past
	_, err = repo.CreateGameWithImages(context.Background(), expired, nil, func() string { return "11111111" })
	require.NoError(t, err)

	cancelled := newGame("u1")
	cancelled.Status = models.GameStatusCancelled
	_, err = repo.CreateGameWithImages(context.Background(), cancelled, nil, func() string { return "22222222" })
	require.NoError(t, err)

	future := now.Add(time.Hour)
	playable := newGame("u1")
	playable.ExpiresAt = &future
	_, err = repo.CreateGameWithImages(context.Background(), playable, nil, func() string { return "33333333" })
	require.NoError(t, err)

	drawn, err := repo.RandomActiveGame(context.Background(), now)
	require.NoError(t, err)
	require.NotNil(t, drawn)
	assert.Equal(t, playable.ID, drawn.ID)
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"realguess/cache"
	"realguess/catalog"
	"realguess/handlers"
	"realguess/models"
	"realguess/repository"
	"realguess/routes"
	"realguess/services"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	for i := 0; i < 10; i++ {
		require.NoError(t, db.Create(&models.Image{
			Path: fmt.Sprintf("real_%02d.jpg", i), Type: models.ImageTypeReal, UploadedAt: time.Now(),
		}).Error)
		require.NoError(t, db.Create(&models.Image{
			Path: fmt.Sprintf("ai_%02d.jpg", i), Type: models.ImageTypeAI, UploadedAt: time.Now(),
		}).Error)
	}
	for _, id := range []string{"u1", "u2"} {
		require.NoError(t, db.Create(&models.User{ID: id, Username: "user-" + id, Level: 1}).Error)
	}

	gameRepo := repository.NewGameRepository(db)
	userRepo := repository.NewUserRepository(db)
	competitionRepo := repository.NewCompetitionRepository(db)
	imageCatalog := catalog.NewDBCatalog(db)

	statsService := services.NewStatsService(userRepo)
	gameService := services.NewGameService(db, gameRepo, userRepo, imageCatalog, cache.NewMemoryCache(), 24*time.Hour)
	competitionService := services.NewCompetitionService(db, gameRepo, competitionRepo, userRepo, imageCatalog, 24*time.Hour)
	authService := services.NewAuthService(userRepo, "test-secret")

	router := gin.New()
	routes.SetupRoutes(router,
		handlers.NewAuthHandler(authService),
		handlers.NewGameHandler(gameService),
		handlers.NewAdminHandler(competitionService),
		handlers.NewCompetitionHandler(competitionService),
		handlers.NewUserHandler(statsService),
		"test-secret",
	)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if raw := w.Body.Bytes(); len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return w, parsed
}

func TestClassicGameFlow(t *testing.T) {
	router := setupTestRouter(t)

	// Create a 10-image game.
	w, created := doJSON(t, router, "POST", "/game/initialize-classic-game", gin.H{
		"imageCount":   10,
		"callerUserId": "u1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", created["status"])
	assert.Len(t, created["gameCode"], 8)

	images := created["images"].([]interface{})
	require.Len(t, images, 10)

	// Join with a second user.
	w, joined := doJSON(t, router, "POST", "/game/join", gin.H{
		"gameCode":     created["gameCode"],
		"callerUserId": "u2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, created["gameId"], joined["gameId"])
	assert.NotEmpty(t, joined["sessionId"])

	// A second join for the same pair conflicts.
	w, _ = doJSON(t, router, "POST", "/game/join", gin.H{
		"gameCode":     created["gameCode"],
		"callerUserId": "u2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Finish with 7 correct guesses out of 10.
	guesses := make([]gin.H, 0, 10)
	for i, raw := range images {
		img := raw.(map[string]interface{})
		guess := img["type"].(string)
		if i >= 7 {
			if guess == "real" {
				guess = "ai"
			} else {
				guess = "real"
			}
		}
		guesses = append(guesses, gin.H{"url": img["url"], "guess": guess})
	}

	w, finished := doJSON(t, router, "POST", "/game/finish-classic-game", gin.H{
		"gameId":       created["gameId"],
		"callerUserId": "u2",
		"userGuesses":  guesses,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 70, finished["score"])
	assert.EqualValues(t, 7, finished["correctGuesses"])
	assert.EqualValues(t, 10, finished["totalGuesses"])

	// The user's aggregate score moved by exactly the final score.
	w, stats := doJSON(t, router, "GET", "/users/u2/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 70, stats["score"])
	assert.EqualValues(t, 1, stats["challengesCompleted"])

	// Finishing again returns the stored result, not a rescore.
	w, again := doJSON(t, router, "POST", "/game/finish-classic-game", gin.H{
		"gameId":       created["gameId"],
		"callerUserId": "u2",
		"userGuesses":  guesses,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 70, again["score"])

	w, stats = doJSON(t, router, "GET", "/users/u2/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 70, stats["score"])
}

func TestJoinErrors(t *testing.T) {
	router := setupTestRouter(t)

	// Unknown code.
	w, _ := doJSON(t, router, "POST", "/game/join", gin.H{
		"gameCode":     "deadbeef",
		"callerUserId": "u1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Missing fields.
	w, _ = doJSON(t, router, "POST", "/game/join", gin.H{"gameCode": "deadbeef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInitializeValidation(t *testing.T) {
	router := setupTestRouter(t)

	// Missing image count.
	w, _ := doJSON(t, router, "POST", "/game/initialize-classic-game", gin.H{"callerUserId": "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// More images than the catalog holds.
	w, body := doJSON(t, router, "POST", "/game/initialize-classic-game", gin.H{
		"imageCount":   500,
		"callerUserId": "u1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "not enough images")
}

func TestFetchGameByCode(t *testing.T) {
	router := setupTestRouter(t)

	w, created := doJSON(t, router, "POST", "/game/initialize-classic-game", gin.H{
		"imageCount":   4,
		"callerUserId": "u1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, fetched := doJSON(t, router, "GET", "/game/"+created["gameCode"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created["gameId"], fetched["gameId"])
	assert.Len(t, fetched["images"], 4)

	w, _ = doJSON(t, router, "GET", "/game/unknown-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCreateGameRequiresAuth(t *testing.T) {
	router := setupTestRouter(t)

	w, _ := doJSON(t, router, "POST", "/admin/createGame", gin.H{
		"mode":         "dual",
		"board":        "dual",
		"callerUserId": "u1",
		"imageRefs":    []string{"real_00.jpg"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminCreateGameWithToken(t *testing.T) {
	router := setupTestRouter(t)

	// Register to obtain a token.
	w, registered := doJSON(t, router, "POST", "/auth/register", gin.H{
		"username": "admin-user",
		"password": "super-secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := registered["token"].(string)
	adminID := registered["user"].(map[string]interface{})["id"].(string)

	body, err := json.Marshal(gin.H{
		"mode":         "dual",
		"board":        "dual",
		"name":         "launch event",
		"callerUserId": adminID,
		"imageRefs":    []string{"real_00.jpg", "ai_00.jpg"},
	})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/admin/createGame", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result["gameId"])
	assert.Len(t, result["gameCode"], 8)

	// The linked competition is visible on the public surface.
	w, _ = doJSON(t, router, "GET", "/competitions", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

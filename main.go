package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"realguess/cache"
	"realguess/catalog"
	"realguess/config"
	"realguess/handlers"
	"realguess/logger"
	"realguess/middleware"
	"realguess/models"
	"realguess/repository"
	"realguess/routes"
	"realguess/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	if err := logger.Init(os.Getenv("GIN_MODE") == "release"); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
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
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize repositories and collaborators
	gameRepo := repository.NewGameRepository(db)
	userRepo := repository.NewUserRepository(db)
	competitionRepo := repository.NewCompetitionRepository(db)
	imageCatalog := catalog.NewDBCatalog(db)
	sessionCache := cache.NewRedisCache(redisClient, time.Duration(cfg.Game.CacheTTLHours)*time.Hour)

	// Initialize services
	expiry := time.Duration(cfg.Game.ExpiryHours) * time.Hour
	statsService := services.NewStatsService(userRepo)
	gameService := services.NewGameService(db, gameRepo, userRepo, imageCatalog, sessionCache, expiry)
	competitionService := services.NewCompetitionService(db, gameRepo, competitionRepo, userRepo, imageCatalog, expiry)
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService)
	adminHandler := handlers.NewAdminHandler(competitionService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService)
	userHandler := handlers.NewUserHandler(statsService)

	// Setup Gin router
	router := gin.New()
	router.Use(logger.GinLogger(), logger.GinRecovery(), middleware.CORS())

	routes.SetupRoutes(router, authHandler, gameHandler, adminHandler, competitionHandler, userHandler, cfg.Auth.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realguess/handlers"
	"realguess/middleware"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	adminHandler *handlers.AdminHandler,
	competitionHandler *handlers.CompetitionHandler,
	userHandler *handlers.UserHandler,
	jwtSecret string,
) {
	// Auth routes (public)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
	router.GET("/auth/profile", middleware.AuthMiddleware(jwtSecret), authHandler.GetProfile)

	// Game routes. Caller identity arrives pre-verified in the request body.
	game := router.Group("/game")
	{
		game.POST("/initialize-classic-game", gameHandler.InitializeClassicGame)
		game.POST("/join", gameHandler.JoinGame)
		game.POST("/random", gameHandler.JoinRandomGame)
		game.POST("/finish-classic-game", gameHandler.FinishClassicGame)
		game.GET("/:idOrCode", gameHandler.GetGame)
	}

	// Competition routes (public reads, score submission)
	competitions := router.Group("/competitions")
	{
		competitions.GET("", competitionHandler.List)
		competitions.GET("/:id", competitionHandler.Get)
		competitions.POST("/submit", competitionHandler.SubmitScore)
	}

	// User stats
	router.GET("/users/:id/stats", userHandler.GetStats)
	router.GET("/leaderboard", userHandler.Leaderboard)

	// Admin routes (token required)
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret))
	{
		admin.POST("/createGame", adminHandler.CreateGame)
		admin.PUT("/games/:id/expiry", adminHandler.UpdateGameExpiry)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

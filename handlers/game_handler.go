package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realguess/services"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) InitializeClassicGame(c *gin.Context) {
	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "status": "error"})
		return
	}

	result, err := h.gameService.InitializeClassicGame(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId":   result.GameID,
		"gameCode": result.GameCode,
		"images":   result.Images,
		"status":   "success",
	})
}

func (h *GameHandler) JoinGame(c *gin.Context) {
	var req services.JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "status": "error"})
		return
	}

	result, err := h.gameService.JoinByCode(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId":    result.GameID,
		"sessionId": result.SessionID,
		"images":    result.Images,
		"status":    "success",
	})
}

func (h *GameHandler) JoinRandomGame(c *gin.Context) {
	var req services.RandomJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "status": "error"})
		return
	}

	result, err := h.gameService.JoinRandom(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId":    result.GameID,
		"sessionId": result.SessionID,
		"images":    result.Images,
		"status":    "success",
	})
}

func (h *GameHandler) FinishClassicGame(c *gin.Context) {
	var req services.FinishGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "status": "error"})
		return
	}

	result, err := h.gameService.FinishClassicGame(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"score":          result.Score,
		"correctGuesses": result.CorrectGuesses,
		"totalGuesses":   result.TotalGuesses,
		"timeTaken":      result.TimeTaken,
		"status":         "success",
	})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	idOrCode := c.Param("idOrCode")
	if idOrCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game id or code required", "status": "error"})
		return
	}

	details, err := h.gameService.GetGame(c.Request.Context(), idOrCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

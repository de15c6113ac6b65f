package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"realguess/services"
)

type AdminHandler struct {
	competitionService *services.CompetitionService
}

func NewAdminHandler(competitionService *services.CompetitionService) *AdminHandler {
	return &AdminHandler{competitionService: competitionService}
}

// CreateGame creates a game from an explicit image set and wraps it in a
// competition.
func (h *AdminHandler) CreateGame(c *gin.Context) {
	var req services.CreateLinkedGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "status": "error"})
		return
	}

	result, err := h.competitionService.CreateLinkedGame(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"gameId":        result.GameID,
		"gameCode":      result.GameCode,
		"competitionId": result.CompetitionID,
		"status":        "success",
	})
}

type updateExpiryRequest struct {
	ExpiresAt time.Time `json:"expiresAt" binding:"required"`
}

// UpdateGameExpiry moves a game's expiry; the backing competition window
// follows in the same transaction.
func (h *AdminHandler) UpdateGameExpiry(c *gin.Context) {
	gameID := c.Param("id")

	var req updateExpiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "status": "error"})
		return
	}

	if err := h.competitionService.UpdateGameExpiry(c.Request.Context(), gameID, req.ExpiresAt); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

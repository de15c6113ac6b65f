package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realguess/services"
)

type UserHandler struct {
	statsService *services.StatsService
}

func NewUserHandler(statsService *services.StatsService) *UserHandler {
	return &UserHandler{statsService: statsService}
}

func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetUserStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) Leaderboard(c *gin.Context) {
	players, err := h.statsService.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realguess/catalog"
	"realguess/services"
)

// statusFor maps the service error taxonomy onto HTTP statuses: lookups to
// 404, invariant collisions to 409, rejected-but-well-formed requests to
// 400, everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCompetitionNotFound),
		errors.Is(err, services.ErrNoPlayableGames):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSessionAlreadyActive),
		errors.Is(err, services.ErrAlreadyPlayed),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrCompetitionExists):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrInsufficientImages),
		errors.Is(err, services.ErrImagesNotFound),
		errors.Is(err, services.ErrGameNotActive),
		errors.Is(err, services.ErrGameExpired):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Storage internals stay out of responses.
		message = "unexpected storage failure"
	}
	c.JSON(status, gin.H{"error": message, "status": "error"})
}

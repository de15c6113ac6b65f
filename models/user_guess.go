package models

import "time"

// UserGuess is append-only: rows accumulate while a session is active and
// are never revised after completion.
type UserGuess struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	SessionID   string    `json:"session_id" gorm:"size:36;not null;index"`
	ImageID     uint      `json:"image_id" gorm:"not null"`
	UserID      string    `json:"user_id" gorm:"size:128;not null;index"`
	GuessType   string    `json:"guess_type" gorm:"size:50;not null"` // real, ai
	IsCorrect   bool      `json:"is_correct" gorm:"not null"`
	SubmittedAt time.Time `json:"submitted_at"`
	TimeTaken   int       `json:"time_taken" gorm:"not null;default:0"` // seconds

	// Relationships
	Session UserGameSession `json:"session,omitempty"`
	Image   Image           `json:"image,omitempty"`
}

package models

import "time"

// GuessFeedback is an annotation a user attached to a guess: free-text plus
// a flagged point on the image. It is never scored.
type GuessFeedback struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	GuessID   string    `json:"guess_id" gorm:"size:36;not null;index"`
	X         int       `json:"x" gorm:"not null"`
	Y         int       `json:"y" gorm:"not null"`
	Message   string    `json:"message" gorm:"size:255"`
	Resolved  bool      `json:"resolved" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Guess UserGuess `json:"guess,omitempty"`
}

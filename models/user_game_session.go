package models

import "time"

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusAbandoned = "abandoned"
)

// UserGameSession is one user's attempt at one game. The composite unique
// index on (game_id, user_id) is what serializes concurrent joins: the
// database admits exactly one row per pair no matter how many requests race.
type UserGameSession struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	GameID         string     `json:"game_id" gorm:"size:36;not null;uniqueIndex:idx_sessions_game_user"`
	UserID         string     `json:"user_id" gorm:"size:128;not null;uniqueIndex:idx_sessions_game_user"`
	Status         string     `json:"status" gorm:"not null;default:'active'"` // active, completed, abandoned
	StartTime      time.Time  `json:"start_time"`
	CompletionTime *time.Time `json:"completion_time"`
	FinalScore     int        `json:"final_score" gorm:"not null;default:0"`
	CorrectGuesses int        `json:"correct_guesses" gorm:"not null;default:0"`
	TotalGuesses   int        `json:"total_guesses" gorm:"not null;default:0"`
	TimeTaken      int        `json:"time_taken" gorm:"not null;default:0"` // seconds
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	Game    Game        `json:"game,omitempty"`
	Guesses []UserGuess `json:"guesses,omitempty" gorm:"foreignKey:SessionID"`
}

package models

import "time"

// GameCode is the short shareable token that resolves to exactly one game.
// A game has at most one code, created atomically with the game itself.
type GameCode struct {
	Code      string    `json:"code" gorm:"primaryKey;size:8"`
	GameID    string    `json:"game_id" gorm:"size:36;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Game Game `json:"game,omitempty"`
}

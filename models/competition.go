package models

import "time"

// Competition wraps a game for time-boxed competitive play. Its
// (start_time, end_time) window always mirrors the backing game's
// (created_at, expires_at); the unique index on game_id keeps a game from
// backing more than one competition.
type Competition struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	GameID    string    `json:"game_id" gorm:"size:36;not null;uniqueIndex"`
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Game    Game               `json:"game,omitempty"`
	Entries []CompetitionEntry `json:"entries,omitempty" gorm:"foreignKey:CompetitionID"`
}

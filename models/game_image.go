package models

import "time"

// GameImage pins one image into a game's fixed image set. Rows are written
// once at game creation and never mutated afterwards.
type GameImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    string    `json:"game_id" gorm:"size:36;not null;uniqueIndex:idx_game_images_game_image"`
	ImageID   uint      `json:"image_id" gorm:"not null;uniqueIndex:idx_game_images_game_image"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Game  Game  `json:"game,omitempty"`
	Image Image `json:"image,omitempty"`
}

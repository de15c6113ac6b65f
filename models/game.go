package models

import (
	"time"
)

const (
	GameStatusActive    = "active"
	GameStatusExpired   = "expired"
	GameStatusCancelled = "cancelled"
)

type Game struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	Mode      string     `json:"mode" gorm:"not null;default:'classic'"`
	Board     string     `json:"board" gorm:"not null;default:'classic'"`
	Status    string     `json:"status" gorm:"not null;default:'active'"` // active, expired, cancelled
	CreatedBy string     `json:"created_by" gorm:"size:128;not null"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at"`

	// Relationships
	Images   []GameImage       `json:"images,omitempty" gorm:"foreignKey:GameID"`
	Code     *GameCode         `json:"code,omitempty" gorm:"foreignKey:GameID"`
	Sessions []UserGameSession `json:"sessions,omitempty" gorm:"foreignKey:GameID"`
}

// Expired reports whether the game's expiry horizon has passed. Games
// without an expiry never expire.
func (g *Game) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && now.After(*g.ExpiresAt)
}

package models

import "time"

type CompetitionEntry struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CompetitionID uint      `json:"competition_id" gorm:"not null;index"`
	UserID        string    `json:"user_id" gorm:"size:128;not null"`
	Score         int       `json:"score" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Competition Competition `json:"competition,omitempty"`
	User        User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

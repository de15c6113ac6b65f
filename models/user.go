package models

import "time"

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:128"`
	Username     string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255"`
	Level        int       `json:"level" gorm:"not null;default:1"`
	Exp          int       `json:"exp" gorm:"not null;default:0"`
	GamesStarted int       `json:"games_started" gorm:"not null;default:0"`
	GamesWon     int       `json:"games_won" gorm:"not null;default:0"`
	Score        int       `json:"score" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

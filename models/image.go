package models

import "time"

const (
	ImageTypeReal = "real"
	ImageTypeAI   = "ai"
)

type Image struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Path       string    `json:"path" gorm:"size:255;not null;uniqueIndex"`
	Type       string    `json:"type" gorm:"size:50;not null;index"` // real, ai
	UploadedAt time.Time `json:"uploaded_at"`
}

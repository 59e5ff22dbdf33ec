package models

import (
	"time"

	"gorm.io/gorm"
)

// Achievement rows are written by the gamification worker outside this
// service; the API only reads them.
type Achievement struct {
	gorm.Model
	UserID      uint `gorm:"not null;index"`
	Name        string
	Description string
	Icon        string
	UnlockedAt  time.Time
}

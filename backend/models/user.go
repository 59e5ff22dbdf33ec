package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Image        string
	Role         string `gorm:"default:user"` // user, admin
	LastLogin    *time.Time
}

type UserStats struct {
	gorm.Model
	UserID        uint `gorm:"uniqueIndex;not null"`
	TotalSets     int  `gorm:"default:0"`
	CompletedSets int  `gorm:"default:0"`
	TotalCards    int  `gorm:"default:0"`
	MasteredCards int  `gorm:"default:0"`
	StudyStreak   int  `gorm:"default:0"`
	LastStudyDate *time.Time
	XPPoints      int `gorm:"default:0"`
	Level         int `gorm:"default:1"`
}

// DefaultUserStats is the row created lazily on first set creation or
// first stats read.
func DefaultUserStats(userID uint) UserStats {
	return UserStats{
		UserID: userID,
		Level:  1,
	}
}

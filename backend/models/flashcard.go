package models

import (
	"time"

	"gorm.io/gorm"
)

// Difficulty ordinals stored on a flashcard.
const (
	DifficultyEasy   = 0
	DifficultyMedium = 1
	DifficultyHard   = 2
)

type Flashcard struct {
	gorm.Model
	SetID      uint   `gorm:"not null;index"`
	Question   string `gorm:"not null;size:1000"`
	Answer     string `gorm:"not null;size:1000"`
	Hint       string
	Notes      string
	Difficulty int `gorm:"default:1"`
}

// FlashcardBookmark records that a user bookmarked a flashcard. At most
// one row per (user, flashcard) pair; in study modes this doubles as the
// "mastered" signal. Plain join row, deletes are hard so the unique pair
// can be recreated freely.
type FlashcardBookmark struct {
	ID          uint `gorm:"primarykey"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_user_flashcard"`
	FlashcardID uint `gorm:"not null;uniqueIndex:idx_user_flashcard"`
	CreatedAt   time.Time
}

// DifficultyFromString maps the wire values EASY/MEDIUM/HARD to their
// stored ordinals. Unknown values fall back to medium.
func DifficultyFromString(s string) int {
	switch s {
	case "EASY":
		return DifficultyEasy
	case "HARD":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

func DifficultyToString(d int) string {
	switch d {
	case DifficultyEasy:
		return "EASY"
	case DifficultyHard:
		return "HARD"
	default:
		return "MEDIUM"
	}
}

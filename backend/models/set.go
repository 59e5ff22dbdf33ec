package models

import "gorm.io/gorm"

type Folder struct {
	gorm.Model
	Name   string `gorm:"not null"`
	UserID uint   `gorm:"not null"`
	Sets   []Set  `gorm:"foreignKey:FolderID"`
}

type Set struct {
	gorm.Model
	Title       string `gorm:"not null;size:200"`
	Description string
	IsPublic    bool   `gorm:"default:false"`
	UserID      uint   `gorm:"not null"`
	FolderID    *uint  // a set may live outside any folder
	ShareID     string `gorm:"size:100;uniqueIndex"`
	User        User   `gorm:"foreignKey:UserID"`

	Flashcards []Flashcard `gorm:"foreignKey:SetID"`
}

package models

import "time"

// Hold roles within a boulder.
const (
	HoldTypeRegular = 1
	HoldTypeSpecial = 2
)

type Boulder struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"not null"`
	UserID      uint      `gorm:"not null;index"`
	Description string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// BoulderHold links a boulder to one of its holds together with the hold's
// role (regular or special/marker).
type BoulderHold struct {
	BoulderID uint `gorm:"primaryKey;autoIncrement:false"`
	HoldID    uint `gorm:"primaryKey;autoIncrement:false"`
	Type      int  `gorm:"not null;default:1"`
}

// Climb records that a user has ascended a boulder. Existence is the whole
// payload.
type Climb struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	BoulderID uint `gorm:"primaryKey;autoIncrement:false"`
}

// GradeVote is one user's difficulty submission for a boulder; the exposed
// grade is the mean over all votes.
type GradeVote struct {
	BoulderID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	Grade     int  `gorm:"not null"`
}

// RatingVote is one user's star submission for a boulder.
type RatingVote struct {
	BoulderID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	Stars     int  `gorm:"not null"`
}

// DailyBoulder logs the boulder of the day; at most one row per calendar
// date.
type DailyBoulder struct {
	ID        uint   `gorm:"primaryKey"`
	BoulderID uint   `gorm:"not null"`
	Day       string `gorm:"not null;uniqueIndex"`
}

package models

import "time"

// Session binds an opaque bearer token to a user with a sliding expiry.
type Session struct {
	Token   string    `gorm:"primaryKey;column:id"`
	UserID  uint      `gorm:"not null;index"`
	Expires time.Time `gorm:"not null"`
}

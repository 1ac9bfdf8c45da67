package models

// Account status values. Privileged accounts may edit the wall's hold set.
const (
	StatusUnverified = 0
	StatusActive     = 1
	StatusPrivileged = 2
)

type User struct {
	ID         uint    `gorm:"primaryKey"`
	Email      string  `gorm:"uniqueIndex;not null"`
	Password   string  `gorm:"not null"`
	Name       string  `gorm:"not null"`
	Status     int     `gorm:"not null;default:0"`
	Activation *string `gorm:"index"`
	Newsletter bool    `gorm:"not null;default:false"`
	ForgotPw   *string `gorm:"column:forgotpw;index"`
	Badge      *string
}

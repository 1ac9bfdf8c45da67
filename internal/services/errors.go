package services

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound signals an absent entity; handlers translate it to 404 (or
// 400 for token lookups) without leaking storage detail.
var ErrNotFound = errors.New("not found")

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

package models

// Walls are versioned by increasing id; the current wall is the one with
// the highest id.
type Wall struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

type WallSegment struct {
	ID       uint   `gorm:"primaryKey"`
	WallID   uint   `gorm:"not null;index"`
	Filename string `gorm:"not null"`
}

// HoldTags is the fixed vocabulary of rendering tags a hold may carry.
var HoldTags = []string{"circle", "ellipse", "line", "path", "polygon", "polyline", "rect", "text"}

func ValidHoldTag(tag string) bool {
	for _, known := range HoldTags {
		if tag == known {
			return true
		}
	}
	return false
}

type Hold struct {
	ID            uint   `gorm:"primaryKey"`
	WallSegmentID uint   `gorm:"not null;index"`
	Tag           string `gorm:"not null"`
	Attr          string `gorm:"not null"`
}

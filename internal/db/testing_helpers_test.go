package db

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/greifwand/systemboard/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "systemboard-test.db")
	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func seedUser(t *testing.T, database *gorm.DB, email string, name string) models.User {
	t.Helper()

	user := models.User{
		Email:    email,
		Password: "irrelevant",
		Name:     name,
		Status:   models.StatusActive,
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

// seedWall creates a wall with segmentCount segments, each carrying one
// hold, and returns the wall together with the hold ids per segment.
func seedWall(t *testing.T, database *gorm.DB, name string, segmentCount int) (models.Wall, []uint) {
	t.Helper()

	wall := models.Wall{Name: name}
	if err := database.Create(&wall).Error; err != nil {
		t.Fatalf("seed wall %s: %v", name, err)
	}

	holdIDs := make([]uint, 0, segmentCount)
	for index := 0; index < segmentCount; index++ {
		segment := models.WallSegment{
			WallID:   wall.ID,
			Filename: fmt.Sprintf("%s-%d.jpg", name, index),
		}
		if err := database.Create(&segment).Error; err != nil {
			t.Fatalf("seed segment: %v", err)
		}
		hold := models.Hold{WallSegmentID: segment.ID, Tag: "circle", Attr: `{"cx":1,"cy":1,"r":5}`}
		if err := database.Create(&hold).Error; err != nil {
			t.Fatalf("seed hold: %v", err)
		}
		holdIDs = append(holdIDs, hold.ID)
	}
	return wall, holdIDs
}

func seedBoulder(t *testing.T, database *gorm.DB, userID uint, name string, holdIDs ...uint) models.Boulder {
	t.Helper()

	boulder := models.Boulder{
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := database.Create(&boulder).Error; err != nil {
		t.Fatalf("seed boulder %s: %v", name, err)
	}
	for _, holdID := range holdIDs {
		link := models.BoulderHold{BoulderID: boulder.ID, HoldID: holdID, Type: models.HoldTypeRegular}
		if err := database.Create(&link).Error; err != nil {
			t.Fatalf("seed boulder hold: %v", err)
		}
	}
	return boulder
}

func seedClimb(t *testing.T, database *gorm.DB, userID uint, boulderID uint) {
	t.Helper()
	if err := database.Create(&models.Climb{UserID: userID, BoulderID: boulderID}).Error; err != nil {
		t.Fatalf("seed climb: %v", err)
	}
}

func seedGradeVote(t *testing.T, database *gorm.DB, boulderID uint, userID uint, grade int) {
	t.Helper()
	if err := database.Create(&models.GradeVote{BoulderID: boulderID, UserID: userID, Grade: grade}).Error; err != nil {
		t.Fatalf("seed grade vote: %v", err)
	}
}

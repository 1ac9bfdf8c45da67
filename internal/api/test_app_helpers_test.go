package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/greifwand/systemboard/internal/config"
	"github.com/greifwand/systemboard/internal/db"
	"github.com/greifwand/systemboard/internal/mail"
	"github.com/greifwand/systemboard/internal/models"
	"github.com/greifwand/systemboard/internal/security"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, config.Config) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "systemboard-api-test.db")
	database, err := db.OpenSQLite(databasePath)
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

	cfg := config.Default()
	cfg.Argon2 = security.Argon2Params{
		Memory:     8 * 1024,
		Time:       1,
		Threads:    1,
		SaltLength: 16,
		KeyLength:  32,
	}

	handler := NewHandler(database, cfg, mail.LogMailer{})
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database, cfg
}

func createTestUser(t *testing.T, database *gorm.DB, cfg config.Config, email string, name string, password string, status int) models.User {
	t.Helper()

	hash, err := security.HashPassword(password, cfg.Argon2)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Email: email, Password: hash, Name: name, Status: status}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func createTestSession(t *testing.T, database *gorm.DB, userID uint) string {
	t.Helper()

	token, err := security.SessionToken(32)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	session := models.Session{Token: token, UserID: userID, Expires: time.Now().Add(time.Hour)}
	if err := database.Create(&session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return token
}

// createTestWall seeds a wall with three segments, one hold each, and
// returns the hold ids in segment order.
func createTestWall(t *testing.T, database *gorm.DB, name string) []uint {
	t.Helper()

	wall := models.Wall{Name: name}
	if err := database.Create(&wall).Error; err != nil {
		t.Fatalf("create wall: %v", err)
	}

	holdIDs := make([]uint, 0, 3)
	for index := 0; index < 3; index++ {
		segment := models.WallSegment{WallID: wall.ID, Filename: name + "-" + string(rune('a'+index)) + ".jpg"}
		if err := database.Create(&segment).Error; err != nil {
			t.Fatalf("create segment: %v", err)
		}
		hold := models.Hold{WallSegmentID: segment.ID, Tag: "circle", Attr: `{"cx":10,"cy":10,"r":4}`}
		if err := database.Create(&hold).Error; err != nil {
			t.Fatalf("create hold: %v", err)
		}
		holdIDs = append(holdIDs, hold.ID)
	}
	return holdIDs
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, authorization string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authorization != "" {
		request.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode response body %q: %v", raw, err)
	}
}

func uintString(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func expectStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d (body %q)", expected, response.StatusCode, body)
	}
}

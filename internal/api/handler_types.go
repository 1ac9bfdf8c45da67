package api

import (
	"github.com/greifwand/systemboard/internal/config"
	"github.com/greifwand/systemboard/internal/db"
	"github.com/greifwand/systemboard/internal/mail"
	"github.com/greifwand/systemboard/internal/models"
	"github.com/greifwand/systemboard/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db             *gorm.DB
	config         config.Config
	mailer         mail.Mailer
	repositories   *db.Repositories
	sessionService *services.SessionService
	accountService *services.AccountService
	boulderService *services.BoulderService
	wallService    *services.WallService
	statsService   *services.StatsService
}

// Role is the capability class the gate attaches to every request.
type Role uint8

const (
	// RoleGuest may read public resources but never mutate.
	RoleGuest Role = iota
	// RoleLogin is the pre-authentication class for login, registration
	// and password recovery calls.
	RoleLogin
	// RoleUser is a resolved session; Identity.User is set.
	RoleUser
)

type Identity struct {
	Role         Role
	User         *models.User
	SessionToken string
}

type creatorPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type locationPayload struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Main int `json:"main"`
}

type holdRefPayload struct {
	ID   uint `json:"id"`
	Type int  `json:"type"`
}

// boulderPayload is the wire shape for both search rows and the detail view;
// location and holds are only present on the detail view.
type boulderPayload struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Ascents     int              `json:"ascents"`
	Climbed     bool             `json:"climbed"`
	Botd        bool             `json:"botd"`
	Creator     creatorPayload   `json:"creator"`
	Grade       *float64         `json:"grade,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	Location    *locationPayload `json:"location,omitempty"`
	Holds       []holdRefPayload `json:"holds,omitempty"`
}

type tokenPayload struct {
	Token string `json:"token"`
}

type userInfoPayload struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Newsletter bool   `json:"newsletter"`
}

type ascentPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Wall int    `json:"wall"`
}

type userStatsPayload struct {
	UserID  uint            `json:"userid"`
	Ascents []ascentPayload `json:"ascents"`
	Points  int             `json:"points"`
}

type profilePayload struct {
	ID      uint             `json:"id"`
	Name    string           `json:"name"`
	Current userStatsPayload `json:"current"`
	Total   userStatsPayload `json:"total"`
}

type rankingPayload struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Badge *string `json:"badge"`
	Score int     `json:"score"`
}

type wallSegmentPayload struct {
	Image string `json:"image"`
}

type wallPayload struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	WallSegments []wallSegmentPayload `json:"wallSegments"`
}

type holdPayload struct {
	ID   uint   `json:"id"`
	Tag  string `json:"tag"`
	Attr string `json:"attr"`
}

type segmentHoldsPayload struct {
	Filename string        `json:"filename"`
	Holds    []holdPayload `json:"holds"`
}

type changeLogPayload struct {
	Version     string   `json:"version"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Changes     []string `json:"changes"`
}

type systemStatsPayload struct {
	Version   string             `json:"version"`
	ChangeLog []changeLogPayload `json:"changelog"`
	Boulders  int64              `json:"boulder"`
	Holds     int64              `json:"holds"`
	Users     int64              `json:"users"`
}

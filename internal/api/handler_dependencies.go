package api

import (
	"github.com/greifwand/systemboard/internal/config"
	"github.com/greifwand/systemboard/internal/db"
	"github.com/greifwand/systemboard/internal/mail"
	"github.com/greifwand/systemboard/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, cfg config.Config, mailer mail.Mailer) *Handler {
	if mailer == nil {
		mailer = mail.LogMailer{}
	}
	handler := &Handler{
		db:     database,
		config: cfg,
		mailer: mailer,
	}
	return handler.withDependencies(database)
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.sessionService = services.NewSessionService(handler.repositories.Sessions, handler.repositories.Users, handler.config.SessionDuration)
	handler.accountService = services.NewAccountService(handler.repositories.Users, handler.sessionService, handler.mailer, handler.config.Argon2, handler.config.BaseURL)
	handler.boulderService = services.NewBoulderService(handler.repositories.Boulders, handler.repositories.Users, handler.repositories.Walls, handler.config.SegmentsPerWall, handler.config.SearchLimit)
	handler.wallService = services.NewWallService(handler.repositories.Walls)
	handler.statsService = services.NewStatsService(handler.repositories.Stats, handler.repositories.Users, handler.config.SegmentsPerWall)
	return handler
}

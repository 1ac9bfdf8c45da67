package db

import (
	"time"

	"github.com/greifwand/systemboard/internal/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

func (repo *SessionRepository) Create(session *models.Session) error {
	return repo.database.Create(session).Error
}

func (repo *SessionRepository) FindByToken(token string) (models.Session, error) {
	var session models.Session
	if err := repo.database.Where("id = ?", token).First(&session).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (repo *SessionRepository) UpdateExpiry(token string, expires time.Time) error {
	return repo.database.Model(&models.Session{}).Where("id = ?", token).
		Update("expires", expires).Error
}

func (repo *SessionRepository) Delete(token string) error {
	return repo.database.Delete(&models.Session{}, "id = ?", token).Error
}

func (repo *SessionRepository) DeleteExpired(now time.Time) error {
	return repo.database.Delete(&models.Session{}, "expires < ?", now).Error
}

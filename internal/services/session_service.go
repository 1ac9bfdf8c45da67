package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/greifwand/systemboard/internal/models"
	"github.com/greifwand/systemboard/internal/security"
)

var (
	// ErrNoSession covers both unknown and expired tokens.
	ErrNoSession = errors.New("no live session for token")
	// ErrSessionOrphaned marks the anomaly of a live session whose account
	// no longer resolves.
	ErrSessionOrphaned = errors.New("session refers to a missing account")
)

const (
	sessionTokenBytes    = 32
	tokenCreateAttempts  = 3
	gcOneInEveryAttempts = 11
)

type SessionStore interface {
	Create(session *models.Session) error
	FindByToken(token string) (models.Session, error)
	UpdateExpiry(token string, expires time.Time) error
	Delete(token string) error
	DeleteExpired(now time.Time) error
}

type SessionUserStore interface {
	FindByID(userID uint) (models.User, error)
}

type SessionService struct {
	sessions SessionStore
	users    SessionUserStore
	duration time.Duration
	now      func() time.Time
}

func NewSessionService(sessions SessionStore, users SessionUserStore, duration time.Duration) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		duration: duration,
		now:      time.Now,
	}
}

// Create issues a fresh opaque token for the account. Token generation is
// retried a fixed number of times: a primary-key collision is a near-zero
// probability anomaly, so exhausting the retries is an internal error.
func (service *SessionService) Create(userID uint) (string, error) {
	var lastErr error
	for attempt := 0; attempt < tokenCreateAttempts; attempt++ {
		token, err := security.SessionToken(sessionTokenBytes)
		if err != nil {
			return "", fmt.Errorf("generate session token: %w", err)
		}

		session := models.Session{
			Token:   token,
			UserID:  userID,
			Expires: service.now().Add(service.duration),
		}
		if err := service.sessions.Create(&session); err != nil {
			lastErr = err
			continue
		}
		return token, nil
	}
	return "", fmt.Errorf("create session after %d attempts: %w", tokenCreateAttempts, lastErr)
}

// Validate resolves a bearer token to its account and slides the expiry
// forward. The refresh is best effort; a lost refresh write only shortens
// the session, never breaks the request.
func (service *SessionService) Validate(token string) (models.User, error) {
	session, err := service.sessions.FindByToken(token)
	if err != nil {
		if isRecordNotFound(err) {
			return models.User{}, ErrNoSession
		}
		return models.User{}, err
	}

	now := service.now()
	if session.Expires.Before(now) {
		_ = service.sessions.Delete(token)
		return models.User{}, ErrNoSession
	}

	user, err := service.users.FindByID(session.UserID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.User{}, ErrSessionOrphaned
		}
		return models.User{}, err
	}

	_ = service.sessions.UpdateExpiry(token, now.Add(service.duration))
	return user, nil
}

func (service *SessionService) Invalidate(token string) error {
	return service.sessions.Delete(token)
}

func (service *SessionService) CollectGarbage() error {
	return service.sessions.DeleteExpired(service.now())
}

// MaybeCollectGarbage runs the sweep opportunistically; callers invoke it
// on login attempts so expired rows get cleared without a scheduler.
func (service *SessionService) MaybeCollectGarbage() {
	if rand.Intn(gcOneInEveryAttempts) == 0 {
		_ = service.CollectGarbage()
	}
}

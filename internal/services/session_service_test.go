package services

import (
	"errors"
	"testing"
	"time"

	"github.com/greifwand/systemboard/internal/models"
	"gorm.io/gorm"
)

type stubSessionStore struct {
	sessions map[string]models.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: map[string]models.Session{}}
}

func (store *stubSessionStore) Create(session *models.Session) error {
	if _, exists := store.sessions[session.Token]; exists {
		return errors.New("UNIQUE constraint failed: sessions.id")
	}
	store.sessions[session.Token] = *session
	return nil
}

func (store *stubSessionStore) FindByToken(token string) (models.Session, error) {
	session, ok := store.sessions[token]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (store *stubSessionStore) UpdateExpiry(token string, expires time.Time) error {
	session, ok := store.sessions[token]
	if !ok {
		return nil
	}
	session.Expires = expires
	store.sessions[token] = session
	return nil
}

func (store *stubSessionStore) Delete(token string) error {
	delete(store.sessions, token)
	return nil
}

func (store *stubSessionStore) DeleteExpired(now time.Time) error {
	for token, session := range store.sessions {
		if session.Expires.Before(now) {
			delete(store.sessions, token)
		}
	}
	return nil
}

type stubSessionUserStore struct {
	users map[uint]models.User
}

func (store *stubSessionUserStore) FindByID(userID uint) (models.User, error) {
	user, ok := store.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newSessionServiceForTest(users map[uint]models.User) (*SessionService, *stubSessionStore) {
	sessions := newStubSessionStore()
	service := NewSessionService(sessions, &stubSessionUserStore{users: users}, time.Hour)
	return service, sessions
}

func TestSessionCreateThenValidate(t *testing.T) {
	service, _ := newSessionServiceForTest(map[uint]models.User{
		7: {ID: 7, Name: "mona", Status: models.StatusActive},
	})

	token, err := service.Create(7)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if token == "" {
		t.Fatal("empty session token")
	}

	user, err := service.Validate(token)
	if err != nil {
		t.Fatalf("validate session: %v", err)
	}
	if user.ID != 7 || user.Name != "mona" {
		t.Fatalf("validated wrong account: %+v", user)
	}
}

func TestSessionValidateUnknownToken(t *testing.T) {
	service, _ := newSessionServiceForTest(nil)

	if _, err := service.Validate("no-such-token"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionValidateExpiredTokenDeletesRow(t *testing.T) {
	service, sessions := newSessionServiceForTest(map[uint]models.User{1: {ID: 1}})

	token, err := service.Create(1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := service.Validate(token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, ok := sessions.sessions[token]; ok {
		t.Fatal("expired session row not removed")
	}
}

func TestSessionValidateSlidesExpiry(t *testing.T) {
	service, sessions := newSessionServiceForTest(map[uint]models.User{1: {ID: 1}})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return base }

	token, err := service.Create(1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	service.now = func() time.Time { return base.Add(30 * time.Minute) }
	if _, err := service.Validate(token); err != nil {
		t.Fatalf("validate session: %v", err)
	}

	expected := base.Add(30 * time.Minute).Add(time.Hour)
	if got := sessions.sessions[token].Expires; !got.Equal(expected) {
		t.Fatalf("expiry not refreshed: got %s, want %s", got, expected)
	}
}

func TestSessionValidateOrphanedAccount(t *testing.T) {
	service, _ := newSessionServiceForTest(map[uint]models.User{1: {ID: 1}})

	token, err := service.Create(1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	service.users = &stubSessionUserStore{users: nil}
	if _, err := service.Validate(token); !errors.Is(err, ErrSessionOrphaned) {
		t.Fatalf("expected ErrSessionOrphaned, got %v", err)
	}
}

func TestSessionInvalidate(t *testing.T) {
	service, _ := newSessionServiceForTest(map[uint]models.User{1: {ID: 1}})

	token, err := service.Create(1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := service.Invalidate(token); err != nil {
		t.Fatalf("invalidate session: %v", err)
	}
	if _, err := service.Validate(token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestSessionGarbageCollection(t *testing.T) {
	service, sessions := newSessionServiceForTest(map[uint]models.User{1: {ID: 1}})

	stale, err := service.Create(1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	fresh, err := service.Create(1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := service.CollectGarbage(); err != nil {
		t.Fatalf("collect garbage: %v", err)
	}
	if _, ok := sessions.sessions[stale]; ok {
		t.Fatal("stale session survived the sweep")
	}
	if _, ok := sessions.sessions[fresh]; !ok {
		t.Fatal("live session removed by the sweep")
	}
}

package services

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/greifwand/systemboard/internal/mail"
	"github.com/greifwand/systemboard/internal/models"
	"github.com/greifwand/systemboard/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrResetNotAllowed covers both an unknown address and an address with
	// a reset already pending; callers must not distinguish the two.
	ErrResetNotAllowed = errors.New("password reset not allowed")
)

const (
	activationTokenBytes = 30
	resetTokenBytes      = 50
)

type AccountUserStore interface {
	FindByID(userID uint) (models.User, error)
	FindByEmail(email string) (models.User, error)
	FindByActivation(token string) (models.User, error)
	FindByForgotPw(token string) (models.User, error)
	ExistsByEmail(email string) (bool, error)
	Create(user *models.User) error
	UpdateByID(userID uint, updates map[string]any) error
	UpdatePassword(userID uint, passwordHash string) error
	ClearForgotPw(token string) error
}

type AccountService struct {
	users    AccountUserStore
	sessions *SessionService
	mailer   mail.Mailer
	argon    security.Argon2Params
	baseURL  string
}

func NewAccountService(users AccountUserStore, sessions *SessionService, mailer mail.Mailer, argon security.Argon2Params, baseURL string) *AccountService {
	return &AccountService{
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		argon:    argon,
		baseURL:  baseURL,
	}
}

// Login verifies the password against either credential format and returns
// a fresh session token. A verified legacy or under-parameterized hash is
// upgraded in place; the upgrade must never fail the login itself.
func (service *AccountService) Login(email string, password string) (string, error) {
	service.sessions.MaybeCollectGarbage()

	user, err := service.users.FindByEmail(email)
	if err != nil {
		if isRecordNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !security.VerifyPassword(password, user.Password) {
		return "", ErrInvalidCredentials
	}

	if security.NeedsRehash(user.Password, service.argon) {
		if upgraded, err := security.HashPassword(password, service.argon); err == nil {
			if err := service.users.UpdatePassword(user.ID, upgraded); err != nil {
				log.Printf("credential upgrade for user %d not persisted: %v", user.ID, err)
			}
		}
	}

	return service.sessions.Create(user.ID)
}

func (service *AccountService) Logout(token string) error {
	return service.sessions.Invalidate(token)
}

// GuestToken is the fixed token handed out for guest logins; it is a client
// convenience, not a session, and the gate never accepts it as a bearer
// credential.
func (service *AccountService) GuestToken() string {
	return security.LegacyDigest("guest")
}

func (service *AccountService) FindUser(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Register creates an unverified account and mails the activation link. A
// failed mail dispatch surfaces as an error but leaves the account in
// place; re-sending is a support action, not a rollback.
func (service *AccountService) Register(email string, name string, password string, newsletter bool) error {
	taken, err := service.users.ExistsByEmail(email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	hash, err := security.HashPassword(password, service.argon)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	activation, err := security.HexToken(activationTokenBytes)
	if err != nil {
		return fmt.Errorf("generate activation token: %w", err)
	}

	user := models.User{
		Email:      email,
		Password:   hash,
		Name:       name,
		Status:     models.StatusUnverified,
		Activation: &activation,
		Newsletter: newsletter,
	}
	// The email column is unique, so a concurrent registration for the same
	// address loses here even after the ExistsByEmail check passed.
	if err := service.users.Create(&user); err != nil {
		if isDuplicateKey(err) {
			return ErrEmailTaken
		}
		return err
	}

	link := service.baseURL + "/?activation=" + url.QueryEscape(activation)
	body := fmt.Sprintf(`Hello %s,

you can complete your registration for the board by following this link:
%s

If someone else used your address, no further action is needed; you will
not receive any more mail in that case.

Your Systemboard`, user.Name, link)

	if err := service.mailer.Send(user.Email, "Systemboard: registration", body); err != nil {
		return fmt.Errorf("send activation mail: %w", err)
	}
	return nil
}

func (service *AccountService) Activate(token string) error {
	user, err := service.users.FindByActivation(token)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return service.users.UpdateByID(user.ID, map[string]any{"status": models.StatusActive})
}

// RequestPasswordReset issues a one-time reset token. A second request while
// one is pending is refused: the first mail already warned the owner, and a
// pending token doubles as the misuse kill switch.
func (service *AccountService) RequestPasswordReset(email string) error {
	user, err := service.users.FindByEmail(email)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrResetNotAllowed
		}
		return err
	}
	if user.ForgotPw != nil && *user.ForgotPw != "" {
		return ErrResetNotAllowed
	}

	token, err := security.HexToken(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := service.users.UpdateByID(user.ID, map[string]any{"forgotpw": token}); err != nil {
		return err
	}

	resetLink := service.baseURL + "/?forgotPw=" + url.QueryEscape(token)
	misuseLink := service.baseURL + "/?enableForgotPw=" + url.QueryEscape(token)
	body := fmt.Sprintf(`Hello %s,

someone used the forgot-password function for your account.

If this was NOT you, the function is now disabled for your account.
To set a new password, follow this link:
%s

If you did not request a new password but want to re-enable the function,
follow this link:
%s

Your Systemboard`, user.Name, resetLink, misuseLink)

	if err := service.mailer.Send(user.Email, "Systemboard: forgot password", body); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ReportResetMisuse clears a pending reset token, re-arming the
// forgot-password function. Unknown tokens are ignored on purpose.
func (service *AccountService) ReportResetMisuse(token string) error {
	return service.users.ClearForgotPw(token)
}

func (service *AccountService) SetNewPassword(token string, password string) error {
	user, err := service.users.FindByForgotPw(token)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	hash, err := security.HashPassword(password, service.argon)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return service.users.UpdateByID(user.ID, map[string]any{
		"password": hash,
		"forgotpw": nil,
	})
}

// UpdateProfile applies the optional profile mutations; nil pointers leave
// the field untouched.
func (service *AccountService) UpdateProfile(userID uint, name *string, password *string, newsletter *bool) error {
	updates := make(map[string]any, 3)
	if name != nil {
		updates["name"] = *name
	}
	if password != nil {
		hash, err := security.HashPassword(*password, service.argon)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = hash
	}
	if newsletter != nil {
		updates["newsletter"] = *newsletter
	}
	if len(updates) == 0 {
		return nil
	}
	return service.users.UpdateByID(userID, updates)
}

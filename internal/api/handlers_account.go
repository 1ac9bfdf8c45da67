package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/greifwand/systemboard/internal/services"
)

// Login answers GET /login/:authtype/:email. The password travels in the
// auth query parameter. A wrong password and an unknown address are both
// reported as 404 so the response does not reveal which one it was.
func (handler *Handler) Login(c *fiber.Ctx) error {
	if currentIdentity(c).Role != RoleLogin {
		return forbidden(c)
	}

	switch c.Params("authtype") {
	case "password":
		token, err := handler.accountService.Login(c.Params("email"), c.Query("auth"))
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return apiError(c, fiber.StatusNotFound, "unknown email or wrong password")
			}
			return apiError(c, fiber.StatusInternalServerError, "login failed")
		}
		return c.JSON(tokenPayload{Token: token})
	case "guest":
		return c.JSON(tokenPayload{Token: handler.accountService.GuestToken()})
	}
	return apiError(c, fiber.StatusNotImplemented, "unsupported authentication type")
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	identity, ok := requireUser(c)
	if !ok {
		return forbidden(c)
	}
	if err := handler.accountService.Logout(identity.SessionToken); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "logout failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type registrationInput struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Newsletter bool   `json:"newsletter"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	if currentIdentity(c).Role != RoleLogin {
		return forbidden(c)
	}

	var input registrationInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if input.Email == "" || input.Name == "" || input.Password == "" {
		return apiError(c, fiber.StatusBadRequest, "email, name and password are required")
	}

	if err := handler.accountService.Register(input.Email, input.Name, input.Password, input.Newsletter); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return apiError(c, fiber.StatusBadRequest, "email already registered")
		}
		return apiError(c, fiber.StatusInternalServerError, "registration failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type activationInput struct {
	Token string `json:"token"`
}

func (handler *Handler) Activate(c *fiber.Ctx) error {
	if currentIdentity(c).Role != RoleLogin {
		return forbidden(c)
	}

	var input activationInput
	if err := c.BodyParser(&input); err != nil || input.Token == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := handler.accountService.Activate(input.Token); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown activation token")
		}
		return apiError(c, fiber.StatusInternalServerError, "activation failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) RequestPasswordReset(c *fiber.Ctx) error {
	if currentIdentity(c).Role != RoleLogin {
		return forbidden(c)
	}

	if err := handler.accountService.RequestPasswordReset(c.Params("email")); err != nil {
		if errors.Is(err, services.ErrResetNotAllowed) {
			return apiError(c, fiber.StatusBadRequest, "password reset not possible")
		}
		return apiError(c, fiber.StatusInternalServerError, "password reset failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type resetMisuseInput struct {
	Token string `json:"token"`
}

func (handler *Handler) ReportResetMisuse(c *fiber.Ctx) error {
	if currentIdentity(c).Role != RoleLogin {
		return forbidden(c)
	}

	var input resetMisuseInput
	if err := c.BodyParser(&input); err != nil || input.Token == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := handler.accountService.ReportResetMisuse(input.Token); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "reset misuse report failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type newPasswordInput struct {
	Password string `json:"password"`
}

func (handler *Handler) SetNewPassword(c *fiber.Ctx) error {
	if currentIdentity(c).Role != RoleLogin {
		return forbidden(c)
	}

	var input newPasswordInput
	if err := c.BodyParser(&input); err != nil || input.Password == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := handler.accountService.SetNewPassword(c.Params("token"), input.Password); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "unknown reset token")
		}
		return apiError(c, fiber.StatusInternalServerError, "password change failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

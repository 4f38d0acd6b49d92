package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tickoff/internal/domain"
	applog "tickoff/internal/log"
	"tickoff/internal/monitoring"
	"tickoff/internal/services"
)

type AuthHandler struct {
	Auth    *services.AuthService
	Metrics *monitoring.Metrics
}

type authResponse struct {
	Success     bool              `json:"success"`
	User        domain.PublicUser `json:"user"`
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int               `json:"expires_in"`
}

// grant issues a token for u and writes it with status, auditing action once
// the response status is final.
func (h *AuthHandler) grant(c *fiber.Ctx, status int, u *domain.User, action string) error {
	tok, err := h.Auth.IssueToken(u)
	if err != nil {
		return writeError(c, "auth.token.issue", err)
	}
	c.Status(status)
	applog.Audit(c, action, map[string]any{"user_id": u.ID})
	return c.JSON(authResponse{
		Success:     true,
		User:        u.Public(),
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int(h.Auth.Tokens.TTL().Seconds()),
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in domain.Credentials
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	u, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrConflict) {
			applog.Security(c, "auth.register.fail", map[string]any{"reason": err.Error()})
		}
		return writeError(c, "auth.register", err)
	}
	h.Metrics.AuthEvent(monitoring.AuthRegister)
	return h.grant(c, fiber.StatusCreated, u, "auth.register.success")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in domain.Credentials
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	u, err := h.Auth.Authenticate(c.UserContext(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			h.Metrics.AuthEvent(monitoring.AuthLoginFail)
			applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
			return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Incorrect email or password")
		}
		return writeError(c, "auth.login", err)
	}
	h.Metrics.AuthEvent(monitoring.AuthLoginOK)
	return h.grant(c, fiber.StatusOK, u, "auth.login.success")
}

// Logout is stateless: tokens are not tracked server side, so the client
// discarding its token is the whole operation.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "user": currentUser(c).Public()})
}

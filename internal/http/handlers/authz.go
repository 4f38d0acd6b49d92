package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tickoff/internal/domain"
	applog "tickoff/internal/log"
	"tickoff/internal/monitoring"
	"tickoff/internal/services"
)

// RequireUser resolves the bearer token to a user and stores it in Locals
// under "user"; requests without a valid token stop here with 401.
func RequireUser(auth *services.AuthService, m *monitoring.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			m.AuthEvent(monitoring.AuthTokenReject)
			applog.Security(c, "auth.token.missing", map[string]any{"reason": err.Error()})
			return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authenticated")
		}
		u, err := auth.ResolveToken(c.UserContext(), tok)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				return writeError(c, "auth.token", err)
			}
			m.AuthEvent(monitoring.AuthTokenReject)
			applog.Security(c, "auth.token.reject", nil)
			return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Could not validate credentials")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

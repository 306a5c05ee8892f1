package middleware

import (
	"geoportal/internal/logger"
	"geoportal/internal/repositories"
	"geoportal/internal/services"

	"github.com/gofiber/fiber/v2"
)

type Middleware struct {
	sessionService *services.SessionService
	userRepo       repositories.UserRepository
	log            logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	sessionService *services.SessionService,
) Middleware {
	return Middleware{
		sessionService: sessionService,
		userRepo:       userRepo,
		log:            logger.New("middleware"),
	}
}

// RequireAuth rejects the request unless the session cookie resolves to a
// user. The user lands in Locals("user"), the token in
// Locals("session_token"); nothing auth-related is ever stored globally.
func (m Middleware) RequireAuth(c *fiber.Ctx) error {
	if !m.attachUser(c) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.Next()
}

// OptionalAuth attaches the user when a valid session exists and continues
// either way. Used by the submission endpoint, which accepts anonymous
// requests.
func (m Middleware) OptionalAuth(c *fiber.Ctx) error {
	m.attachUser(c)
	return c.Next()
}

func (m Middleware) attachUser(c *fiber.Ctx) bool {
	log := m.log.Function("attachUser")

	token := c.Cookies(services.SessionCookieName)
	if token == "" {
		return false
	}

	session, found, err := m.sessionService.Get(c.Context(), token)
	if err != nil {
		log.Er("failed to resolve session", err)
		return false
	}
	if !found {
		return false
	}

	user, err := m.userRepo.GetByID(c.Context(), session.UserID)
	if err != nil {
		log.Er("session user not found", err, "userID", session.UserID)
		return false
	}

	c.Locals("user", *user)
	c.Locals("session_token", token)
	return true
}

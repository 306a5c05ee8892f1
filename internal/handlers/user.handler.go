package handlers

import (
	"errors"
	"time"

	"geoportal/internal/app"
	userController "geoportal/internal/controllers/users"
	"geoportal/internal/logger"
	. "geoportal/internal/models"
	"geoportal/internal/services"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller *userController.UserController
	sessionTTL time.Duration
}

func NewUserHandler(app *app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: app.UserController,
		sessionTTL: app.SessionService.TTL(),
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	h.router.Post("/register", h.register)
	h.router.Post("/login", h.login)
	h.router.Post("/logout", h.middleware.RequireAuth, h.logout)

	user := h.router.Group("/user", h.middleware.RequireAuth)
	user.Get("/", h.getUser)
	user.Patch("/", h.updateUser)
	user.Delete("/", h.deleteUser)
}

func (h *UserHandler) setSessionCookie(c *fiber.Ctx, session services.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *UserHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *UserHandler) register(c *fiber.Ctx) error {
	log := h.log.Function("register")

	var body RegisterRequest
	if err := c.BodyParser(&body); err != nil {
		log.Er("failed to parse register request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse register request"})
	}

	if body.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username is required"})
	}
	if body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Password is required"})
	}

	user, session, err := h.controller.Register(c.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, userController.ErrUsernameTaken) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"message": "Username already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to register"})
	}

	h.setSessionCookie(c, session)
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var body LoginRequest
	if err := c.BodyParser(&body); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	user, session, err := h.controller.Login(c.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, userController.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "unauthorized"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to login"})
	}

	h.setSessionCookie(c, session)
	return c.JSON(user)
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	token, _ := c.Locals("session_token").(string)
	if err := h.controller.Logout(c.Context(), token); err != nil {
		h.log.Function("logout").Er("failed to destroy session", err)
	}

	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "success"})
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(User)
	if !ok || user.ID == 0 {
		h.log.Function("getUser").ErMsg("No user found in locals")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to get user"})
	}

	return c.JSON(user)
}

func (h *UserHandler) updateUser(c *fiber.Ctx) error {
	log := h.log.Function("updateUser")
	user := c.Locals("user").(User)

	var body UpdateUserRequest
	if err := c.BodyParser(&body); err != nil {
		log.Er("failed to parse update request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse update request"})
	}

	if body.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username is required"})
	}

	updated, err := h.controller.UpdateUsername(c.Context(), user.ID, body.Username)
	if err != nil {
		if errors.Is(err, userController.ErrUsernameTaken) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"message": "Username already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to update user"})
	}

	return c.JSON(updated)
}

func (h *UserHandler) deleteUser(c *fiber.Ctx) error {
	user := c.Locals("user").(User)
	token, _ := c.Locals("session_token").(string)

	if err := h.controller.Delete(c.Context(), user.ID, token); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to delete user"})
	}

	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "success"})
}

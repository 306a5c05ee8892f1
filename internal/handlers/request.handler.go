package handlers

import (
	"errors"

	"geoportal/internal/app"
	requestController "geoportal/internal/controllers/requests"
	"geoportal/internal/logger"
	. "geoportal/internal/models"
	"geoportal/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	Handler
	controller *requestController.RequestController
}

func NewRequestHandler(app *app.App, router fiber.Router) *RequestHandler {
	log := logger.New("handlers").File("request_handler")
	return &RequestHandler{
		controller: app.RequestController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RequestHandler) Register() {
	requests := h.router.Group("/requests")
	requests.Post("/", h.middleware.OptionalAuth, h.submit)
	requests.Get("/", h.middleware.RequireAuth, h.history)
	requests.Get("/:id", h.middleware.RequireAuth, h.getOne)
}

func (h *RequestHandler) submit(c *fiber.Ctx) error {
	log := h.log.Function("submit")

	var insert InsertRequest
	if err := c.BodyParser(&insert); err != nil {
		log.Er("failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request body"})
	}

	var ownerID *int
	if user, ok := c.Locals("user").(User); ok && user.ID != 0 {
		ownerID = &user.ID
	}

	request, fieldErrors, err := h.controller.Submit(c.Context(), insert, ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "Failed to create request"})
	}
	if fieldErrors.Any() {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": fieldErrors.First(), "errors": fieldErrors.ToMap()})
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

func (h *RequestHandler) getOne(c *fiber.Ctx) error {
	user := c.Locals("user").(User)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "invalid request id"})
	}

	request, err := h.controller.Get(c.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"message": "request not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "Failed to fetch request"})
	}

	return c.JSON(request)
}

func (h *RequestHandler) history(c *fiber.Ctx) error {
	user := c.Locals("user").(User)

	requests, err := h.controller.History(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "Failed to fetch requests"})
	}

	return c.JSON(requests)
}

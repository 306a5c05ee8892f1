package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"geoportal/internal/app"
	"geoportal/internal/handlers"
	"geoportal/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init(slog.LevelInfo)
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to create app", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	fiberApp := fiber.New(fiber.Config{
		AppName: "geoportal",
	})
	fiberApp.Use(recover.New())

	if err := handlers.Router(fiberApp, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	go func() {
		address := fmt.Sprintf("%s:%d", application.Config.ServerHost, application.Config.ServerPort)
		log.Info("Starting server", "address", address)
		if err := fiberApp.Listen(address); err != nil {
			log.Er("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := fiberApp.Shutdown(); err != nil {
		log.Er("failed to shut down server", err)
	}
}

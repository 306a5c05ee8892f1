package app

import (
	"geoportal/config"
	"geoportal/internal/database"
	"geoportal/internal/events"
	"geoportal/internal/handlers/middleware"
	"geoportal/internal/logger"
	"geoportal/internal/repositories"
	"geoportal/internal/services"
	"geoportal/internal/validation"
	"geoportal/internal/websockets"

	requestController "geoportal/internal/controllers/requests"
	userController "geoportal/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	SessionService     *services.SessionService

	// Repositories
	UserRepo    repositories.UserRepository
	RequestRepo repositories.RequestRepository

	// Controllers
	UserController    *userController.UserController
	RequestController *requestController.RequestController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	return Build(db, config)
}

// Build wires the app around an existing database handle. Split out from New
// so tests can inject in-memory stores.
func Build(db database.DB, config config.Config) (*App, error) {
	log := logger.New("app").Function("Build")

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	sessionService := services.NewSessionService(db, config)

	// Initialize repositories
	userRepo := repositories.NewUser(db)
	requestRepo := repositories.NewRequest(db)

	// Initialize controllers with repositories and services
	middleware := middleware.New(userRepo, sessionService)
	userController := userController.New(userRepo, sessionService, transactionService, config)
	requestController := requestController.New(requestRepo, validation.New(), eventBus)

	websocket, err := websockets.New(eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware,
		TransactionService: transactionService,
		SessionService:     sessionService,
		UserRepo:           userRepo,
		RequestRepo:        requestRepo,
		UserController:     userController,
		RequestController:  requestController,
		Websocket:          websocket,
		EventBus:           eventBus,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.TransactionService,
		a.SessionService,
		a.UserController,
		a.RequestController,
		a.UserRepo,
		a.RequestRepo,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

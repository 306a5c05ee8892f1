package userController

import (
	"context"
	"errors"

	"geoportal/config"
	"geoportal/internal/logger"
	. "geoportal/internal/models"
	"geoportal/internal/repositories"
	"geoportal/internal/services"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("Username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type UserController struct {
	userRepo           repositories.UserRepository
	sessionService     *services.SessionService
	transactionService *services.TransactionService
	bcryptCost         int
	log                logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	sessionService *services.SessionService,
	transactionService *services.TransactionService,
	config config.Config,
) *UserController {
	cost := config.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserController{
		userRepo:           userRepo,
		sessionService:     sessionService,
		transactionService: transactionService,
		bcryptCost:         cost,
		log:                logger.New("UserController"),
	}
}

// Register creates the account and logs the new user straight in.
func (uc *UserController) Register(ctx context.Context, username, password string) (*User, services.Session, error) {
	log := uc.log.Function("Register")

	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, services.Session{}, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, services.Session{}, log.Err("failed to check username", err, "username", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.bcryptCost)
	if err != nil {
		return nil, services.Session{}, log.Err("failed to hash password", err)
	}

	user := &User{Username: username, Password: string(hash)}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, services.Session{}, err
	}

	session, err := uc.sessionService.Create(ctx, user.ID)
	if err != nil {
		return nil, services.Session{}, err
	}

	log.Info("Registered user", "userID", user.ID, "username", username)
	return user, session, nil
}

func (uc *UserController) Login(ctx context.Context, username, password string) (*User, services.Session, error) {
	log := uc.log.Function("Login")

	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, services.Session{}, ErrInvalidCredentials
		}
		return nil, services.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, services.Session{}, ErrInvalidCredentials
	}

	session, err := uc.sessionService.Create(ctx, user.ID)
	if err != nil {
		return nil, services.Session{}, err
	}

	log.Info("User logged in", "userID", user.ID)
	return user, session, nil
}

func (uc *UserController) Logout(ctx context.Context, token string) error {
	return uc.sessionService.Destroy(ctx, token)
}

func (uc *UserController) Get(ctx context.Context, userID int) (*User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserController) UpdateUsername(ctx context.Context, userID int, username string) (*User, error) {
	log := uc.log.Function("UpdateUsername")

	if existing, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		if existing.ID != userID {
			return nil, ErrUsernameTaken
		}
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, log.Err("failed to check username", err, "username", username)
	}

	return uc.userRepo.UpdateUsername(ctx, userID, username)
}

// Delete removes the account and detaches its requests, which stay stored as
// anonymous submissions.
func (uc *UserController) Delete(ctx context.Context, userID int, token string) error {
	log := uc.log.Function("Delete")

	err := uc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if tx, ok := services.GetTransaction(txCtx); ok {
			if err := tx.Model(&Request{}).
				Where("owner_id = ?", userID).
				Update("owner_id", nil).Error; err != nil {
				return log.Err("failed to detach requests", err, "userID", userID)
			}
		}
		return uc.userRepo.Delete(txCtx, userID)
	})
	if err != nil {
		return err
	}

	if err := uc.sessionService.Destroy(ctx, token); err != nil {
		log.Warn("failed to destroy session after delete", "userID", userID, "error", err)
	}

	return nil
}

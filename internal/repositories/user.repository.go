package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"geoportal/internal/database"
	"geoportal/internal/logger"
	. "geoportal/internal/models"
	"geoportal/internal/services"

	"gorm.io/gorm"
)

const USER_CACHE_EXPIRY = 1 * time.Hour

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateUsername(ctx context.Context, id int, username string) (*User, error)
	Delete(ctx context.Context, id int) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUser(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if found, err := database.NewCacheBuilder(r.db.Cache.User, strconv.Itoa(id)).
		WithContext(ctx).
		Get(&user); err == nil && found {
		return &user, nil
	}

	if err := r.getDB(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	log := r.log.Function("GetByUsername")

	var user User
	if err := r.getDB(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, log.Err("failed to get user by username", err, "username", username)
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "username", user.Username)
	}

	if err := r.addUserToCache(ctx, user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	return nil
}

// UpdateUsername changes the one user-editable column. The row is loaded
// from the database, never the cache: cached copies are sanitized (no
// password hash), so writing one back with Save would blank the column.
func (r *userRepository) UpdateUsername(ctx context.Context, id int, username string) (*User, error) {
	log := r.log.Function("UpdateUsername")

	var user User
	if err := r.getDB(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, log.Err("failed to load user for update", err, "id", id)
	}

	if err := r.getDB(ctx).Model(&user).Update("username", username).Error; err != nil {
		return nil, log.Err("failed to update username", err, "id", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to update user in cache", "userID", user.ID, "error", err)
	}

	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&User{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete user", err, "id", id)
	}

	if err := database.NewCacheBuilder(r.db.Cache.User, strconv.Itoa(id)).Delete(); err != nil {
		log.Warn("failed to remove user from cache", "userID", id, "error", err)
	}

	return nil
}

// Cached copies never carry the password hash (json:"-"), so credential
// checks must always read through GetByUsername.
func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	return database.NewCacheBuilder(r.db.Cache.User, strconv.Itoa(user.ID)).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set()
}

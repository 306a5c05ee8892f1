package userController

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"geoportal/config"
	"geoportal/internal/database"
	. "geoportal/internal/models"
	"geoportal/internal/repositories"
	"geoportal/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupController(t *testing.T) (*UserController, database.DB, *services.SessionService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&User{}, &Request{}))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	cacheClient := func() valkey.Client {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress:  []string{mr.Addr()},
			DisableCache: true,
		})
		require.NoError(t, err)
		t.Cleanup(client.Close)
		return client
	}

	db := database.DB{
		SQL: gormDB,
		Cache: database.Cache{
			Session: cacheClient(),
			User:    cacheClient(),
		},
	}

	testConfig := config.Config{SessionTTLHours: 1, BcryptCost: bcrypt.MinCost}
	sessionService := services.NewSessionService(db, testConfig)
	controller := New(
		repositories.NewUser(db),
		sessionService,
		services.NewTransactionService(db),
		testConfig,
	)
	return controller, db, sessionService
}

func TestRegister(t *testing.T) {
	controller, _, sessionService := setupController(t)
	ctx := context.Background()

	user, session, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada", user.Username)
	assert.NotEqual(t, "hunter2", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2")))

	// Registration logs the user straight in.
	loaded, found, err := sessionService.Get(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, user.ID, loaded.UserID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	_, _, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)

	_, _, err = controller.Register(ctx, "ada", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	registered, _, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)

	user, session, err := controller.Login(ctx, "ada", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, session.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	_, _, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)

	_, _, err = controller.Login(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	controller, _, _ := setupController(t)

	_, _, err := controller.Login(context.Background(), "nobody", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	controller, _, sessionService := setupController(t)
	ctx := context.Background()

	_, session, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)

	require.NoError(t, controller.Logout(ctx, session.Token))

	_, found, err := sessionService.Get(ctx, session.Token)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateUsername(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	user, _, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)

	updated, err := controller.UpdateUsername(ctx, user.ID, "lovelace")
	require.NoError(t, err)
	assert.Equal(t, "lovelace", updated.Username)

	// New name is live for login.
	_, _, err = controller.Login(ctx, "lovelace", "hunter2")
	assert.NoError(t, err)
}

func TestUpdateUsername_Taken(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	_, _, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)
	user, _, err := controller.Register(ctx, "grace", "hunter2")
	require.NoError(t, err)

	_, err = controller.UpdateUsername(ctx, user.ID, "ada")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateUsername_SameName(t *testing.T) {
	controller, _, _ := setupController(t)
	ctx := context.Background()

	user, _, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)

	updated, err := controller.UpdateUsername(ctx, user.ID, "ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", updated.Username)
}

func TestDelete_DetachesRequests(t *testing.T) {
	controller, db, sessionService := setupController(t)
	ctx := context.Background()

	user, session, err := controller.Register(ctx, "ada", "hunter2")
	require.NoError(t, err)

	request := &Request{
		VariableName:   VariableTemperature,
		PressureLevels: IntList{1000},
		Years:          IntList{2020},
		Months:         IntList{1},
		Days:           IntList{1},
		Hours:          IntList{0},
		AreaCovered:    FloatList{90, -180, -90, 180},
		MapTypes:       MapTypeList{MapTypeCont},
		MapRanges:      MapRangeList{MapRangeMax},
		MapLevels:      IntList{20},
		FileFormat:     FormatSVG,
		OwnerID:        &user.ID,
	}
	require.NoError(t, db.SQL.Create(request).Error)

	require.NoError(t, controller.Delete(ctx, user.ID, session.Token))

	var count int64
	require.NoError(t, db.SQL.Model(&User{}).Count(&count).Error)
	assert.Zero(t, count)

	// The request survives as an anonymous submission.
	var stored Request
	require.NoError(t, db.SQL.First(&stored, request.ID).Error)
	assert.Nil(t, stored.OwnerID)

	_, found, err := sessionService.Get(ctx, session.Token)
	require.NoError(t, err)
	assert.False(t, found)
}

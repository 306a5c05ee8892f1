package services

import (
	"context"
	"testing"
	"time"

	"geoportal/config"
	"geoportal/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

func setupSessionService(t *testing.T) (*SessionService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	db := database.DB{Cache: database.Cache{Session: client}}
	return NewSessionService(db, config.Config{SessionTTLHours: 1}), mr
}

func TestSessionService_CreateAndGet(t *testing.T) {
	service, _ := setupSessionService(t)
	ctx := context.Background()

	session, err := service.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, 42, session.UserID)

	loaded, found, err := service.Get(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, loaded.UserID)
	assert.Equal(t, session.Token, loaded.Token)
}

func TestSessionService_GetUnknownToken(t *testing.T) {
	service, _ := setupSessionService(t)

	_, found, err := service.Get(context.Background(), "not-a-session")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionService_GetEmptyToken(t *testing.T) {
	service, _ := setupSessionService(t)

	_, found, err := service.Get(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionService_Destroy(t *testing.T) {
	service, _ := setupSessionService(t)
	ctx := context.Background()

	session, err := service.Create(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, service.Destroy(ctx, session.Token))

	_, found, err := service.Get(ctx, session.Token)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionService_Expiry(t *testing.T) {
	service, mr := setupSessionService(t)
	ctx := context.Background()

	session, err := service.Create(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, found, err := service.Get(ctx, session.Token)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionService_DistinctTokens(t *testing.T) {
	service, _ := setupSessionService(t)
	ctx := context.Background()

	first, err := service.Create(ctx, 1)
	require.NoError(t, err)
	second, err := service.Create(ctx, 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

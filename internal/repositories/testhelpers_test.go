package repositories

import (
	"fmt"
	"strings"
	"testing"

	"geoportal/internal/database"
	. "geoportal/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a per-test shared-cache in-memory database so the
// connection pool sees a single store.
func setupTestDB(t *testing.T) database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(&User{}, &Request{}))

	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return database.DB{SQL: gormDB}
}

// setupTestDBWithCache adds miniredis-backed User and Request cache clients,
// for tests that exercise the cache-first read paths.
func setupTestDBWithCache(t *testing.T) database.DB {
	t.Helper()

	db := setupTestDB(t)
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

	db.Cache = database.Cache{
		User:    cacheClient(),
		Request: cacheClient(),
	}
	return db
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func testRequest(variable Variable, ownerID *int) *Request {
	return &Request{
		VariableName:   variable,
		PressureLevels: IntList{1000, 850},
		Years:          IntList{2020},
		Months:         IntList{1},
		Days:           IntList{1},
		Hours:          IntList{0},
		AreaCovered:    FloatList{90, -180, -90, 180},
		MapTypes:       MapTypeList{MapTypeCont},
		MapRanges:      MapRangeList{MapRangeMax},
		MapLevels:      IntList{20},
		FileFormat:     FormatSVG,
		OwnerID:        ownerID,
	}
}

package main

import (
	"flag"
	"log/slog"
	"os"

	"geoportal/cmd/migration/initialize"
	"geoportal/cmd/migration/seed"
	"geoportal/config"
	"geoportal/internal/database"
	"geoportal/internal/logger"
	"geoportal/migrations"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logger.Init(slog.LevelInfo)
	log := logger.New("migration")

	runSeed := flag.Bool("seed", false, "seed development data after migrating")
	runDown := flag.Bool("down", false, "roll back all migrations instead of applying them")
	runFlush := flag.Bool("flush", false, "flush all cache databases after migrating")
	flag.Parse()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseDbPath), &gorm.Config{})
	if err != nil {
		log.Er("failed to open database", err, "dbPath", cfg.DatabaseDbPath)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Er("failed to get sql database", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       ".",
	}

	direction := migrate.Up
	if *runDown {
		direction = migrate.Down
	}

	applied, err := migrate.Exec(sqlDB, "sqlite3", source, direction)
	if err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}
	log.Info("Migrations applied", "count", applied)

	if *runDown {
		return
	}

	if err := initialize.InitializeTables(db, cfg, log); err != nil {
		log.Er("failed to initialize tables", err)
		os.Exit(1)
	}

	if *runSeed {
		if err := seed.Seed(db, cfg, log); err != nil {
			log.Er("failed to seed data", err)
			os.Exit(1)
		}
	}

	// Cached rows predate the new schema; drop them so nothing stale is
	// served after a migration.
	if *runFlush {
		store, err := database.New(cfg)
		if err != nil {
			log.Er("failed to connect for cache flush", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.FlushAllCaches(); err != nil {
			log.Er("failed to flush caches", err)
			os.Exit(1)
		}
	}
}

package initialize

import (
	"geoportal/config"
	"geoportal/internal/logger"
	. "geoportal/internal/models"

	"gorm.io/gorm"
)

// InitializeTables reconciles the schema with the models. The SQL migrations
// are the source of truth in production; AutoMigrate catches drift in dev.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing tables")

	if err := db.AutoMigrate(&User{}, &Request{}); err != nil {
		return log.Err("failed to migrate tables", err)
	}

	log.Info("Table initialization complete")
	return nil
}

package config

import (
	"strings"

	"geoportal/internal/logger"

	"github.com/spf13/viper"
)

// Config is kept comparable so callers can check against the zero value.
type Config struct {
	ServerHost string
	ServerPort int

	DatabaseDbPath       string
	DatabaseCacheAddress string
	DatabaseCachePort    int

	SessionTTLHours int
	BcryptCost      int
}

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("geoportal")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.db_path", "data/geoportal.db")
	viper.SetDefault("database.cache_address", "localhost")
	viper.SetDefault("database.cache_port", 6379)
	viper.SetDefault("session.ttl_hours", 72)
	viper.SetDefault("auth.bcrypt_cost", 12)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, log.Err("failed to read config file", err)
		}
		log.Info("No config file found, using environment and defaults")
	}

	config := Config{
		ServerHost:           viper.GetString("server.host"),
		ServerPort:           viper.GetInt("server.port"),
		DatabaseDbPath:       viper.GetString("database.db_path"),
		DatabaseCacheAddress: viper.GetString("database.cache_address"),
		DatabaseCachePort:    viper.GetInt("database.cache_port"),
		SessionTTLHours:      viper.GetInt("session.ttl_hours"),
		BcryptCost:           viper.GetInt("auth.bcrypt_cost"),
	}

	return config, nil
}

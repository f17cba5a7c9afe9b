package db

import (
	"gorm.io/gorm"

	"github.com/minifigstore/api/internal/config"
)

// GetDB opens the storefront database described by cfg. Credentials come
// from the config when set, otherwise from Secrets Manager.
func GetDB(cfg *config.Config) (*gorm.DB, error) {
	username, password := cfg.DBUsername, cfg.DBPassword
	if username == "" || password == "" {
		var err error
		username, password, err = retrieveCredentials(cfg.DBSecretID)
		if err != nil {
			return nil, err
		}
	}
	return ConnectDatabase(cfg.DBPort, cfg.DBHost, cfg.DBName, username, password)
}

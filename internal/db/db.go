package db

import (
	"fmt"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New creates a new database connection.
func New(cfg *config.Config) (*gorm.DB, error) {
	return connectToDatabaseWithRetry(cfg.EnvVars.DatabaseUrl)
}

// connectToDatabaseWithRetry connects to the database and retries if necessary.
func connectToDatabaseWithRetry(databaseURL string) (*gorm.DB, error) {
	logger.Get().Info("connecting to database", zap.String("url", databaseURL))
	var database *gorm.DB
	var err error

	start := time.Now()
	for {
		database, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Since(start) > 1*time.Minute {
			return nil, fmt.Errorf("could not connect to database after 1 minute: %w", err)
		}
		logger.Get().Warn("could not connect to database, retrying...", zap.Error(err))
		time.Sleep(5 * time.Second)
	}

	// AutoMigrate all models.
	database.AutoMigrate(
		&models.User{},
		&models.UserAuth{},
		&models.Subscription{},
		&models.UserSettings{},
		&models.FarmProfile{},
		&models.Conversation{},
		&models.ConversationTurn{},
		&models.DiagnosisReport{},
		&models.MandiPrice{},
	)

	return database, err
}

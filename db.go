package main

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JetWong0810/football-betting-system/config"
	"github.com/JetWong0810/football-betting-system/models"
)

var db *gorm.DB

func initDB(cfg *config.Config) error {
	var err error
	db, err = gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connect mysql: %w", err)
	}
	if err := migrateDB(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	seedDB()
	return nil
}

func migrateDB() error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserConfig{},
		&models.BetRecord{},
		&models.Match{},
		&models.OddsWinDrawLose{},
		&models.OddsCorrectScore{},
		&models.OddsTotalGoals{},
		&models.OddsHalfFullTime{},
		&models.SyncStatus{},
	)
}

func seedDB() {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin := models.User{
			Username:     "admin",
			PasswordHash: hash,
			Nickname:     "admin",
			Config:       &models.UserConfig{},
		}
		if err := db.Create(&admin).Error; err != nil {
			logger.Warn().Err(err).Msg("seed admin failed")
		} else {
			logger.Info().Msg("seeded admin user: username=admin, password=admin123")
		}
	}
	touchSyncStatus()
}

// touchSyncStatus ensures the single sync_status row exists.
func touchSyncStatus() {
	var count int64
	db.Model(&models.SyncStatus{}).Where("id = ?", 1).Count(&count)
	if count == 0 {
		db.Create(&models.SyncStatus{ID: 1})
	}
}

func fetchSyncStatus() models.SyncStatus {
	touchSyncStatus()
	var status models.SyncStatus
	if err := db.First(&status, 1).Error; err != nil {
		return models.SyncStatus{ID: 1}
	}
	return status
}

// syncStatusJSON renders the status the way the health endpoint exposes it.
func syncStatusJSON() map[string]interface{} {
	status := fetchSyncStatus()
	var last interface{}
	if status.LastSyncedAt != nil {
		last = status.LastSyncedAt.UTC().Format(time.RFC3339)
	}
	return map[string]interface{}{
		"last_synced_at": last,
		"total_matches":  status.TotalMatches,
		"total_odds":     status.TotalOdds,
	}
}

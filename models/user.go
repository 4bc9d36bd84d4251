package models

import (
	"time"
)

// User account. Nickname defaults to the username at registration.
type User struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Username     string `gorm:"size:64;not null;unique"`
	PasswordHash []byte `gorm:"not null"`
	Phone        string `gorm:"size:32"`
	Email        string `gorm:"size:255"`
	Nickname     string `gorm:"size:64"`
	Avatar       string `gorm:"size:512"`
	Status       string `gorm:"size:16;default:active"`
	LastLoginAt  *time.Time
	Config       *UserConfig `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Bets         []BetRecord
}

// UserConfig holds per-user money-management settings, created together with
// the account.
type UserConfig struct {
	ID                  uint `gorm:"primaryKey"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	UserID              uint    `gorm:"uniqueIndex;not null"`
	StartingCapital     float64 `gorm:"default:10000"`
	FixedRatio          float64 `gorm:"default:0.02"`
	KellyFactor         float64 `gorm:"default:0.25"`
	StopLossLimit       int     `gorm:"default:3"`
	TargetMonthlyReturn float64 `gorm:"default:0.1"`
	Theme               string  `gorm:"size:16;default:light"`
}

package models

import (
	"time"
)

// Bet record statuses.
const (
	BetStatusSaved   = "saved"
	BetStatusBetting = "betting"
	BetStatusSettled = "settled"
)

// BetRecord is one saved wager. BetData carries the structured legs as a JSON
// document so the frontend can round-trip whatever the parser produced.
type BetRecord struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null"`
	BetData   string `gorm:"type:text;not null"`
	BetTime   string `gorm:"size:32;not null"`
	Status    string `gorm:"size:16;not null;default:saved;index"`
	Stake     float64
	Odds      float64
	Result    string `gorm:"size:32"`
	Profit    *float64
}

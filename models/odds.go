package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Win/draw/lose odds types.
const (
	OddsTypeHAD  = "had"  // fixed odds
	OddsTypeHHAD = "hhad" // handicap-adjusted odds
)

// OddsWinDrawLose carries one had/hhad odds row per match.
type OddsWinDrawLose struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	MatchID     string          `gorm:"size:32;not null;uniqueIndex:uniq_wdl" json:"match_id"`
	OddsType    string          `gorm:"size:8;not null;uniqueIndex:uniq_wdl" json:"odds_type"`
	Handicap    string          `gorm:"size:8" json:"handicap"`
	WinOdds     decimal.Decimal `gorm:"type:decimal(8,2)" json:"win_odds"`
	DrawOdds    decimal.Decimal `gorm:"type:decimal(8,2)" json:"draw_odds"`
	LoseOdds    decimal.Decimal `gorm:"type:decimal(8,2)" json:"lose_odds"`
	WinSupport  string          `gorm:"size:16" json:"win_support"`
	DrawSupport string          `gorm:"size:16" json:"draw_support"`
	LoseSupport string          `gorm:"size:16" json:"lose_support"`
	IsSingle    int             `json:"is_single"`
}

// OddsCorrectScore carries one exact-score line. Scores use -1 for the
// "other" bucket so the unique index never sees NULL.
type OddsCorrectScore struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	MatchID    string          `gorm:"size:32;not null;uniqueIndex:uniq_crs" json:"match_id"`
	ResultType string          `gorm:"size:8;not null;uniqueIndex:uniq_crs" json:"result_type"`
	HomeScore  int             `gorm:"default:-1;uniqueIndex:uniq_crs" json:"home_score"`
	AwayScore  int             `gorm:"default:-1;uniqueIndex:uniq_crs" json:"away_score"`
	ScoreLabel string          `gorm:"size:16" json:"score_label"`
	Odds       decimal.Decimal `gorm:"type:decimal(8,2)" json:"odds"`
	IsOther    int             `json:"is_other"`
}

// OddsTotalGoals carries one total-goals bucket.
type OddsTotalGoals struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	MatchID   string          `gorm:"size:32;not null;uniqueIndex:uniq_ttg" json:"match_id"`
	GoalRange string          `gorm:"size:16;not null;uniqueIndex:uniq_ttg" json:"goal_range"`
	MinGoals  int             `json:"min_goals"`
	MaxGoals  int             `json:"max_goals"`
	Odds      decimal.Decimal `gorm:"type:decimal(8,2)" json:"odds"`
}

// OddsHalfFullTime carries one half-time/full-time combination.
type OddsHalfFullTime struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	MatchID     string          `gorm:"size:32;not null;uniqueIndex:uniq_hafu" json:"match_id"`
	HalfResult  string          `gorm:"size:8;not null;uniqueIndex:uniq_hafu" json:"half_result"`
	FullResult  string          `gorm:"size:8;not null;uniqueIndex:uniq_hafu" json:"full_result"`
	ResultLabel string          `gorm:"size:16" json:"result_label"`
	Odds        decimal.Decimal `gorm:"type:decimal(8,2)" json:"odds"`
}

package models

import (
	"time"
)

// Match mirrors one fixture from the sporttery calculator feed. MatchID is
// the upstream identifier; MatchNumber is the issue number whose first six
// digits encode the sale date (251120 -> 2025-11-20).
type Match struct {
	MatchID        string `gorm:"primaryKey;size:32" json:"match_id"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	MatchNumber    string `gorm:"size:16;index" json:"match_number"`
	MatchCode      string `gorm:"size:16" json:"match_code"`
	ProjectType    string `gorm:"size:16" json:"project_type"`
	LeagueID       string `gorm:"size:32" json:"league_id"`
	LeagueName     string `gorm:"size:64;index" json:"league_name"`
	LeagueFullName string `gorm:"size:128" json:"league_full_name"`
	MatchDate      string `gorm:"size:16" json:"match_date"`
	MatchTime      string `gorm:"size:16" json:"match_time"`
	MatchTimestamp int64  `json:"match_timestamp"`
	HomeTeamID     string `gorm:"size:32" json:"home_team_id"`
	HomeTeamName   string `gorm:"size:64" json:"home_team_name"`
	HomeTeamRank   string `gorm:"size:16" json:"home_team_rank"`
	AwayTeamID     string `gorm:"size:32" json:"away_team_id"`
	AwayTeamName   string `gorm:"size:64" json:"away_team_name"`
	AwayTeamRank   string `gorm:"size:16" json:"away_team_rank"`
	IsSingle       int    `json:"is_single"`
	MatchStatus    string `gorm:"size:16" json:"match_status"`
	Notice         string `gorm:"size:255" json:"notice"`
	OddsUpdateTime string `gorm:"size:32" json:"odds_update_time"`
}

// SyncStatus is a single-row table tracking the last scraper run.
type SyncStatus struct {
	ID           uint `gorm:"primaryKey"`
	UpdatedAt    time.Time
	LastSyncedAt *time.Time `json:"last_synced_at"`
	TotalMatches int        `json:"total_matches"`
	TotalOdds    int        `json:"total_odds"`
}

// Package scraper syncs fixtures and odds from the sporttery calculator
// feed into MySQL.
package scraper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JetWong0810/football-betting-system/models"
)

// Pool code query values, grouped the way the feed accepts them.
var poolCodes = map[string]string{
	"had_hhad": "hhad,had",
	"crs":      "crs",
	"ttg":      "ttg",
	"hafu":     "hafu",
}

type apiResponse struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	Value        struct {
		MatchInfoList []matchGroup `json:"matchInfoList"`
	} `json:"value"`
}

type matchGroup struct {
	BusinessDate string      `json:"businessDate"`
	SubMatchList []feedMatch `json:"subMatchList"`
}

type feedMatch struct {
	MatchID         json.Number `json:"matchId"`
	MatchNum        string      `json:"matchNum"`
	MatchNumStr     string      `json:"matchNumStr"`
	ProjectType     string      `json:"projectType"`
	LeagueID        json.Number `json:"leagueId"`
	LeagueAbbName   string      `json:"leagueAbbName"`
	LeagueAllName   string      `json:"leagueAllName"`
	MatchDate       string      `json:"matchDate"`
	MatchTime       string      `json:"matchTime"`
	HomeTeamID      json.Number `json:"homeTeamId"`
	HomeTeamAbbName string      `json:"homeTeamAbbName"`
	HomeRank        string      `json:"homeRank"`
	AwayTeamID      json.Number `json:"awayTeamId"`
	AwayTeamAbbName string      `json:"awayTeamAbbName"`
	AwayRank        string      `json:"awayRank"`
	IsSingle        int         `json:"isSingle"`
	MatchStatus     string      `json:"matchStatus"`
	Notice          string      `json:"notice"`
	OddsUpdateTime  string      `json:"oddsUpdateTime"`

	Had  *feedWDL  `json:"had"`
	Hhad *feedWDL  `json:"hhad"`
	Crs  *feedPool `json:"crs"`
	Ttg  *feedPool `json:"ttg"`
	Hafu *feedPool `json:"hafu"`
}

type feedWDL struct {
	H        string `json:"h"`
	D        string `json:"d"`
	A        string `json:"a"`
	GoalLine string `json:"goalLine"`
	HSupport string `json:"hSupport"`
	DSupport string `json:"dSupport"`
	ASupport string `json:"aSupport"`
	Single   int    `json:"single"`
}

type feedPool struct {
	OddsList []feedPoolItem `json:"oddsList"`
}

type feedPoolItem struct {
	Name string `json:"oddsName"`
	Odds string `json:"odds"`
}

// cstZone is the feed's reference timezone.
var cstZone = time.FixedZone("CST", 8*3600)

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// matchNumber prefers the issue-number form that carries the sale date.
func (m *feedMatch) matchNumber() string {
	if m.MatchNumStr != "" {
		return m.MatchNumStr
	}
	return m.MatchNum
}

// toModel converts a feed entry to the stored match row. The kickoff
// timestamp is derived from the feed's date and time in Beijing time.
func (m *feedMatch) toModel() models.Match {
	var ts int64
	if m.MatchDate != "" {
		layout := "2006-01-02 15:04"
		joined := m.MatchDate + " " + m.MatchTime
		if m.MatchTime == "" {
			layout = "2006-01-02"
			joined = m.MatchDate
		}
		if t, err := time.ParseInLocation(layout, joined, cstZone); err == nil {
			ts = t.Unix()
		}
	}
	return models.Match{
		MatchID:        m.MatchID.String(),
		MatchNumber:    m.matchNumber(),
		MatchCode:      m.MatchNum,
		ProjectType:    m.ProjectType,
		LeagueID:       m.LeagueID.String(),
		LeagueName:     m.LeagueAbbName,
		LeagueFullName: m.LeagueAllName,
		MatchDate:      m.MatchDate,
		MatchTime:      m.MatchTime,
		MatchTimestamp: ts,
		HomeTeamID:     m.HomeTeamID.String(),
		HomeTeamName:   m.HomeTeamAbbName,
		HomeTeamRank:   m.HomeRank,
		AwayTeamID:     m.AwayTeamID.String(),
		AwayTeamName:   m.AwayTeamAbbName,
		AwayTeamRank:   m.AwayRank,
		IsSingle:       m.IsSingle,
		MatchStatus:    m.MatchStatus,
		Notice:         m.Notice,
		OddsUpdateTime: m.OddsUpdateTime,
	}
}

func (m *feedMatch) wdlModels() []models.OddsWinDrawLose {
	var out []models.OddsWinDrawLose
	if m.Had != nil {
		out = append(out, m.Had.toModel(m.MatchID.String(), models.OddsTypeHAD))
	}
	if m.Hhad != nil {
		out = append(out, m.Hhad.toModel(m.MatchID.String(), models.OddsTypeHHAD))
	}
	return out
}

func (w *feedWDL) toModel(matchID, oddsType string) models.OddsWinDrawLose {
	return models.OddsWinDrawLose{
		MatchID:     matchID,
		OddsType:    oddsType,
		Handicap:    w.GoalLine,
		WinOdds:     parseDecimal(w.H),
		DrawOdds:    parseDecimal(w.D),
		LoseOdds:    parseDecimal(w.A),
		WinSupport:  w.HSupport,
		DrawSupport: w.DSupport,
		LoseSupport: w.ASupport,
		IsSingle:    w.Single,
	}
}

// parseScoreLabel splits "3:1" into its two sides. Aggregate buckets like
// 胜其他 carry no numeric score; both sides come back -1 so the unique index
// stays NULL-free.
func parseScoreLabel(label string) (home, away int, other bool) {
	parts := strings.Split(label, ":")
	if len(parts) != 2 {
		return -1, -1, true
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	a, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return -1, -1, true
	}
	return h, a, false
}

// scoreResultType buckets an exact score into win/draw/lose. Aggregate
// labels fall back to the keyword in the label itself.
func scoreResultType(label string, home, away int, other bool) string {
	if other {
		switch {
		case strings.Contains(label, "平"):
			return "draw"
		case strings.Contains(label, "负"):
			return "lose"
		default:
			return "win"
		}
	}
	switch {
	case home > away:
		return "win"
	case home == away:
		return "draw"
	default:
		return "lose"
	}
}

func (m *feedMatch) scoreModels() []models.OddsCorrectScore {
	if m.Crs == nil {
		return nil
	}
	out := make([]models.OddsCorrectScore, 0, len(m.Crs.OddsList))
	for _, item := range m.Crs.OddsList {
		home, away, other := parseScoreLabel(item.Name)
		row := models.OddsCorrectScore{
			MatchID:    m.MatchID.String(),
			ResultType: scoreResultType(item.Name, home, away, other),
			HomeScore:  home,
			AwayScore:  away,
			ScoreLabel: item.Name,
			Odds:       parseDecimal(item.Odds),
		}
		if other {
			row.IsOther = 1
		}
		out = append(out, row)
	}
	return out
}

// parseGoalRange maps "0".."6" and the open "7+" bucket to bounds.
func parseGoalRange(label string) (min, max int) {
	label = strings.TrimSpace(label)
	if strings.HasSuffix(label, "+") {
		if n, err := strconv.Atoi(strings.TrimSuffix(label, "+")); err == nil {
			return n, 99
		}
		return 0, 99
	}
	if n, err := strconv.Atoi(label); err == nil {
		return n, n
	}
	return 0, 99
}

func (m *feedMatch) goalModels() []models.OddsTotalGoals {
	if m.Ttg == nil {
		return nil
	}
	out := make([]models.OddsTotalGoals, 0, len(m.Ttg.OddsList))
	for _, item := range m.Ttg.OddsList {
		min, max := parseGoalRange(item.Name)
		out = append(out, models.OddsTotalGoals{
			MatchID:   m.MatchID.String(),
			GoalRange: item.Name,
			MinGoals:  min,
			MaxGoals:  max,
			Odds:      parseDecimal(item.Odds),
		})
	}
	return out
}

// halfFullResults splits a two-outcome label like 胜平 or "hd" into its
// half-time and full-time legs.
func halfFullResults(label string) (half, full string) {
	outcomes := []rune(strings.TrimSpace(label))
	if len(outcomes) != 2 {
		return "", ""
	}
	toCode := func(r rune) string {
		switch r {
		case '胜', 'h', 'H':
			return "h"
		case '平', 'd', 'D':
			return "d"
		case '负', 'a', 'A':
			return "a"
		}
		return ""
	}
	return toCode(outcomes[0]), toCode(outcomes[1])
}

func (m *feedMatch) hafuModels() []models.OddsHalfFullTime {
	if m.Hafu == nil {
		return nil
	}
	out := make([]models.OddsHalfFullTime, 0, len(m.Hafu.OddsList))
	for _, item := range m.Hafu.OddsList {
		half, full := halfFullResults(item.Name)
		if half == "" || full == "" {
			continue
		}
		out = append(out, models.OddsHalfFullTime{
			MatchID:     m.MatchID.String(),
			HalfResult:  half,
			FullResult:  full,
			ResultLabel: item.Name,
			Odds:        parseDecimal(item.Odds),
		})
	}
	return out
}

func (r *apiResponse) matches() ([]feedMatch, error) {
	if r.ErrorCode != "0" && r.ErrorCode != "" {
		return nil, fmt.Errorf("feed error %s: %s", r.ErrorCode, r.ErrorMessage)
	}
	var out []feedMatch
	for _, group := range r.Value.MatchInfoList {
		out = append(out, group.SubMatchList...)
	}
	return out, nil
}

package scraper

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JetWong0810/football-betting-system/models"
)

const sampleFeed = `{
  "errorCode": "0",
  "value": {
    "matchInfoList": [
      {
        "businessDate": "2025-11-20",
        "subMatchList": [
          {
            "matchId": 1059001,
            "matchNum": "周四001",
            "matchNumStr": "251120001",
            "leagueId": 31,
            "leagueAbbName": "英超",
            "leagueAllName": "英格兰足球超级联赛",
            "matchDate": "2025-11-20",
            "matchTime": "20:30",
            "homeTeamId": 101,
            "homeTeamAbbName": "曼联",
            "homeRank": "3",
            "awayTeamId": 102,
            "awayTeamAbbName": "利物浦",
            "awayRank": "1",
            "isSingle": 1,
            "matchStatus": "Selling",
            "oddsUpdateTime": "2025-11-20 10:00:00",
            "had": {"h": "2.10", "d": "3.20", "a": "3.05", "single": 1},
            "hhad": {"h": "1.55", "d": "3.90", "a": "4.60", "goalLine": "+1"},
            "crs": {"oddsList": [
              {"oddsName": "1:0", "odds": "6.50"},
              {"oddsName": "0:0", "odds": "8.00"},
              {"oddsName": "负其他", "odds": "25.00"}
            ]},
            "ttg": {"oddsList": [
              {"oddsName": "2", "odds": "3.10"},
              {"oddsName": "7+", "odds": "40.00"}
            ]},
            "hafu": {"oddsList": [
              {"oddsName": "胜胜", "odds": "3.30"},
              {"oddsName": "平负", "odds": "6.80"}
            ]}
          }
        ]
      }
    ]
  }
}`

func parseSample(t *testing.T) feedMatch {
	t.Helper()
	var parsed apiResponse
	require.NoError(t, json.Unmarshal([]byte(sampleFeed), &parsed))
	matches, err := parsed.matches()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return matches[0]
}

func TestFeedMatchToModel(t *testing.T) {
	m := parseSample(t)
	row := m.toModel()

	assert.Equal(t, "1059001", row.MatchID)
	assert.Equal(t, "251120001", row.MatchNumber)
	assert.Equal(t, "周四001", row.MatchCode)
	assert.Equal(t, "英超", row.LeagueName)
	assert.Equal(t, "曼联", row.HomeTeamName)
	assert.Equal(t, "利物浦", row.AwayTeamName)
	assert.Equal(t, 1, row.IsSingle)
	// 2025-11-20 20:30 Beijing time
	assert.Equal(t, int64(1763641800), row.MatchTimestamp)
}

func TestFeedWDLModels(t *testing.T) {
	m := parseSample(t)
	rows := m.wdlModels()
	require.Len(t, rows, 2)

	had := rows[0]
	assert.Equal(t, models.OddsTypeHAD, had.OddsType)
	assert.True(t, had.WinOdds.Equal(decimal.RequireFromString("2.10")))
	assert.Equal(t, 1, had.IsSingle)

	hhad := rows[1]
	assert.Equal(t, models.OddsTypeHHAD, hhad.OddsType)
	assert.Equal(t, "+1", hhad.Handicap)
	assert.True(t, hhad.LoseOdds.Equal(decimal.RequireFromString("4.60")))
}

func TestFeedScoreModels(t *testing.T) {
	m := parseSample(t)
	rows := m.scoreModels()
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].HomeScore)
	assert.Equal(t, 0, rows[0].AwayScore)
	assert.Equal(t, "win", rows[0].ResultType)
	assert.Equal(t, 0, rows[0].IsOther)

	assert.Equal(t, "draw", rows[1].ResultType)

	// aggregate bucket keeps the unique index NULL-free with -1 scores
	other := rows[2]
	assert.Equal(t, -1, other.HomeScore)
	assert.Equal(t, -1, other.AwayScore)
	assert.Equal(t, 1, other.IsOther)
	assert.Equal(t, "lose", other.ResultType)
}

func TestFeedGoalModels(t *testing.T) {
	m := parseSample(t)
	rows := m.goalModels()
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].MinGoals)
	assert.Equal(t, 2, rows[0].MaxGoals)

	assert.Equal(t, "7+", rows[1].GoalRange)
	assert.Equal(t, 7, rows[1].MinGoals)
	assert.Equal(t, 99, rows[1].MaxGoals)
}

func TestFeedHafuModels(t *testing.T) {
	m := parseSample(t)
	rows := m.hafuModels()
	require.Len(t, rows, 2)

	assert.Equal(t, "h", rows[0].HalfResult)
	assert.Equal(t, "h", rows[0].FullResult)
	assert.Equal(t, "胜胜", rows[0].ResultLabel)

	assert.Equal(t, "d", rows[1].HalfResult)
	assert.Equal(t, "a", rows[1].FullResult)
}

func TestFeedErrorCode(t *testing.T) {
	var parsed apiResponse
	require.NoError(t, json.Unmarshal([]byte(`{"errorCode":"500","errorMessage":"maintenance"}`), &parsed))
	_, err := parsed.matches()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maintenance")
}

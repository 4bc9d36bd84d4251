package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JetWong0810/football-betting-system/models"
)

func TestGetSaleCutoff(t *testing.T) {
	cases := []struct {
		name   string
		now    time.Time
		today  string
		passed bool
	}{
		{
			name:   "thursday before 22:00",
			now:    time.Date(2025, 11, 20, 21, 59, 0, 0, cstZone),
			today:  "2025-11-20",
			passed: false,
		},
		{
			name:   "thursday at 22:00",
			now:    time.Date(2025, 11, 20, 22, 0, 0, 0, cstZone),
			today:  "2025-11-20",
			passed: true,
		},
		{
			name:   "friday 22:30 still selling",
			now:    time.Date(2025, 11, 21, 22, 30, 0, 0, cstZone),
			today:  "2025-11-21",
			passed: false,
		},
		{
			name:   "sunday 23:00 closed",
			now:    time.Date(2025, 11, 23, 23, 0, 0, 0, cstZone),
			today:  "2025-11-23",
			passed: true,
		},
		{
			name: "utc input converted to beijing day",
			// 2025-11-20 16:30 UTC is 00:30 on the 21st in Beijing
			now:    time.Date(2025, 11, 20, 16, 30, 0, 0, time.UTC),
			today:  "2025-11-21",
			passed: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cutoff := getSaleCutoff(tc.now)
			assert.Equal(t, tc.today, cutoff.Today)
			assert.Equal(t, tc.passed, cutoff.Passed)
		})
	}
}

func TestDeriveSaleDate(t *testing.T) {
	assert.Equal(t, "2025-11-20", deriveSaleDate("251120001", "2025-11-22"))
	assert.Equal(t, "2025-11-20", deriveSaleDate("251120", ""))
	// non-numeric prefix falls back to the feed date
	assert.Equal(t, "2025-11-22", deriveSaleDate("周四001", "2025-11-22"))
	assert.Equal(t, "2025-11-22", deriveSaleDate("12345", "2025-11-22"))
	assert.Equal(t, "", deriveSaleDate("", ""))
}

func TestQueryInt(t *testing.T) {
	newCtx := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+query, nil)
		return c
	}

	assert.Equal(t, 20, queryInt(newCtx(""), "page_size", 20, 1, 50))
	assert.Equal(t, 7, queryInt(newCtx("page_size=7"), "page_size", 20, 1, 50))
	assert.Equal(t, 50, queryInt(newCtx("page_size=500"), "page_size", 20, 1, 50))
	assert.Equal(t, 20, queryInt(newCtx("page_size=0"), "page_size", 20, 1, 50))
	assert.Equal(t, 20, queryInt(newCtx("page_size=abc"), "page_size", 20, 1, 50))
}

func TestFormatMatch(t *testing.T) {
	m := &models.Match{
		MatchID:        "1059001",
		MatchNumber:    "251120001",
		LeagueName:     "英超",
		MatchTimestamp: 1763641800,
		HomeTeamName:   "曼联",
		AwayTeamName:   "利物浦",
		IsSingle:       1,
		MatchStatus:    "Selling",
	}
	out := formatMatch(m, nil, "251120001")

	assert.Equal(t, "2025-11-20T12:30:00Z", out["kickoff"])
	assert.Equal(t, true, out["isSingle"])
	assert.Equal(t, true, out["isLatestIssue"])
	home, ok := out["homeTeam"].(gin.H)
	require.True(t, ok)
	assert.Equal(t, "曼联", home["name"])

	out = formatMatch(m, nil, "251121001")
	assert.Equal(t, false, out["isLatestIssue"])

	m.MatchTimestamp = 0
	out = formatMatch(m, nil, "")
	assert.Nil(t, out["kickoff"])
}

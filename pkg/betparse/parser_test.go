package betparse

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedParser returns a parser pinned to 2025-11-20 so relative dates and
// defaulted match dates are deterministic.
func fixedParser() *Parser {
	p := NewParser(zerolog.Nop())
	p.now = func() time.Time {
		return time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func TestParseFullHandicapSlip(t *testing.T) {
	p := fixedParser()
	result := p.ParseBetInfo("英超 曼联 vs 利物浦 2025-11-30 让球 +0.5 赔率: 1.85 投注: 100元", nil)

	require.Len(t, result.Legs, 1)
	leg := result.Legs[0]
	assert.Equal(t, "曼联", leg.HomeTeam)
	assert.Equal(t, "利物浦", leg.AwayTeam)
	assert.Equal(t, "英超", leg.League)
	assert.Equal(t, "2025-11-30", leg.MatchDate)
	assert.Equal(t, BetTypeHandicap, leg.BetType)
	assert.Equal(t, "+0.5", leg.Selection)
	assert.Equal(t, 1.85, leg.Odds)
	assert.Equal(t, 100.0, result.Stake)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Empty(t, result.ParlayType)
}

func TestParseHyphenSeparatedSlip(t *testing.T) {
	p := fixedParser()
	result := p.ParseBetInfo("西甲 皇马-巴萨 让球 +1 @1.95 下注200", nil)

	require.Len(t, result.Legs, 1)
	leg := result.Legs[0]
	assert.Equal(t, "皇马", leg.HomeTeam)
	assert.Equal(t, "巴萨", leg.AwayTeam)
	assert.Equal(t, "西甲", leg.League)
	assert.Equal(t, BetTypeHandicap, leg.BetType)
	assert.Equal(t, "+1", leg.Selection)
	assert.Equal(t, 1.95, leg.Odds)
	assert.Equal(t, 200.0, result.Stake)
	// no date in the text: leg falls back to the (fixed) current date
	assert.Equal(t, "2025-11-20", leg.MatchDate)
	assert.Equal(t, 0.8571, result.Confidence)
}

func TestParseTotalGoalsSlip(t *testing.T) {
	p := fixedParser()
	result := p.ParseBetInfo("意甲 尤文对米兰 大小球 大2.5 赔率1.88 金额:50", nil)

	require.Len(t, result.Legs, 1)
	leg := result.Legs[0]
	assert.Equal(t, "尤文", leg.HomeTeam)
	assert.Equal(t, "米兰", leg.AwayTeam)
	assert.Equal(t, "意甲", leg.League)
	assert.Equal(t, BetTypeTotalGoals, leg.BetType)
	assert.Equal(t, "大2.5", leg.Selection)
	// the 2.5 line value must not be mistaken for the odds
	assert.Equal(t, 1.88, leg.Odds)
	assert.Equal(t, 50.0, result.Stake)
}

func TestParseIdempotent(t *testing.T) {
	p := fixedParser()
	text := "英超 曼联 vs 利物浦 明天 让球 +0.5 赔率: 1.85 投注: 100元"
	first := p.ParseBetInfo(text, nil)
	second := p.ParseBetInfo(text, nil)
	assert.Equal(t, first, second)
	require.Len(t, first.Legs, 1)
	assert.Equal(t, "2025-11-21", first.Legs[0].MatchDate)
}

func TestConfidenceBounds(t *testing.T) {
	p := fixedParser()
	for _, text := range []string{
		"",
		"完全无关的一段话",
		"曼联 vs 利物浦",
		"英超 曼联 vs 利物浦 2025-11-30 让球 +0.5 赔率: 1.85 投注: 100元",
	} {
		result := p.ParseBetInfo(text, nil)
		assert.GreaterOrEqual(t, result.Confidence, 0.0, "text=%q", text)
		assert.LessOrEqual(t, result.Confidence, 1.0, "text=%q", text)
	}

	// bet type always defaults, so an empty input still identifies one field
	assert.Equal(t, 0.1429, p.ParseBetInfo("", nil).Confidence)

	// full confidence requires every tracked field at once
	partial := p.ParseBetInfo("曼联 vs 利物浦 赔率: 1.85", nil)
	assert.Less(t, partial.Confidence, 1.0)
}

func TestParseImageResultSuccess(t *testing.T) {
	p := fixedParser()
	env := p.ParseImageResult(OCRResult{
		Success:    true,
		Text:       "英超 曼联 vs 利物浦 胜平负 主胜 赔率: 2.10 投注100元",
		Confidence: 0.92,
	})

	require.True(t, env.Success)
	require.NotNil(t, env.Data)
	require.Len(t, env.Data.Legs, 1)
	assert.Equal(t, "主胜", env.Data.Legs[0].Selection)
	assert.Equal(t, BetTypeOutcome, env.Data.Legs[0].BetType)
	assert.Equal(t, 2.10, env.Data.Legs[0].Odds)
	assert.Equal(t, 0.92, env.OCRConfidence)
	assert.NotEmpty(t, env.RawText)
}

func TestParseImageResultNoTeams(t *testing.T) {
	p := fixedParser()
	env := p.ParseImageResult(OCRResult{
		Success:    true,
		Text:       "这是一段没有比赛信息的文字",
		Confidence: 0.8,
	})

	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
	// the partial result is still returned for diagnostics
	require.NotNil(t, env.Data)
	assert.Empty(t, env.Data.Legs)
	assert.Equal(t, "这是一段没有比赛信息的文字", env.RawText)
}

func TestParseImageResultOCRFailure(t *testing.T) {
	p := fixedParser()

	env := p.ParseImageResult(OCRResult{Success: false, Error: "图片格式错误"})
	assert.False(t, env.Success)
	assert.Equal(t, "图片格式错误", env.Error)
	assert.Nil(t, env.Data)

	env = p.ParseImageResult(OCRResult{Success: true, Text: ""})
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
}

package betparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTeamsSeparatorPrecedence(t *testing.T) {
	p := fixedParser()

	cases := []struct {
		name string
		text string
		home string
		away string
	}{
		{"vs", "曼联 vs 利物浦", "曼联", "利物浦"},
		{"vs uppercase", "Arsenal VS Chelsea", "Arsenal", "Chelsea"},
		{"dui", "尤文对米兰", "尤文", "米兰"},
		{"hyphen", "皇马-巴萨", "皇马", "巴萨"},
		{"whitespace fallback", "拜仁 多特", "拜仁", "多特"},
		// an explicit separator anywhere beats the whitespace fallback
		{"vs beats whitespace", "拜仁 多特 vs 莱比锡", "多特", "莱比锡"},
		// trailing digits never leak into a team name
		{"digits stripped", "曼联 vs 利物浦 2025-11-30", "曼联", "利物浦"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			home, away := p.ExtractTeams(tc.text)
			assert.Equal(t, tc.home, home)
			assert.Equal(t, tc.away, away)
		})
	}
}

func TestExtractTeamsRejectsImplausibleNames(t *testing.T) {
	p := fixedParser()

	// single-rune captures around a separator are noise, not team names
	home, away := p.ExtractTeams("A对B哦")
	assert.Empty(t, home)
	assert.Empty(t, away)

	// scorelines never match, digits are excluded from the captured spans
	home, away = p.ExtractTeams("比分 1-0")
	assert.Empty(t, home)
	assert.Empty(t, away)
}

func TestExtractLeague(t *testing.T) {
	p := fixedParser()

	assert.Equal(t, "英超", p.ExtractLeague("英超 曼联 vs 利物浦"))
	assert.Equal(t, "欧洲冠军联赛", p.ExtractLeague("足球 | 欧洲冠军联赛 皇马 vs 拜仁"))
	// keyword hits widen to the surrounding token
	assert.Equal(t, "2025英超第12轮", p.ExtractLeague("2025英超第12轮 曼联 vs 利物浦"))
	assert.Empty(t, p.ExtractLeague("曼联 vs 利物浦"))
}

func TestExtractDateCascade(t *testing.T) {
	p := fixedParser() // today = 2025-11-20

	cases := []struct {
		text string
		want string
	}{
		{"2025-11-30 曼联 vs 利物浦", "2025-11-30"},
		{"2025/3/5 比赛", "2025-03-05"},
		{"11月30日 曼联 vs 利物浦", "2025-11-30"},
		{"12/01 开赛", "2025-12-01"},
		{"今天 曼联 vs 利物浦", "2025-11-20"},
		{"明天开赛", "2025-11-21"},
		{"后天的比赛", "2025-11-22"},
		// numeric forms outrank relative phrases
		{"明天 11月30日", "2025-11-30"},
		{"曼联 vs 利物浦", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.ExtractDate(tc.text), "text=%q", tc.text)
	}
}

func TestExtractBetType(t *testing.T) {
	p := fixedParser()

	assert.Equal(t, BetTypeOutcome, p.ExtractBetType("胜平负 主胜"))
	assert.Equal(t, BetTypeHandicap, p.ExtractBetType("让球 +0.5"))
	assert.Equal(t, BetTypeHandicap, p.ExtractBetType("handicap -1"))
	assert.Equal(t, BetTypeTotalGoals, p.ExtractBetType("大小球 大2.5"))
	assert.Equal(t, BetTypeTotalGoals, p.ExtractBetType("总进球数 3"))
	// outcome keywords are tried first, so 让球胜平负 is still an outcome market
	assert.Equal(t, BetTypeOutcome, p.ExtractBetType("让球胜平负"))
	assert.Empty(t, p.ExtractBetType("曼联 vs 利物浦"))
}

func TestExtractHandicapSelection(t *testing.T) {
	p := fixedParser()

	// a known team adjacent to the signed number yields a side label
	sel, _ := p.ExtractSelectionAndOdds("曼联-1 @1.90", BetTypeHandicap, "曼联", "利物浦")
	assert.Equal(t, "主-1", sel)

	sel, _ = p.ExtractSelectionAndOdds("利物浦+1.5 @2.05", BetTypeHandicap, "曼联", "利物浦")
	assert.Equal(t, "客+1.5", sel)

	// home side is checked before away
	sel, _ = p.ExtractSelectionAndOdds("利物浦+1.5 曼联-1.5", BetTypeHandicap, "曼联", "利物浦")
	assert.Equal(t, "主-1.5", sel)

	// without an adjacent team the keyword-anchored form wins
	sel, _ = p.ExtractSelectionAndOdds("让球 -0.5", BetTypeHandicap, "曼联", "利物浦")
	assert.Equal(t, "-0.5", sel)

	// bare fallback, no keyword at all
	sel, _ = p.ExtractSelectionAndOdds("比赛 +0.25", BetTypeHandicap, "", "")
	assert.Equal(t, "+0.25", sel)

	// a candidate running straight into another sign or digit is skipped,
	// the next standalone one wins
	sel, _ = p.ExtractSelectionAndOdds("+1-2 方案", BetTypeHandicap, "", "")
	assert.Equal(t, "-2", sel)

	// a fractional candidate in the same position settles on its integer
	// part instead of being skipped
	sel, _ = p.ExtractSelectionAndOdds("方案 +1.5-2", BetTypeHandicap, "", "")
	assert.Equal(t, "+1", sel)

	sel, _ = p.ExtractSelectionAndOdds("没有盘口", BetTypeHandicap, "", "")
	assert.Empty(t, sel)
}

func TestExtractOutcomeSelection(t *testing.T) {
	p := fixedParser()

	sel, _ := p.ExtractSelectionAndOdds("主胜 @2.10", BetTypeOutcome, "", "")
	assert.Equal(t, "主胜", sel)

	sel, _ = p.ExtractSelectionAndOdds("Draw @3.20", BetTypeOutcome, "", "")
	assert.Equal(t, "平局", sel)

	sel, _ = p.ExtractSelectionAndOdds("Away @3.80", BetTypeOutcome, "", "")
	assert.Equal(t, "主负", sel)

	// 客胜 hits the bare 胜 keyword of the first entry, table order wins
	sel, _ = p.ExtractSelectionAndOdds("客胜 @3.80", BetTypeOutcome, "", "")
	assert.Equal(t, "主胜", sel)
}

func TestExtractOddsPlausibility(t *testing.T) {
	p := fixedParser()

	// marker-prefixed candidates are preferred over bare decimals
	_, odds := p.ExtractSelectionAndOdds("大2.5 赔率1.88", BetTypeTotalGoals, "", "")
	assert.Equal(t, 1.88, odds)

	_, odds = p.ExtractSelectionAndOdds("@1.95 下注200", BetTypeHandicap, "", "")
	assert.Equal(t, 1.95, odds)

	// out-of-range values are skipped, not truncated
	_, odds = p.ExtractSelectionAndOdds("赔率: 0.5 然后 1.85", "", "", "")
	assert.Equal(t, 1.85, odds)

	_, odds = p.ExtractSelectionAndOdds("编号 105.5 @2.0", "", "", "")
	assert.Equal(t, 2.0, odds)

	_, odds = p.ExtractSelectionAndOdds("没有赔率", "", "", "")
	assert.Equal(t, 0.0, odds)
}

func TestExtractStake(t *testing.T) {
	p := fixedParser()

	assert.Equal(t, 100.0, p.ExtractStake("投注: 100元"))
	assert.Equal(t, 200.0, p.ExtractStake("下注200"))
	assert.Equal(t, 50.0, p.ExtractStake("金额:50"))
	assert.Equal(t, 88.5, p.ExtractStake("88.5元"))
	assert.Equal(t, 66.0, p.ExtractStake("66¥"))

	// bare numbers without an anchor are not stakes
	assert.Equal(t, 0.0, p.ExtractStake("曼联 vs 利物浦 2025"))
	assert.Equal(t, 0.0, p.ExtractStake(""))
}

package betparse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// keyword-anchored handicap line, e.g. "让球 +0.5" / "Handicap -1"
	handicapKeywordRE = regexp.MustCompile(`(?i)(?:让球|Handicap)[^\d]*([+\-])(\d+(?:\.\d+)?)`)
	// bare signed number; candidates followed by another digit or '-' are
	// rejected afterwards so parts of dates or id runs are never taken
	handicapBareRE = regexp.MustCompile(`([+\-])\s*(\d+(?:\.\d+)?)`)
	// over/under line, e.g. "大2.5"
	totalGoalsRE = regexp.MustCompile(`([大小])\s*(\d+(?:\.\d+)?)`)
	// decimal odds with an optional marker prefix
	oddsRE = regexp.MustCompile(`(?i)(赔率|@|odds)?[:：\s]*(\d+\.\d{1,3})`)
)

const (
	minPlausibleOdds = 1.01
	maxPlausibleOdds = 100.0
)

// ExtractSelectionAndOdds recovers the chosen outcome/line and the decimal
// odds. The selection strategy branches on bet type; for handicaps a known
// team name adjacent to a signed number takes precedence and yields a
// side-labelled selection like "主-1.5". Odds extraction is independent of the
// selection.
func (p *Parser) ExtractSelectionAndOdds(text, betType, homeTeam, awayTeam string) (string, float64) {
	var selection string

	switch betType {
	case BetTypeOutcome:
		selection = p.extractOutcomeSelection(text)
	case BetTypeHandicap:
		selection = p.extractHandicapSelection(text, homeTeam, awayTeam)
	case BetTypeTotalGoals:
		if m := totalGoalsRE.FindStringSubmatch(text); m != nil {
			selection = m[1] + m[2]
			p.logger.Debug().Str("selection", selection).Msg("total goals line extracted")
		}
	}

	return selection, p.extractOdds(text)
}

func (p *Parser) extractOutcomeSelection(text string) string {
	for _, entry := range outcomeKeywords {
		for _, keyword := range entry.Keywords {
			if strings.Contains(text, keyword) {
				return entry.Label
			}
		}
	}
	return ""
}

func (p *Parser) extractHandicapSelection(text, homeTeam, awayTeam string) string {
	// phase 1: "<team name><sign><number>" directly adjacent, home side first
	type sided struct {
		team  string
		label string
	}
	for _, s := range []sided{{homeTeam, "主"}, {awayTeam, "客"}} {
		if s.team == "" {
			continue
		}
		re := regexp.MustCompile(regexp.QuoteMeta(s.team) + `\s*([+\-])\s*(\d+(?:\.\d+)?)`)
		if m := re.FindStringSubmatch(text); m != nil {
			selection := s.label + m[1] + m[2]
			p.logger.Debug().Str("selection", selection).Msg("handicap line extracted (team adjacent)")
			return selection
		}
	}

	// phase 2: keyword-anchored, then bare signed number
	if m := handicapKeywordRE.FindStringSubmatch(text); m != nil {
		return m[1] + m[2]
	}
	for _, idx := range handicapBareRE.FindAllStringSubmatchIndex(text, -1) {
		sign := text[idx[2]:idx[3]]
		number := text[idx[4]:idx[5]]
		end := idx[1]
		if end < len(text) {
			next := text[end]
			if next == '-' || (next >= '0' && next <= '9') {
				// Inside a longer numeric/sign run, e.g. a date. A fractional
				// candidate still settles on its integer part, since the dot
				// following it can never extend the run.
				if dot := strings.IndexByte(number, '.'); dot >= 0 {
					return sign + number[:dot]
				}
				continue
			}
		}
		return sign + number
	}
	return ""
}

// extractOdds scans all decimal numbers in the text and returns the first one
// inside the plausible range [1.01, 100]. Candidates carrying an explicit
// odds marker (赔率/@/odds) are preferred over bare decimals, so a total-goals
// line like 大2.5 does not shadow a later 赔率1.88.
func (p *Parser) extractOdds(text string) float64 {
	matches := oddsRE.FindAllStringSubmatch(text, -1)
	for _, prefixedOnly := range []bool{true, false} {
		for _, m := range matches {
			if prefixedOnly && m[1] == "" {
				continue
			}
			value, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			if value >= minPlausibleOdds && value <= maxPlausibleOdds {
				p.logger.Debug().Float64("odds", value).Msg("odds extracted")
				return value
			}
		}
	}
	return 0
}

package betparse

import (
	"regexp"
	"strings"
)

// Structured form like "足球 | 欧洲冠军联赛" or "足球·欧冠联赛": the sport
// category, a separator, then a run ending in 联赛. Preferred over keyword
// hits because it keeps composite competition names intact.
var leagueStructuredRE = regexp.MustCompile(`(?:足球|篮球)[\s\|｜·:：-]+([^\s\|｜·:：-]*联赛)`)

// ExtractLeague recovers the league/competition name, or "" when nothing in
// the keyword table appears in the text.
func (p *Parser) ExtractLeague(text string) string {
	if m := leagueStructuredRE.FindStringSubmatch(text); m != nil {
		league := strings.TrimSpace(m[1])
		p.logger.Debug().Str("league", league).Msg("league extracted (structured form)")
		return league
	}

	for _, keyword := range leagueKeywords {
		if !strings.Contains(text, keyword) {
			continue
		}
		// widen the hit to pick up a season prefix and any suffix glued to
		// the keyword, e.g. "2024-25英超" or "英超联赛"
		re := regexp.MustCompile(`[\d\-/年]*\s*` + regexp.QuoteMeta(keyword) + `[^\s]*`)
		if full := strings.TrimSpace(re.FindString(text)); full != "" {
			p.logger.Debug().Str("league", full).Msg("league extracted")
			return full
		}
		return keyword
	}
	return ""
}

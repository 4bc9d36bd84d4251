package betparse

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Separator patterns tried in priority order. Captures exclude whitespace and
// digits so dates/odds are never swallowed into a team name. The bare
// whitespace split is a last resort and may mis-match on free-form sentences.
var teamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([^\s\d]+?)\s*vs\s*([^\s\d]+)`),
	regexp.MustCompile(`([^\s\d]+?)\s*对\s*([^\s\d]+)`),
	regexp.MustCompile(`([^\s\d]+?)\s*[-—]\s*([^\s\d]+)`),
	regexp.MustCompile(`([^\s\d]+?)\s+([^\s\d]+)`),
}

// teamNameNoise matches everything that is not a CJK ideograph, Latin letter
// or whitespace.
var teamNameNoise = regexp.MustCompile(`[^\x{4e00}-\x{9fa5}a-zA-Z\s]`)

// ExtractTeams recovers (home, away) from separator patterns like
// "曼联 vs 利物浦", "曼联对利物浦" or "皇马-巴萨". Returns ("", "") when no
// pattern yields two plausible names.
func (p *Parser) ExtractTeams(text string) (string, string) {
	for _, re := range teamPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		home := strings.TrimSpace(m[1])
		away := strings.TrimSpace(m[2])
		// single characters are almost never team names
		if utf8.RuneCountInString(home) <= 1 || utf8.RuneCountInString(away) <= 1 {
			continue
		}
		home = strings.TrimSpace(teamNameNoise.ReplaceAllString(home, ""))
		away = strings.TrimSpace(teamNameNoise.ReplaceAllString(away, ""))
		if home != "" && away != "" {
			p.logger.Debug().Str("home", home).Str("away", away).Msg("teams extracted")
			return home, away
		}
	}
	return "", ""
}

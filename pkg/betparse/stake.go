package betparse

import (
	"regexp"
	"strconv"
)

// Ordered stake patterns: keyword-anchored amount, then amount with the
// currency word, then amount with a currency symbol.
var stakePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:金额|投注|下注|本金)[:：\s]*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(\d+(?:\.\d{1,2})?)\s*元`),
	regexp.MustCompile(`(\d+(?:\.\d{1,2})?)\s*[¥￥]`),
}

const (
	minPlausibleStake = 1.0
	maxPlausibleStake = 1000000.0
)

// ExtractStake recovers the wagered amount, or 0 when no pattern matches.
// Values outside [1, 1000000] are rejected so years and ids are not mistaken
// for stakes.
func (p *Parser) ExtractStake(text string) float64 {
	for _, re := range stakePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		stake, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if stake >= minPlausibleStake && stake <= maxPlausibleStake {
			p.logger.Debug().Float64("stake", stake).Msg("stake extracted")
			return stake
		}
	}
	return 0
}

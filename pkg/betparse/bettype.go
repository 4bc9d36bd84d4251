package betparse

import "strings"

// ExtractBetType classifies the wagering market from keyword hits. The first
// keyword found in table order wins. Returns "" when no keyword appears; the
// aggregator defaults that to 胜平负.
func (p *Parser) ExtractBetType(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range betTypeKeywords {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				p.logger.Debug().Str("bet_type", entry.Type).Msg("bet type extracted")
				return entry.Type
			}
		}
	}
	return ""
}

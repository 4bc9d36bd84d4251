package betparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// 2025-11-30 or 2025/11/30
	dateFullRE = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	// 11月30日, 11-30, 11/30
	dateMonthDayRE = regexp.MustCompile(`(\d{1,2})[月\-/](\d{1,2})日?`)
)

// ExtractDate recovers a match date as YYYY-MM-DD. The cascade is strict:
// full numeric date, then month/day combined with the current year, then
// relative phrases. Returns "" when nothing matches.
func (p *Parser) ExtractDate(text string) string {
	if m := dateFullRE.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
	}

	if m := dateMonthDayRE.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%04d-%02d-%02d", p.now().Year(), month, day)
	}

	today := p.now()
	switch {
	case strings.Contains(text, "今天") || strings.Contains(text, "今日"):
		return today.Format("2006-01-02")
	case strings.Contains(text, "明天") || strings.Contains(text, "明日"):
		return today.AddDate(0, 0, 1).Format("2006-01-02")
	case strings.Contains(text, "后天"):
		return today.AddDate(0, 0, 2).Format("2006-01-02")
	}
	return ""
}

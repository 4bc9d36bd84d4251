package betparse

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Parser is the free-text bet slip interpretation engine. It is stateless
// apart from the injected clock, so a single instance is safe for concurrent
// use.
type Parser struct {
	now    func() time.Time
	logger zerolog.Logger
}

// NewParser creates a parser using the system clock.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{
		now:    time.Now,
		logger: logger.With().Str("component", "betparse").Logger(),
	}
}

// ParseBetInfo runs every extractor over the text and assembles one result.
// Individual extractors degrade to empty values; this never fails.
// The per-line OCR details are accepted for interface compatibility but the
// extractors work on the joined full text.
func (p *Parser) ParseBetInfo(text string, details []OCRLine) ParseResult {
	now := p.now()

	homeTeam, awayTeam := p.ExtractTeams(text)
	league := p.ExtractLeague(text)
	matchDate := p.ExtractDate(text)
	betType := p.ExtractBetType(text)
	if betType == "" {
		betType = BetTypeOutcome
	}
	selection, odds := p.ExtractSelectionAndOdds(text, betType, homeTeam, awayTeam)
	stake := p.ExtractStake(text)

	legs := make([]ParsedLeg, 0, 1)
	if homeTeam != "" && awayTeam != "" {
		date := matchDate
		if date == "" {
			date = now.Format("2006-01-02")
		}
		legs = append(legs, ParsedLeg{
			HomeTeam:  homeTeam,
			AwayTeam:  awayTeam,
			League:    league,
			MatchDate: date,
			BetType:   betType,
			Selection: selection,
			Odds:      odds,
		})
	}

	identified := 0
	for _, ok := range []bool{
		homeTeam != "",
		awayTeam != "",
		league != "",
		matchDate != "",
		betType != "",
		selection != "",
		odds != 0,
	} {
		if ok {
			identified++
		}
	}
	confidence := math.Round(float64(identified)/7*10000) / 10000

	result := ParseResult{
		Legs:       legs,
		Stake:      stake,
		Confidence: confidence,
	}
	// Multiple legs would mean a parlay; default to an N-fold single.
	if len(legs) > 1 {
		result.ParlayType = fmt.Sprintf("%d_1", len(legs))
	}

	p.logger.Info().
		Int("identified_fields", identified).
		Float64("confidence", confidence).
		Int("legs", len(legs)).
		Msg("bet info parsed")

	return result
}

// ParseImageResult adapts an OCR result into the outward envelope. It is the
// entry point the API layer calls; any panic inside the extractors is
// converted into a failure envelope here.
func (p *Parser) ParseImageResult(ocr OCRResult) (env Envelope) {
	if !ocr.Success {
		errMsg := ocr.Error
		if errMsg == "" {
			errMsg = "OCR识别失败"
		}
		return Envelope{Success: false, Error: errMsg, Data: nil, RawText: ""}
	}
	if ocr.Text == "" {
		return Envelope{Success: false, Error: "未识别到任何文字", Data: nil, RawText: ""}
	}

	p.logger.Debug().Str("raw_text", ocr.Text).Msg("parsing OCR text")

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("bet info parsing panicked")
			env = Envelope{
				Success:       false,
				Error:         fmt.Sprintf("解析失败: %v", r),
				Data:          nil,
				RawText:       ocr.Text,
				OCRConfidence: ocr.Confidence,
			}
		}
	}()

	result := p.ParseBetInfo(ocr.Text, ocr.Details)
	if len(result.Legs) == 0 {
		// Return the partial result so the caller can show what was found.
		return Envelope{
			Success:       false,
			Error:         "未能识别到有效的投注信息，请检查图片内容",
			Data:          &result,
			RawText:       ocr.Text,
			OCRConfidence: ocr.Confidence,
		}
	}
	return Envelope{
		Success:       true,
		Data:          &result,
		RawText:       ocr.Text,
		OCRConfidence: ocr.Confidence,
	}
}

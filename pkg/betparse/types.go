package betparse

// OCRLine is one recognized text line with its confidence and the four-corner
// bounding polygon reported by the OCR engine.
type OCRLine struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        [][]int `json:"box"`
}

// OCRResult is the envelope handed over by the OCR stage.
type OCRResult struct {
	Success    bool      `json:"success"`
	Text       string    `json:"text"`
	Details    []OCRLine `json:"details"`
	Confidence float64   `json:"confidence"`
	Error      string    `json:"error,omitempty"`
}

// ParsedLeg is one recovered bet line. A leg is only emitted when both team
// names were found; every other field degrades to its zero default.
type ParsedLeg struct {
	HomeTeam  string  `json:"homeTeam"`
	AwayTeam  string  `json:"awayTeam"`
	League    string  `json:"league"`
	MatchDate string  `json:"matchDate"`
	BetType   string  `json:"betType"`
	Selection string  `json:"selection"`
	Odds      float64 `json:"odds"`
}

// ParseResult aggregates everything recovered from one slip text.
type ParseResult struct {
	Legs       []ParsedLeg `json:"legs"`
	Stake      float64     `json:"stake"`
	Confidence float64     `json:"confidence"`
	ParlayType string      `json:"parlayType,omitempty"`
}

// Envelope is the outward result of parsing one OCR'd slip image.
type Envelope struct {
	Success       bool         `json:"success"`
	Error         string       `json:"error,omitempty"`
	Data          *ParseResult `json:"data"`
	RawText       string       `json:"raw_text"`
	OCRConfidence float64      `json:"ocr_confidence"`
}

// Package ocr turns betting slip photos into raw text plus per-line
// confidence and bounding boxes, ready for downstream parsing.
package ocr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
)

// Line is one recognized text line with its confidence (0..1) and the four
// corner points of its region, clockwise from top-left.
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        [][]int `json:"box"`
}

// Result is the envelope handed to the bet parser.
type Result struct {
	Success    bool    `json:"success"`
	Text       string  `json:"text"`
	Details    []Line  `json:"details"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// Recognizer runs Tesseract over preprocessed slip images. Safe for
// concurrent use; each scan opens its own client.
type Recognizer struct {
	languages []string
	logger    zerolog.Logger
}

func NewRecognizer(languages []string, logger zerolog.Logger) *Recognizer {
	if len(languages) == 0 {
		languages = []string{"chi_sim", "eng"}
	}
	return &Recognizer{
		languages: languages,
		logger:    logger.With().Str("component", "ocr").Logger(),
	}
}

// RecognizeFile reads and recognizes an image from disk.
func (r *Recognizer) RecognizeFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return failure(fmt.Sprintf("图片格式错误: %v", err))
	}
	return r.RecognizeBytes(data)
}

// RecognizeBase64 decodes a base64 image, tolerating a data URL prefix.
func (r *Recognizer) RecognizeBase64(encoded string) Result {
	if i := strings.IndexByte(encoded, ','); i >= 0 {
		encoded = encoded[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return failure(fmt.Sprintf("图片格式错误: %v", err))
	}
	return r.RecognizeBytes(data)
}

// RecognizeBytes decodes, preprocesses and recognizes an in-memory image.
// When the first pass finds nothing a second pass runs over an adaptively
// thresholded variant, which recovers low-contrast screenshots.
func (r *Recognizer) RecognizeBytes(data []byte) Result {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return failure(fmt.Sprintf("图片格式错误: %v", err))
	}

	prepared := prepare(img)
	lines, err := r.scan(prepared)
	if err != nil {
		r.logger.Error().Err(err).Msg("ocr scan failed")
		return failure(fmt.Sprintf("识别失败: %v", err))
	}
	if len(lines) == 0 {
		retry := dilate(adaptiveThreshold(prepared, 15, 7), 1)
		lines, err = r.scan(retry)
		if err != nil {
			r.logger.Error().Err(err).Msg("ocr retry scan failed")
			return failure(fmt.Sprintf("识别失败: %v", err))
		}
	}

	texts := make([]string, 0, len(lines))
	total := 0.0
	for _, l := range lines {
		texts = append(texts, l.Text)
		total += l.Confidence
	}
	confidence := 0.0
	if len(lines) > 0 {
		confidence = math.Round(total/float64(len(lines))*10000) / 10000
	}
	fullText := strings.Join(texts, " ")
	r.logger.Info().Int("lines", len(lines)).Float64("confidence", confidence).
		Str("text", snippet(fullText, 120)).Msg("ocr recognized")

	return Result{
		Success:    true,
		Text:       fullText,
		Details:    lines,
		Confidence: confidence,
	}
}

// scan writes the image to a temp file and collects per-line results.
func (r *Recognizer) scan(img image.Image) ([]Line, error) {
	tmp, err := os.CreateTemp("", "slip-ocr-*.png")
	if err != nil {
		return nil, fmt.Errorf("temp image: %w", err)
	}
	name := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(name)
	if err := imaging.Save(img, name); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(r.languages...); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImage(name); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	var lines []Line
	for _, b := range boxes {
		text := normalizeText(b.Word)
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Text:       text,
			Confidence: math.Round(b.Confidence/100*10000) / 10000,
			Box:        cornerBox(b.Box.Min.X, b.Box.Min.Y, b.Box.Max.X, b.Box.Max.Y),
		})
	}
	return lines, nil
}

// cornerBox expands a rectangle into four corner points, clockwise from
// top-left, matching the shape the frontend already renders.
func cornerBox(x0, y0, x1, y1 int) [][]int {
	return [][]int{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func failure(msg string) Result {
	return Result{Success: false, Error: msg, Details: []Line{}}
}

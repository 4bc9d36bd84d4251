package ocr

import (
	"encoding/base64"
	"image/color"
	"testing"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizeBase64RejectsGarbage(t *testing.T) {
	r := NewRecognizer(nil, zerolog.Nop())

	res := r.RecognizeBase64("not-base64!!!")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "图片格式错误")
	assert.Empty(t, res.Text)
	assert.Empty(t, res.Details)

	// valid base64 that is not an image fails at decode, not at transport
	res = r.RecognizeBase64(base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "图片格式错误")
}

func TestRecognizeBase64StripsDataURLPrefix(t *testing.T) {
	r := NewRecognizer(nil, zerolog.Nop())

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("junk"))
	res := r.RecognizeBase64(payload)
	// the prefix must not trip the base64 decoder; failure comes from the
	// image decoder instead
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "图片格式错误")
}

func TestRecognizeBytesRejectsNonImage(t *testing.T) {
	r := NewRecognizer(nil, zerolog.Nop())
	res := r.RecognizeBytes([]byte{0x00, 0x01, 0x02})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "图片格式错误")
}

func TestPrepareResizing(t *testing.T) {
	// oversized image is clamped on its longest side
	big := imaging.New(3200, 2400, color.NRGBA{255, 255, 255, 255})
	out := prepare(big)
	assert.Equal(t, maxSide, out.Bounds().Dx())

	// small image is upscaled to the target height
	small := imaging.New(400, 300, color.NRGBA{255, 255, 255, 255})
	out = prepare(small)
	assert.Equal(t, targetHeight, out.Bounds().Dy())
}

func TestAdaptiveThresholdBinarizes(t *testing.T) {
	img := imaging.New(32, 32, color.NRGBA{200, 200, 200, 255})
	// dark block in the middle
	for y := 12; y < 20; y++ {
		for x := 12; x < 20; x++ {
			img.Set(x, y, color.NRGBA{10, 10, 10, 255})
		}
	}
	out := dilate(adaptiveThreshold(img, 15, 7), 1)
	require.Equal(t, img.Bounds(), out.Bounds())

	black := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			r, g, b, _ := out.At(x, y).RGBA()
			if r+g+b == 0 {
				black++
			}
		}
	}
	assert.Greater(t, black, 0, "dark block should survive thresholding")
	assert.Less(t, black, 32*32, "background should stay white")
}

func TestCornerBox(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {5, 2}, {5, 8}, {1, 8}}, cornerBox(1, 2, 5, 8))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "英超 曼联 vs 利物浦", normalizeText(" 英超\n曼联   vs\t利物浦 "))
	assert.Empty(t, normalizeText("  \n\t "))
}

func TestSnippetKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 10))

	out := snippet("英超曼联对阵利物浦的比赛", 4)
	assert.Equal(t, "英超曼联…", out)
	assert.True(t, utf8.ValidString(out))
}

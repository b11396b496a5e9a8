package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disintegration/imaging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessUpscalesSmallImages(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	data, mimeType, err := Preprocess(encodePNG(t, small), LabelMode)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	processed, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, minOCRWidth, processed.Bounds().Dx())
}

func TestPreprocessKeepsLargeImageWidth(t *testing.T) {
	large := image.NewRGBA(image.Rect(0, 0, 2000, 1000))
	data, _, err := Preprocess(encodePNG(t, large), PrescriptionMode)
	require.NoError(t, err)

	processed, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2000, processed.Bounds().Dx())
}

func TestPreprocessLabelModeBinarizes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1600, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 1600; x++ {
			if x < 800 {
				img.Set(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	data, _, err := Preprocess(encodePNG(t, img), LabelMode)
	require.NoError(t, err)

	processed, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// Every pixel must be pure black or pure white after binarization.
	bounds := processed.Bounds()
	for _, x := range []int{bounds.Min.X + 10, bounds.Max.X - 10} {
		r, g, b, _ := processed.At(x, bounds.Min.Y+5).RGBA()
		gray := uint8(r >> 8)
		assert.True(t, gray == 0 || gray == 255, "pixel not binarized: %d", gray)
		assert.Equal(t, r, g)
		assert.Equal(t, g, b)
	}
}

func TestPreprocessRejectsGarbage(t *testing.T) {
	_, _, err := Preprocess([]byte("not an image"), LabelMode)
	assert.Error(t, err)
}

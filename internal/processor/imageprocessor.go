// imageprocessor.go - Image preprocessing for better OCR accuracy

package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// PreprocessMode selects the enhancement pipeline for a document type
type PreprocessMode int

const (
	// LabelMode: printed medicine packages and labels. Aggressive
	// contrast plus binarization works well on printed text.
	LabelMode PreprocessMode = iota
	// PrescriptionMode: handwritten prescriptions. Lighter contrast
	// and no binarization, hard thresholds destroy pen strokes.
	PrescriptionMode
)

// minOCRWidth is the width OCR engines want; smaller images are
// upscaled before enhancement.
const minOCRWidth = 1500

// binarizeThreshold is the luminance cutoff for label binarization.
// Kept low so faint colored text on packages survives.
const binarizeThreshold = 120

// Preprocess enhances raw image bytes for OCR and returns the
// processed image as PNG along with its mime type.
func Preprocess(data []byte, mode PreprocessMode) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = imaging.Grayscale(img)

	if img.Bounds().Dx() < minOCRWidth {
		img = imaging.Resize(img, minOCRWidth, 0, imaging.Lanczos)
	}

	var processed image.Image
	switch mode {
	case PrescriptionMode:
		processed = imaging.AdjustContrast(img, 50)
		processed = imaging.Sharpen(processed, 1.0)
	default:
		processed = imaging.AdjustContrast(img, 80)
		processed = imaging.Sharpen(processed, 1.0)
		processed = binarize(processed, binarizeThreshold)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, processed); err != nil {
		return nil, "", fmt.Errorf("failed to encode processed image: %w", err)
	}

	return buf.Bytes(), "image/png", nil
}

// binarize maps every pixel to pure black or white around the given
// luminance threshold.
func binarize(img image.Image, threshold uint8) image.Image {
	bounds := img.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Rec. 601 luma on 16-bit channel values
			luma := uint8((299*r + 587*g + 114*b) / 1000 >> 8)
			if luma > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	return out
}

package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
)

var namedColors = []struct {
	Name    string
	R, G, B float64
}{
	{"black", 20, 20, 20},
	{"white", 240, 240, 240},
	{"gray", 128, 128, 128},
	{"red", 200, 40, 40},
	{"orange", 230, 130, 40},
	{"yellow", 230, 210, 60},
	{"green", 50, 150, 60},
	{"blue", 60, 100, 200},
	{"navy", 30, 40, 90},
	{"purple", 130, 60, 170},
	{"pink", 230, 140, 170},
	{"brown", 120, 80, 50},
	{"beige", 215, 195, 165},
}

// DominantColorName samples the central area of an item photo and maps the
// average pixel to the nearest named color. The central crop skips the
// background, which on catalog photos is usually white.
// - imageBytes: The input image as a byte slice.
// - centralSampleRatio: The central area (0.0-1.0) to sample pixels from.
func DominantColorName(imageBytes []byte, centralSampleRatio float64) (string, error) {
	if centralSampleRatio <= 0.0 || centralSampleRatio > 1.0 {
		return "", fmt.Errorf("centralSampleRatio must be between 0.0 and 1.0")
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Max.X, bounds.Max.Y

	sampleWidth := int(float64(width) * centralSampleRatio)
	sampleHeight := int(float64(height) * centralSampleRatio)
	x0 := (width - sampleWidth) / 2
	y0 := (height - sampleHeight) / 2
	x1 := x0 + sampleWidth
	y1 := y0 + sampleHeight

	var sumR, sumG, sumB float64
	var count float64

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a>>8 < 10 {
				// transparent pixels carry no color information
				continue
			}
			sumR += float64(r >> 8)
			sumG += float64(g >> 8)
			sumB += float64(b >> 8)
			count++
		}
	}

	if count == 0 {
		return "", fmt.Errorf("no opaque pixels in sample area")
	}

	avgR := sumR / count
	avgG := sumG / count
	avgB := sumB / count

	bestName := namedColors[0].Name
	bestDistance := math.MaxFloat64
	for _, candidate := range namedColors {
		distance := math.Pow(avgR-candidate.R, 2) +
			math.Pow(avgG-candidate.G, 2) +
			math.Pow(avgB-candidate.B, 2)
		if distance < bestDistance {
			bestDistance = distance
			bestName = candidate.Name
		}
	}

	return bestName, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// brightness scales every channel by factor (a blend toward black).
func brightness(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: mix(0, c.R, factor),
			G: mix(0, c.G, factor),
			B: mix(0, c.B, factor),
			A: c.A,
		}
	})
}

// contrast scales channels around the image's mean gray level.
func contrast(img *image.NRGBA, factor float64) *image.NRGBA {
	mean := meanGray(img)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: mix(mean, c.R, factor),
			G: mix(mean, c.G, factor),
			B: mix(mean, c.B, factor),
			A: c.A,
		}
	})
}

// saturation blends each pixel away from its own grayscale value.
func saturation(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		l := luma(c.R, c.G, c.B)
		return color.NRGBA{
			R: mix(l, c.R, factor),
			G: mix(l, c.G, factor),
			B: mix(l, c.B, factor),
			A: c.A,
		}
	})
}

// meanGray returns the rounded mean luminance of img.
func meanGray(img image.Image) uint8 {
	hist := imaging.Histogram(img)
	var mean float64
	for level, share := range hist {
		mean += float64(level) * share
	}
	return clampUint8(mean + 0.5)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
)

type lut [256]uint8

func identityLUT() lut {
	var l lut
	for i := range l {
		l[i] = uint8(i)
	}
	return l
}

// applyLUTs maps each color channel through its own table.
func applyLUTs(img *image.NRGBA, r, g, b lut) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: r[c.R], G: g[c.G], B: b[c.B], A: c.A}
	})
}

// autocontrast stretches each channel so that, after discarding cutoff
// percent of the pixels at each end of its histogram, the remaining range
// covers 0..255.
func autocontrast(img *image.NRGBA, cutoff float64) *image.NRGBA {
	h := histogram.NewRGBAHistogram(img)
	return applyLUTs(img,
		autocontrastLUT(h.R.Bins, cutoff),
		autocontrastLUT(h.G.Bins, cutoff),
		autocontrastLUT(h.B.Bins, cutoff),
	)
}

func autocontrastLUT(bins []int, cutoff float64) lut {
	var h [256]int
	copy(h[:], bins)

	n := 0
	for _, v := range h {
		n += v
	}
	cut := int(float64(n) * cutoff / 100)

	remaining := cut
	for lo := 0; lo < 256 && remaining > 0; lo++ {
		if remaining > h[lo] {
			remaining -= h[lo]
			h[lo] = 0
		} else {
			h[lo] -= remaining
			remaining = 0
		}
	}
	remaining = cut
	for hi := 255; hi >= 0 && remaining > 0; hi-- {
		if remaining > h[hi] {
			remaining -= h[hi]
			h[hi] = 0
		} else {
			h[hi] -= remaining
			remaining = 0
		}
	}

	lo := 0
	for lo < 255 && h[lo] == 0 {
		lo++
	}
	hi := 255
	for hi > 0 && h[hi] == 0 {
		hi--
	}
	if hi <= lo {
		return identityLUT()
	}

	var l lut
	scale := 255.0 / float64(hi-lo)
	offset := -float64(lo) * scale
	for i := range l {
		l[i] = clampInt(int(float64(i)*scale + offset))
	}
	return l
}

// equalize redistributes each channel toward a uniform histogram.
func equalize(img *image.NRGBA) *image.NRGBA {
	h := histogram.NewRGBAHistogram(img)
	return applyLUTs(img,
		equalizeLUT(h.R.Bins),
		equalizeLUT(h.G.Bins),
		equalizeLUT(h.B.Bins),
	)
}

func equalizeLUT(bins []int) lut {
	var h [256]int
	copy(h[:], bins)

	total, last, levels := 0, 0, 0
	for _, v := range h {
		if v > 0 {
			total += v
			last = v
			levels++
		}
	}
	if levels <= 1 {
		return identityLUT()
	}
	step := (total - last) / 256
	if step == 0 {
		return identityLUT()
	}

	var l lut
	n := step / 2
	for i := range l {
		l[i] = clampInt(n / step)
		n += h[i]
	}
	return l
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

// smoothWeights is the 3x3 smoothing kernel the sharpness stage moves away from.
var smoothWeights = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// unsharpMask adds back percent of the difference between img and a Gaussian
// blurred copy, per channel, wherever that difference exceeds threshold.
func unsharpMask(img *image.NRGBA, radius float64, percent, threshold int) *image.NRGBA {
	return applyMask(img, imaging.Blur(img, radius), percent, threshold)
}

// applyMask sharpens img against blurred. Channels within threshold of the
// blurred value are copied unchanged.
func applyMask(img, blurred *image.NRGBA, percent, threshold int) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		si := y * img.Stride
		bi := y * blurred.Stride
		oi := y * out.Stride
		for x := 0; x < w*4; x += 4 {
			for c := 0; c < 3; c++ {
				v := int(img.Pix[si+x+c])
				diff := v - int(blurred.Pix[bi+x+c])
				if diff > threshold || -diff > threshold {
					out.Pix[oi+x+c] = clampInt(v + diff*percent/100)
				} else {
					out.Pix[oi+x+c] = uint8(v)
				}
			}
			out.Pix[oi+x+3] = img.Pix[si+x+3]
		}
	}
	return out
}

// sharpness blends img away from a smoothed copy of itself. Edge pixels of
// the smoothed copy are taken from img, so the border is left unchanged.
func sharpness(img *image.NRGBA, factor float64) *image.NRGBA {
	k := convolution.NewKernel(3, 3)
	copy(k.Matrix, smoothWeights[:])

	smoothed := imaging.Clone(convolution.Convolve(img, k.Normalized(), &convolution.Options{KeepAlpha: true}))
	copyBorder(smoothed, img)
	return blendImages(smoothed, img, factor)
}

// copyBorder overwrites the outermost rows and columns of dst with src.
func copyBorder(dst, src *image.NRGBA) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		if y == 0 || y == h-1 {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
			continue
		}
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+4], src.Pix[y*src.Stride:y*src.Stride+4])
		r := (w - 1) * 4
		copy(dst.Pix[y*dst.Stride+r:y*dst.Stride+r+4], src.Pix[y*src.Stride+r:y*src.Stride+r+4])
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import "image"

// clampUint8 clamps v to [0,255] and truncates toward zero.
func clampUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

func clampInt(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// mix interpolates from deg toward v by factor; factors above 1 extrapolate.
func mix(deg, v uint8, factor float64) uint8 {
	d := float64(deg)
	return clampUint8(d + factor*(float64(v)-d))
}

// luma returns the ITU-R 601 luminance of an 8-bit RGB triple, rounded.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// blendImages mixes img away from deg by factor. Both images must share
// dimensions and start at the origin. Alpha is taken from img.
func blendImages(deg, img *image.NRGBA, factor float64) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		si := y * img.Stride
		di := y * deg.Stride
		oi := y * out.Stride
		for x := 0; x < w*4; x += 4 {
			out.Pix[oi+x] = mix(deg.Pix[di+x], img.Pix[si+x], factor)
			out.Pix[oi+x+1] = mix(deg.Pix[di+x+1], img.Pix[si+x+1], factor)
			out.Pix[oi+x+2] = mix(deg.Pix[di+x+2], img.Pix[si+x+2], factor)
			out.Pix[oi+x+3] = img.Pix[si+x+3]
		}
	}
	return out
}

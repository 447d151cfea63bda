// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EnhancementParams holds the constants of the enhancement pipeline. The values
// are compiled in; the struct exists so the pipeline receives them explicitly.
type EnhancementParams struct {
	// Brightness multiplies every channel (1.0 leaves the image unchanged).
	Brightness float64 `json:"brightness" yaml:"brightness"`

	// Contrast scales channel values around the image's mean gray level.
	Contrast float64 `json:"contrast" yaml:"contrast"`

	// AutocontrastCutoff is the percentage of pixels clipped at each end of
	// every channel histogram before stretching.
	AutocontrastCutoff float64 `json:"autocontrast_cutoff" yaml:"autocontrast_cutoff"`

	// Saturation blends each pixel away from its grayscale value.
	Saturation float64 `json:"saturation" yaml:"saturation"`

	// UnsharpRadius is the Gaussian blur sigma of the unsharp mask.
	UnsharpRadius float64 `json:"unsharp_radius" yaml:"unsharp_radius"`

	// UnsharpPercent scales the difference added back by the unsharp mask.
	UnsharpPercent int `json:"unsharp_percent" yaml:"unsharp_percent"`

	// UnsharpThreshold is the per-channel difference, in intensity levels,
	// that must be exceeded before the unsharp mask is applied.
	UnsharpThreshold int `json:"unsharp_threshold" yaml:"unsharp_threshold"`

	// Sharpness blends the image away from a smoothed copy.
	Sharpness float64 `json:"sharpness" yaml:"sharpness"`
}

// DefaultEnhancementParams returns the hand-tuned parameter set applied to every image.
func DefaultEnhancementParams() EnhancementParams {
	return EnhancementParams{
		Brightness:         1.33,
		Contrast:           1.30,
		AutocontrastCutoff: 2,
		Saturation:         1.04,
		UnsharpRadius:      2,
		UnsharpPercent:     150,
		UnsharpThreshold:   3,
		Sharpness:          1.2,
	}
}

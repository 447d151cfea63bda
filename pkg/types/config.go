// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

const (
	// DefaultInputDir and DefaultOutputDir are resolved relative to the
	// directory holding the executable.
	DefaultInputDir  = "Images_CR2"
	DefaultOutputDir = "Enhanced_JPEGs"

	// DefaultExtension is the RAW extension matched case-insensitively.
	DefaultExtension = ".cr2"

	// OutputPrefix is prepended to the stem of every output file.
	OutputPrefix = "enhanced_"

	// OutputExtension is the extension of every output file.
	OutputExtension = ".jpg"
)

// DecoderConfig selects how RAW files are decoded.
type DecoderConfig struct {
	// Binary is the dcraw executable name or path (default "dcraw").
	Binary string `json:"binary" yaml:"binary"`

	// Image, when set, runs Binary inside this container image through
	// docker or podman instead of on the host.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Verbose enables debug-level entries (per-stage timings, skipped entries).
	Verbose bool `json:"verbose" yaml:"verbose"`

	// Format selects the formatter: "text" or "json".
	Format string `json:"format" yaml:"format"`
}

// ConversionConfig holds settings for one batch run.
type ConversionConfig struct {
	// InputDir is the directory scanned for RAW files (not recursive).
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives the enhanced JPEGs; created when missing.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Extension is the RAW extension to match, with leading dot.
	Extension string `json:"extension" yaml:"extension"`

	Decoder DecoderConfig `json:"decoder" yaml:"decoder"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

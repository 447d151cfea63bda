// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package encode writes enhanced images as JPEG files with fixed quality,
// chroma subsampling, and resolution metadata.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/gen2brain/jpegli"

	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// Options controls JPEG output.
type Options struct {
	// Quality is the JPEG quality, 1-100.
	Quality int

	// Subsampling is the chroma subsampling ratio.
	Subsampling image.YCbCrSubsampleRatio

	// DPI is written to the JFIF header for both axes.
	DPI uint16
}

// DefaultOptions returns quality 100, no chroma subsampling (4:4:4), 300 DPI.
func DefaultOptions() Options {
	return Options{
		Quality:     100,
		Subsampling: image.YCbCrSubsampleRatio444,
		DPI:         300,
	}
}

// JPEG encodes images with jpegli.
type JPEG struct {
	opts Options
}

// NewJPEG returns an encoder using opts.
func NewJPEG(opts Options) *JPEG {
	return &JPEG{opts: opts}
}

// Options returns the encoder settings.
func (e *JPEG) Options() Options { return e.opts }

// Encode writes img to path. The file is written directly; a failed write may
// leave a partial file behind.
func (e *JPEG) Encode(img image.Image, path string) error {
	data, err := e.Bytes(img)
	if err != nil {
		return &types.EncodeError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &types.EncodeError{Path: path, Err: err}
	}
	return nil
}

// Bytes returns the encoded JPEG stream for img.
func (e *JPEG) Bytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := jpegli.Encode(&buf, img, &jpegli.EncodingOptions{
		Quality:           e.opts.Quality,
		ChromaSubsampling: e.opts.Subsampling,
	})
	if err != nil {
		return nil, fmt.Errorf("jpegli: %w", err)
	}
	return SetDensity(buf.Bytes(), e.opts.DPI, e.opts.DPI)
}

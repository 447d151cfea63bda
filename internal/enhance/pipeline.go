// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enhance applies the fixed tone, color, and sharpness adjustments to
// a decoded image. Stages run in a fixed order, each on the previous stage's
// output; the order changes the result and must not be rearranged.
package enhance

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// Stage is one named transform of the pipeline. Apply never mutates its input.
type Stage struct {
	Name  string
	Apply func(*image.NRGBA) *image.NRGBA
}

// Observer is called after each stage with the stage name and its duration.
type Observer func(stage string, elapsed time.Duration)

// Pipeline runs the enhancement stages with one immutable parameter set.
type Pipeline struct {
	params  types.EnhancementParams
	stages  []Stage
	observe Observer
}

// New builds the pipeline for params.
func New(params types.EnhancementParams) *Pipeline {
	p := params
	return &Pipeline{
		params: p,
		stages: []Stage{
			{"brightness", func(img *image.NRGBA) *image.NRGBA { return brightness(img, p.Brightness) }},
			{"contrast", func(img *image.NRGBA) *image.NRGBA { return contrast(img, p.Contrast) }},
			{"autocontrast", func(img *image.NRGBA) *image.NRGBA { return autocontrast(img, p.AutocontrastCutoff) }},
			{"equalize", equalize},
			{"saturation", func(img *image.NRGBA) *image.NRGBA { return saturation(img, p.Saturation) }},
			{"unsharp", func(img *image.NRGBA) *image.NRGBA {
				return unsharpMask(img, p.UnsharpRadius, p.UnsharpPercent, p.UnsharpThreshold)
			}},
			{"sharpness", func(img *image.NRGBA) *image.NRGBA { return sharpness(img, p.Sharpness) }},
		},
	}
}

// WithObserver returns a copy of the pipeline that reports stage timings to fn.
func (p *Pipeline) WithObserver(fn Observer) *Pipeline {
	cp := *p
	cp.observe = fn
	return &cp
}

// Params returns the parameter set the pipeline was built with.
func (p *Pipeline) Params() types.EnhancementParams {
	return p.params
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Enhance runs every stage on img and returns the final image. img is not
// modified. An error is returned for a malformed buffer or a stage that
// changes the image dimensions.
func (p *Pipeline) Enhance(img *image.NRGBA) (*image.NRGBA, error) {
	if err := validate(img); err != nil {
		return nil, err
	}

	cur := img
	if cur.Rect.Min != (image.Point{}) {
		cur = imaging.Clone(cur)
	}
	w, h := cur.Rect.Dx(), cur.Rect.Dy()

	for _, s := range p.stages {
		start := time.Now()
		next := s.Apply(cur)
		if next == nil {
			return nil, fmt.Errorf("stage %s returned no image", s.Name)
		}
		if next.Rect.Dx() != w || next.Rect.Dy() != h {
			return nil, fmt.Errorf("stage %s changed dimensions from %dx%d to %dx%d",
				s.Name, w, h, next.Rect.Dx(), next.Rect.Dy())
		}
		if p.observe != nil {
			p.observe(s.Name, time.Since(start))
		}
		cur = next
	}
	return cur, nil
}

// validate rejects buffers the stages cannot index safely.
func validate(img *image.NRGBA) error {
	if img == nil {
		return errors.New("enhance: nil image")
	}
	if img.Rect.Empty() {
		return errors.New("enhance: empty image")
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride < w*4 || len(img.Pix) < (h-1)*img.Stride+w*4 {
		return fmt.Errorf("enhance: malformed pixel buffer for %dx%d image", w, h)
	}
	return nil
}

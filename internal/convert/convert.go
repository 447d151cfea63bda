// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the RAW-to-JPEG batch: it discovers RAW files, and
// for each one decodes, enhances, and encodes it to completion before moving
// to the next. A failing file is logged and counted; it never stops the batch.
package convert

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// Decoder turns a RAW file into pixels.
type Decoder interface {
	// Decode reads the RAW file at path. Failures are *types.DecodeError.
	Decode(path string) (*image.NRGBA, error)
}

// Enhancer applies the enhancement pipeline to decoded pixels.
type Enhancer interface {
	Enhance(img *image.NRGBA) (*image.NRGBA, error)
}

// Encoder writes pixels to an image file.
type Encoder interface {
	// Encode writes img to path. Failures are *types.EncodeError.
	Encode(img image.Image, path string) error
}

// progress advances once per processed file.
type progress interface {
	Add(n int) error
	Finish() error
	Exit() error
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Converted int
	Failed    int

	// Failures lists the failed jobs in processing order.
	Failures []types.FileResult
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Converter wires a decoder, an enhancer, and an encoder together.
type Converter struct {
	dec Decoder
	enh Enhancer
	enc Encoder
	log logrus.FieldLogger
}

// New creates a Converter. log receives one entry per failed file and a
// batch summary.
func New(dec Decoder, enh Enhancer, enc Encoder, log logrus.FieldLogger) *Converter {
	return &Converter{dec: dec, enh: enh, enc: enc, log: log}
}

// ConvertFile decodes, enhances, and encodes a single job.
func (c *Converter) ConvertFile(job types.FileJob) types.FileResult {
	start := time.Now()
	err := c.convert(job)
	res := types.FileResult{
		Job:     job,
		Status:  types.ConversionDone,
		Elapsed: time.Since(start),
	}
	if err != nil {
		res.Status = types.ConversionFailed
		res.Err = err
	}
	return res
}

func (c *Converter) convert(job types.FileJob) error {
	img, err := c.dec.Decode(job.InputPath)
	if err != nil {
		return err
	}

	enhanced, err := c.enh.Enhance(img)
	if err != nil {
		return fmt.Errorf("enhancing %s: %w", job.InputPath, err)
	}

	return c.enc.Encode(enhanced, job.OutputPath)
}

// ConvertBatch processes jobs in order, advancing bar after each one. It
// stops early only when ctx is cancelled; the bar is then left unfinished.
func (c *Converter) ConvertBatch(ctx context.Context, jobs []types.FileJob, bar progress) BatchResult {
	var result BatchResult
	interrupted := false
	for _, job := range jobs {
		if ctx.Err() != nil {
			c.log.Warn("Interrupted, stopping batch")
			interrupted = true
			break
		}

		res := c.ConvertFile(job)
		name := filepath.Base(job.InputPath)
		if res.OK() {
			result.Converted++
			c.log.WithFields(logrus.Fields{
				"file":    name,
				"output":  filepath.Base(job.OutputPath),
				"elapsed": res.Elapsed.Round(time.Millisecond).String(),
			}).Debug("converted")
		} else {
			result.Failed++
			result.Failures = append(result.Failures, res)
			c.log.WithField("file", name).WithError(res.Err).Error("Error processing file")
		}
		_ = bar.Add(1)
	}
	if interrupted {
		_ = bar.Exit()
	} else {
		_ = bar.Finish()
	}

	c.log.WithFields(logrus.Fields{
		"converted": result.Converted,
		"failed":    result.Failed,
		"total":     result.Total(),
	}).Infof("Batch summary: %d converted, %d failed (total: %d)",
		result.Converted, result.Failed, result.Total())
	return result
}

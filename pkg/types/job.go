// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the cr2-enhancer pipeline:
// per-file jobs and results, the enhancement parameter set, run configuration,
// and the error kinds reported by the decode and encode stages.
package types

import "time"

// ConversionStatus indicates the outcome of converting one RAW file.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// FileJob pairs one discovered RAW file with the JPEG path it is written to.
// Jobs carry no retry state and are discarded once processed.
type FileJob struct {
	// InputPath is the absolute path of the RAW file.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the absolute path of the enhanced JPEG.
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// FileResult is the outcome of running decode, enhance and encode for a single job.
type FileResult struct {
	Job     FileJob          `json:"job" yaml:"job"`
	Status  ConversionStatus `json:"status" yaml:"status"`
	Err     error            `json:"-" yaml:"-"`
	Elapsed time.Duration    `json:"elapsed" yaml:"elapsed"`
}

// OK reports whether the job produced a JPEG.
func (r FileResult) OK() bool {
	return r.Status == ConversionDone
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// Run converts every RAW file in cfg.InputDir into cfg.OutputDir. It fails
// with types.ErrDirectoryNotFound before touching the output directory when
// the input directory is missing. The progress bar is drawn on progressOut.
func Run(ctx context.Context, cfg types.ConversionConfig, c *Converter, progressOut io.Writer) (BatchResult, error) {
	inputDir, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("resolving input directory %s: %w", cfg.InputDir, err)
	}
	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("resolving output directory %s: %w", cfg.OutputDir, err)
	}

	fi, err := os.Stat(inputDir)
	if err != nil || !fi.IsDir() {
		return BatchResult{}, fmt.Errorf("%w: %s", types.ErrDirectoryNotFound, inputDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	ext := cfg.Extension
	if ext == "" {
		ext = types.DefaultExtension
	}
	files, err := Discover(inputDir, ext)
	if err != nil {
		return BatchResult{}, err
	}

	label := strings.ToUpper(strings.TrimPrefix(ext, "."))
	if len(files) == 0 {
		c.log.Infof("No %s files found in %s", label, inputDir)
		return BatchResult{}, nil
	}

	c.log.WithField("count", len(files)).Infof("Found %d %s files in %s", len(files), label, inputDir)
	bar := newProgressBar(progressOut, len(files), fmt.Sprintf("Processing %s files", label))
	return c.ConvertBatch(ctx, Jobs(files, outputDir), bar), nil
}

func newProgressBar(w io.Writer, total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}

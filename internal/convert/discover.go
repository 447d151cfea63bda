// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// Discover lists the files directly inside dir whose extension matches ext
// case-insensitively, sorted by name. Subdirectories are not searched.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputName returns the JPEG file name for a RAW file: the stem prefixed
// with "enhanced_" and the extension replaced with ".jpg".
func OutputName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return types.OutputPrefix + stem + types.OutputExtension
}

// Jobs pairs every input file with its output path under outputDir.
func Jobs(files []string, outputDir string) []types.FileJob {
	jobs := make([]types.FileJob, len(files))
	for i, f := range files {
		jobs[i] = types.FileJob{
			InputPath:  f,
			OutputPath: filepath.Join(outputDir, OutputName(f)),
		}
	}
	return jobs
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cr2-enhancer/internal/encode"
	"github.com/pdiddy/cr2-enhancer/internal/enhance"
	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// fakeDecoder returns a size image (4x3 when unset), or a DecodeError for
// paths listed in fail.
type fakeDecoder struct {
	fail  map[string]bool
	size  image.Point
	calls []string
}

func (f *fakeDecoder) Decode(path string) (*image.NRGBA, error) {
	f.calls = append(f.calls, filepath.Base(path))
	if f.fail[filepath.Base(path)] {
		return nil, &types.DecodeError{Path: path, Err: errors.New("unsupported file format")}
	}
	size := f.size
	if size == (image.Point{}) {
		size = image.Pt(4, 3)
	}
	img := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8((x + y) * 3), A: 255})
		}
	}
	return img, nil
}

// cancellingDecoder cancels the batch context after its first decode.
type cancellingDecoder struct {
	fakeDecoder
	cancel context.CancelFunc
}

func (d *cancellingDecoder) Decode(path string) (*image.NRGBA, error) {
	defer d.cancel()
	return d.fakeDecoder.Decode(path)
}

// fakeEnhancer records the sizes it saw and passes images through.
type fakeEnhancer struct {
	err error
}

func (f *fakeEnhancer) Enhance(img *image.NRGBA) (*image.NRGBA, error) {
	if f.err != nil {
		return nil, f.err
	}
	return img, nil
}

// fileEncoder writes a marker file so tests can check which outputs exist.
type fileEncoder struct {
	fail map[string]bool
}

func (f *fileEncoder) Encode(img image.Image, path string) error {
	if f.fail[filepath.Base(path)] {
		return &types.EncodeError{Path: path, Err: errors.New("disk full")}
	}
	return os.WriteFile(path, []byte("jpeg"), 0o644)
}

// countingBar implements progress.
type countingBar struct {
	added    int
	finished bool
	exited   bool
}

func (b *countingBar) Add(n int) error { b.added += n; return nil }
func (b *countingBar) Finish() error   { b.finished = true; return nil }
func (b *countingBar) Exit() error     { b.exited = true; return nil }

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return log, &buf
}

// setupInput creates dir/<name> for each name and returns dir.
func setupInput(t *testing.T, names ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Images_CR2")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("raw"), 0o644))
	}
	return dir
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestConvertFile(t *testing.T) {
	out := t.TempDir()
	tests := []struct {
		name       string
		dec        *fakeDecoder
		enh        *fakeEnhancer
		enc        *fileEncoder
		wantStatus types.ConversionStatus
		check      func(t *testing.T, err error)
	}{
		{
			name:       "successful conversion",
			dec:        &fakeDecoder{},
			enh:        &fakeEnhancer{},
			enc:        &fileEncoder{},
			wantStatus: types.ConversionDone,
			check:      func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:       "decode failure",
			dec:        &fakeDecoder{fail: map[string]bool{"a.CR2": true}},
			enh:        &fakeEnhancer{},
			enc:        &fileEncoder{},
			wantStatus: types.ConversionFailed,
			check: func(t *testing.T, err error) {
				var de *types.DecodeError
				assert.ErrorAs(t, err, &de)
			},
		},
		{
			name:       "enhance failure",
			dec:        &fakeDecoder{},
			enh:        &fakeEnhancer{err: errors.New("enhance: malformed pixel buffer")},
			enc:        &fileEncoder{},
			wantStatus: types.ConversionFailed,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "enhancing")
			},
		},
		{
			name:       "encode failure",
			dec:        &fakeDecoder{},
			enh:        &fakeEnhancer{},
			enc:        &fileEncoder{fail: map[string]bool{"enhanced_a.jpg": true}},
			wantStatus: types.ConversionFailed,
			check: func(t *testing.T, err error) {
				var ee *types.EncodeError
				assert.ErrorAs(t, err, &ee)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := testLogger()
			c := New(tt.dec, tt.enh, tt.enc, log)
			job := types.FileJob{InputPath: "/in/a.CR2", OutputPath: filepath.Join(out, "enhanced_a.jpg")}

			res := c.ConvertFile(job)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, job, res.Job)
			tt.check(t, res.Err)
		})
	}
}

func TestConvertBatch_SkipsFailures(t *testing.T) {
	out := t.TempDir()
	jobs := Jobs([]string{"/in/a.CR2", "/in/b.CR2", "/in/c.CR2"}, out)

	dec := &fakeDecoder{fail: map[string]bool{"b.CR2": true}}
	log, buf := testLogger()
	bar := &countingBar{}

	result := New(dec, &fakeEnhancer{}, &fileEncoder{}, log).ConvertBatch(context.Background(), jobs, bar)

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "/in/b.CR2", result.Failures[0].Job.InputPath)

	assert.Equal(t, []string{"a.CR2", "b.CR2", "c.CR2"}, dec.calls)
	assert.Equal(t, 3, bar.added)
	assert.True(t, bar.finished)
	assert.False(t, bar.exited)
	assert.ElementsMatch(t, []string{"enhanced_a.jpg", "enhanced_c.jpg"}, listDir(t, out))

	logs := buf.String()
	assert.Contains(t, logs, "file=b.CR2")
	assert.Contains(t, logs, "unsupported file format")
	assert.Contains(t, logs, "Batch summary: 2 converted, 1 failed (total: 3)")
}

func TestConvertBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log, buf := testLogger()
	dec := &fakeDecoder{}
	result := New(dec, &fakeEnhancer{}, &fileEncoder{}, log).
		ConvertBatch(ctx, Jobs([]string{"/in/a.CR2"}, t.TempDir()), &countingBar{})

	assert.Equal(t, 0, result.Total())
	assert.Empty(t, dec.calls)
	assert.Contains(t, buf.String(), "Interrupted")
}

func TestConvertBatch_InterruptedLeavesBarUnfinished(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := t.TempDir()
	jobs := Jobs([]string{"/in/a.CR2", "/in/b.CR2", "/in/c.CR2"}, out)
	dec := &cancellingDecoder{cancel: cancel}
	bar := &countingBar{}
	log, buf := testLogger()

	result := New(dec, &fakeEnhancer{}, &fileEncoder{}, log).ConvertBatch(ctx, jobs, bar)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, []string{"a.CR2"}, dec.calls)
	assert.Equal(t, 1, bar.added)
	assert.True(t, bar.exited)
	assert.False(t, bar.finished, "a stopped batch must not draw a complete bar")
	assert.Contains(t, buf.String(), "Batch summary: 1 converted, 0 failed (total: 1)")
}

func TestConvertFile_RealPipelineKeepsDimensions(t *testing.T) {
	out := t.TempDir()
	dec := &fakeDecoder{size: image.Pt(37, 23)}
	log, _ := testLogger()
	c := New(dec, enhance.New(types.DefaultEnhancementParams()), encode.NewJPEG(encode.DefaultOptions()), log)

	job := Jobs([]string{"/in/IMG_0001.CR2"}, out)[0]
	res := c.ConvertFile(job)
	require.NoError(t, res.Err)
	assert.Equal(t, types.ConversionDone, res.Status)

	f, err := os.Open(job.OutputPath)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 37, cfg.Width)
	assert.Equal(t, 23, cfg.Height)
}

func TestRun(t *testing.T) {
	in := setupInput(t, "IMG_0001.CR2", "IMG_0002.cr2", "IMG_0003.Cr2", "notes.txt", "IMG_0004.jpg")
	require.NoError(t, os.Mkdir(filepath.Join(in, "sub.CR2"), 0o755))
	out := filepath.Join(t.TempDir(), "nested", "Enhanced_JPEGs")

	log, _ := testLogger()
	c := New(&fakeDecoder{}, &fakeEnhancer{}, &fileEncoder{}, log)
	cfg := types.ConversionConfig{InputDir: in, OutputDir: out, Extension: ".cr2"}

	result, err := Run(context.Background(), cfg, c, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Converted)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t,
		[]string{"enhanced_IMG_0001.jpg", "enhanced_IMG_0002.jpg", "enhanced_IMG_0003.jpg"},
		listDir(t, out))
}

func TestRun_CorruptFileAmongValid(t *testing.T) {
	in := setupInput(t, "a.CR2", "b.CR2", "corrupt.CR2", "d.CR2")
	out := filepath.Join(t.TempDir(), "out")

	log, _ := testLogger()
	c := New(&fakeDecoder{fail: map[string]bool{"corrupt.CR2": true}}, &fakeEnhancer{}, &fileEncoder{}, log)

	result, err := Run(context.Background(), types.ConversionConfig{InputDir: in, OutputDir: out}, c, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, listDir(t, out), 3)
}

func TestRun_NoMatchingFiles(t *testing.T) {
	in := setupInput(t, "readme.txt")
	out := filepath.Join(t.TempDir(), "Enhanced_JPEGs")

	log, buf := testLogger()
	dec := &fakeDecoder{}
	c := New(dec, &fakeEnhancer{}, &fileEncoder{}, log)

	var progressOut bytes.Buffer
	result, err := Run(context.Background(), types.ConversionConfig{InputDir: in, OutputDir: out}, c, &progressOut)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())
	assert.Empty(t, dec.calls)
	assert.Empty(t, listDir(t, out), "output directory is created but left empty")
	assert.Empty(t, progressOut.String())
	assert.Contains(t, buf.String(), "No CR2 files found in "+in)
}

func TestRun_OutputDirAlreadyExists(t *testing.T) {
	in := setupInput(t, "a.CR2")
	out := t.TempDir()

	log, _ := testLogger()
	c := New(&fakeDecoder{}, &fakeEnhancer{}, &fileEncoder{}, log)
	result, err := Run(context.Background(), types.ConversionConfig{InputDir: in, OutputDir: out}, c, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)
}

func TestRun_MissingInputDirectory(t *testing.T) {
	base := t.TempDir()
	in := filepath.Join(base, "Images_CR2")
	out := filepath.Join(base, "Enhanced_JPEGs")

	log, _ := testLogger()
	dec := &fakeDecoder{}
	c := New(dec, &fakeEnhancer{}, &fileEncoder{}, log)

	_, err := Run(context.Background(), types.ConversionConfig{InputDir: in, OutputDir: out}, c, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDirectoryNotFound)
	assert.Contains(t, err.Error(), in)
	assert.Empty(t, dec.calls)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created")
}

func TestRun_RelativePaths(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "Images_CR2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "Images_CR2", "x.CR2"), []byte("raw"), 0o644))
	t.Chdir(base)

	log, _ := testLogger()
	c := New(&fakeDecoder{}, &fakeEnhancer{}, &fileEncoder{}, log)
	result, err := Run(context.Background(),
		types.ConversionConfig{InputDir: "Images_CR2", OutputDir: "Enhanced_JPEGs"}, c, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)

	_, err = os.Stat(filepath.Join(base, "Enhanced_JPEGs", "enhanced_x.jpg"))
	assert.NoError(t, err)
}

func TestRun_ProgressOutput(t *testing.T) {
	in := setupInput(t, "a.CR2", "b.CR2")
	log, _ := testLogger()
	c := New(&fakeDecoder{}, &fakeEnhancer{}, &fileEncoder{}, log)

	var progressOut bytes.Buffer
	_, err := Run(context.Background(), types.ConversionConfig{InputDir: in, OutputDir: t.TempDir()}, c, &progressOut)
	require.NoError(t, err)
	assert.True(t, strings.Contains(progressOut.String(), "Processing CR2 files"))
}

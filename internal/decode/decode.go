// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decode turns camera RAW files into 8-bit RGB pixel buffers by
// running dcraw, either on the host or inside a container image.
//
// dcraw is always invoked with the same development settings: sRGB output,
// AHD interpolation, camera white balance, linear gamma, no automatic
// brightening, 8 bits per sample, TIFF written to stdout.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	"github.com/pdiddy/cr2-enhancer/internal/container"
	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// DefaultBinary is the dcraw executable looked up on PATH.
const DefaultBinary = "dcraw"

// workDir is where the RAW file's directory is mounted inside a container.
const workDir = "/work"

// Args returns the dcraw argument vector for path.
func Args(path string) []string {
	return []string{
		"-c",           // write to stdout
		"-T",           // TIFF instead of PPM
		"-w",           // camera white balance
		"-o", "1",      // sRGB output color space
		"-q", "3",      // AHD interpolation
		"-W",           // no automatic brightening
		"-g", "1", "1", // linear gamma
		path,
	}
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args []string, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Dcraw decodes RAW files with a dcraw binary installed on the host.
type Dcraw struct {
	bin  string
	exec executor
}

// NewDcraw returns a decoder running bin (DefaultBinary when empty).
func NewDcraw(bin string) *Dcraw {
	return newDcraw(bin, &osExecutor{})
}

func newDcraw(bin string, exec executor) *Dcraw {
	if bin == "" {
		bin = DefaultBinary
	}
	return &Dcraw{bin: bin, exec: exec}
}

// Name returns the configured binary.
func (d *Dcraw) Name() string { return d.bin }

// Check reports whether the binary can be found.
func (d *Dcraw) Check() error {
	if _, err := d.exec.LookPath(d.bin); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", d.bin, err)
	}
	return nil
}

// Decode runs dcraw on path and returns the developed image.
func (d *Dcraw) Decode(path string) (*image.NRGBA, error) {
	if err := checkReadable(path); err != nil {
		return nil, &types.DecodeError{Path: path, Err: err}
	}

	var out bytes.Buffer
	if err := d.exec.Run(d.bin, Args(path), &out); err != nil {
		return nil, &types.DecodeError{Path: path, Err: fmt.Errorf("running %s: %w", d.bin, err)}
	}

	img, err := readTIFF(out.Bytes())
	if err != nil {
		return nil, &types.DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Container decodes RAW files by running dcraw inside a container image.
// The file's directory is mounted read-only; nothing is written back.
type Container struct {
	runtime container.Runtime
	image   string
	bin     string
}

// NewContainer creates a decoder that runs bin from image. It verifies the
// image exists locally before returning.
func NewContainer(rt container.Runtime, image, bin string) (*Container, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("decoder image not available in %s: %w", rt.Name(), err)
	}
	if bin == "" {
		bin = DefaultBinary
	}
	return &Container{runtime: rt, image: image, bin: bin}, nil
}

// Name describes the runtime and image in use.
func (c *Container) Name() string {
	return c.runtime.Name() + ":" + c.image
}

// Decode runs dcraw in the container on path and returns the developed image.
func (c *Container) Decode(path string) (*image.NRGBA, error) {
	if err := checkReadable(path); err != nil {
		return nil, &types.DecodeError{Path: path, Err: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &types.DecodeError{Path: path, Err: err}
	}

	opts := container.RunOptions{
		Mounts: []container.Mount{{HostDir: filepath.Dir(abs), TargetDir: workDir, ReadOnly: true}},
		Command: append([]string{c.bin},
			Args(workDir+"/"+filepath.Base(abs))...),
	}

	var out bytes.Buffer
	if err := c.runtime.Run(c.image, opts, &out); err != nil {
		return nil, &types.DecodeError{Path: path, Err: err}
	}

	img, err := readTIFF(out.Bytes())
	if err != nil {
		return nil, &types.DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// checkReadable fails fast for missing, unreadable, or directory inputs so
// the decoder process is not started for them.
func checkReadable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// readTIFF decodes the decoder's stdout into an NRGBA buffer anchored at the origin.
func readTIFF(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, errors.New("decoder produced no output")
	}
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading decoder output: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, errors.New("decoder produced an empty image")
	}
	return imaging.Clone(img), nil
}

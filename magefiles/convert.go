//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the binary and converts bin/Images_CR2 into bin/Enhanced_JPEGs.
func Convert() error {
	mg.Deps(Init, Build)
	bin := filepath.Join(binDir, binName)
	fmt.Printf("[convert] %s\n", bin)
	return sh.RunV(bin, "--verbose")
}

// Check reports whether the RAW decoder and input directory are usable.
func Check() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "check")
}

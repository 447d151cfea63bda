// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cr2-enhancer CLI. Run without
// arguments it converts every CR2 file in Images_CR2 next to the executable
// into an enhanced JPEG in Enhanced_JPEGs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cr2-enhancer/internal/decode"
	"github.com/pdiddy/cr2-enhancer/internal/logging"
	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts the batch; subcommands inspect the setup.
var rootCmd = &cobra.Command{
	Use:   "cr2-enhancer",
	Short: "Batch-convert camera RAW files into enhanced JPEGs",
	Long: `cr2-enhancer develops every CR2 file in the input directory with dcraw,
applies a fixed enhancement pipeline (brightness, contrast, auto-contrast,
equalization, saturation, unsharp mask, sharpness), and writes
enhanced_<name>.jpg at quality 100, 4:4:4 chroma, 300 DPI.

Without flags, Images_CR2 and Enhanced_JPEGs next to the executable are used.
Files that fail are reported and skipped; the batch always runs to the end.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./cr2-enhancer.yaml or ~/.config/cr2-enhancer/cr2-enhancer.yaml)")
	pf.String("input-dir", "", "directory of RAW files (default: "+types.DefaultInputDir+" next to the executable)")
	pf.String("output-dir", "", "directory for JPEGs (default: "+types.DefaultOutputDir+" next to the executable)")
	pf.String("extension", types.DefaultExtension, "RAW file extension, matched case-insensitively")
	pf.String("decoder", decode.DefaultBinary, "dcraw executable")
	pf.String("decoder-image", "", "run the decoder inside this container image via docker or podman")
	pf.BoolP("verbose", "v", false, "log per-file and per-stage timings")
	pf.String("log-format", logging.FormatText, "log format: text or json")

	bindings := map[string]string{
		"input_dir":      "input-dir",
		"output_dir":     "output-dir",
		"extension":      "extension",
		"decoder.binary": "decoder",
		"decoder.image":  "decoder-image",
		"log.verbose":    "verbose",
		"log.format":     "log-format",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cr2-enhancer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cr2-enhancer"))
		}
	}

	viper.SetEnvPrefix("CR2_ENHANCER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the run configuration from viper. Relative directories
// are taken relative to the executable's directory.
func loadConfig(v *viper.Viper) (types.ConversionConfig, error) {
	base, err := programDir()
	if err != nil {
		return types.ConversionConfig{}, err
	}
	return types.ConversionConfig{
		InputDir:  resolveDir(v.GetString("input_dir"), base, types.DefaultInputDir),
		OutputDir: resolveDir(v.GetString("output_dir"), base, types.DefaultOutputDir),
		Extension: normalizeExt(v.GetString("extension")),
		Decoder: types.DecoderConfig{
			Binary: v.GetString("decoder.binary"),
			Image:  v.GetString("decoder.image"),
		},
		Log: types.LogConfig{
			Verbose: v.GetBool("log.verbose"),
			Format:  v.GetString("log.format"),
		},
	}, nil
}

// programDir returns the directory holding the running executable.
func programDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// resolveDir returns dir, or fallback when dir is empty, joined onto base
// unless it is already absolute.
func resolveDir(dir, base, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

func normalizeExt(ext string) string {
	if ext == "" {
		return types.DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cr2-enhancer: %v\n", err)
		os.Exit(1)
	}
}

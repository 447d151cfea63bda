// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cr2-enhancer/internal/container"
	"github.com/pdiddy/cr2-enhancer/internal/convert"
	"github.com/pdiddy/cr2-enhancer/internal/decode"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the decoder and input directory without converting",
	Long: `Check reports whether the RAW decoder can be run (on the host, or through
docker/podman when --decoder-image is set), where the input and output
directories resolve to, and how many RAW files would be converted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ok := true

		if cfg.Decoder.Image != "" {
			rt, err := container.DetectRuntime()
			if err != nil {
				fmt.Fprintf(out, "decoder: %v\n", err)
				ok = false
			} else if _, err := decode.NewContainer(rt, cfg.Decoder.Image, cfg.Decoder.Binary); err != nil {
				fmt.Fprintf(out, "decoder: %v\n", err)
				ok = false
			} else {
				fmt.Fprintf(out, "decoder: %s (%s)\n", cfg.Decoder.Image, rt.Name())
			}
		} else {
			d := decode.NewDcraw(cfg.Decoder.Binary)
			if err := d.Check(); err != nil {
				fmt.Fprintf(out, "decoder: %v\n", err)
				ok = false
			} else {
				fmt.Fprintf(out, "decoder: %s\n", d.Name())
			}
		}

		fmt.Fprintf(out, "input:   %s\n", cfg.InputDir)
		fmt.Fprintf(out, "output:  %s\n", cfg.OutputDir)

		if fi, err := os.Stat(cfg.InputDir); err != nil || !fi.IsDir() {
			fmt.Fprintln(out, "input directory not found")
			ok = false
		} else {
			files, err := convert.Discover(cfg.InputDir, cfg.Extension)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "files:   %d matching *%s\n", len(files), cfg.Extension)
		}

		if !ok {
			return errors.New("check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

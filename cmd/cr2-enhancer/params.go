// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"image"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cr2-enhancer/internal/decode"
	"github.com/pdiddy/cr2-enhancer/internal/encode"
	"github.com/pdiddy/cr2-enhancer/internal/enhance"
	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

// paramsDoc is the YAML view of the compiled-in processing settings.
type paramsDoc struct {
	Decoder     decoderDoc              `yaml:"decoder"`
	Stages      []string                `yaml:"stages"`
	Enhancement types.EnhancementParams `yaml:"enhancement"`
	JPEG        jpegDoc                 `yaml:"jpeg"`
}

type decoderDoc struct {
	Args []string `yaml:"args"`
}

type jpegDoc struct {
	Quality     int    `yaml:"quality"`
	Subsampling string `yaml:"subsampling"`
	DPI         uint16 `yaml:"dpi"`
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the fixed decode, enhancement, and JPEG settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeParams(cmd.OutOrStdout())
	},
}

func writeParams(w io.Writer) error {
	params := types.DefaultEnhancementParams()
	opts := encode.DefaultOptions()
	doc := paramsDoc{
		Decoder:     decoderDoc{Args: decode.Args("<file>")},
		Stages:      enhance.New(params).Stages(),
		Enhancement: params,
		JPEG: jpegDoc{
			Quality:     opts.Quality,
			Subsampling: subsamplingName(opts.Subsampling),
			DPI:         opts.DPI,
		},
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func subsamplingName(r image.YCbCrSubsampleRatio) string {
	switch r {
	case image.YCbCrSubsampleRatio444:
		return "4:4:4"
	case image.YCbCrSubsampleRatio422:
		return "4:2:2"
	case image.YCbCrSubsampleRatio420:
		return "4:2:0"
	default:
		return r.String()
	}
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}

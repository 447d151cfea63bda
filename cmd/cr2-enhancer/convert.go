// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cr2-enhancer/internal/container"
	"github.com/pdiddy/cr2-enhancer/internal/convert"
	"github.com/pdiddy/cr2-enhancer/internal/decode"
	"github.com/pdiddy/cr2-enhancer/internal/encode"
	"github.com/pdiddy/cr2-enhancer/internal/enhance"
	"github.com/pdiddy/cr2-enhancer/internal/logging"
	"github.com/pdiddy/cr2-enhancer/pkg/types"
)

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Verbose, cfg.Log.Format)
	if err != nil {
		return err
	}
	log := logger.WithField("run", uuid.NewString())

	dec, err := newDecoder(cfg.Decoder, log)
	if err != nil {
		return err
	}

	pipeline := enhance.New(types.DefaultEnhancementParams())
	if cfg.Log.Verbose {
		pipeline = pipeline.WithObserver(func(stage string, elapsed time.Duration) {
			log.WithFields(logrus.Fields{
				"stage":   stage,
				"elapsed": elapsed.Round(time.Millisecond).String(),
			}).Debug("stage done")
		})
	}

	c := convert.New(dec, pipeline, encode.NewJPEG(encode.DefaultOptions()), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(logrus.Fields{
		"version": version,
		"input":   cfg.InputDir,
		"output":  cfg.OutputDir,
	}).Info("Starting batch")

	_, err = convert.Run(ctx, cfg, c, os.Stderr)
	return err
}

// newDecoder selects the host dcraw binary, or a container image when one is
// configured. A missing host binary is only warned about: every file will
// then fail to decode and be reported individually.
func newDecoder(cfg types.DecoderConfig, log logrus.FieldLogger) (convert.Decoder, error) {
	if cfg.Image != "" {
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		d, err := decode.NewContainer(rt, cfg.Image, cfg.Binary)
		if err != nil {
			return nil, err
		}
		log.WithField("decoder", d.Name()).Info("Decoding in container")
		return d, nil
	}

	d := decode.NewDcraw(cfg.Binary)
	if err := d.Check(); err != nil {
		log.WithError(err).Warn("RAW decoder not available")
	}
	return d, nil
}

package main

import (
	"context"
	"os"
	"time"

	"github.com/woozymasta/csvgeo/internal/config"
	"github.com/woozymasta/csvgeo/internal/logger"
	"github.com/woozymasta/csvgeo/internal/pipeline"
	"github.com/woozymasta/csvgeo/internal/processor"
	"github.com/woozymasta/csvgeo/internal/proj"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"  env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	OutputDir  string        `short:"o" long:"out"     env:"OUTPUT_DIR"  description:"Output directory, overrides output_dir from config"`
	Limit      []string      `short:"l" long:"limit"   env:"LIMIT_NAMES" description:"Limit processing to specific source names or aliases"`
	Timeout    time.Duration `short:"t" long:"timeout" env:"TIMEOUT"     description:"HTTP timeout per source" default:"30s"`
	Force      bool          `short:"f" long:"force"   description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}

	registry, err := cfg.Registry()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register coordinate systems")
	}

	fetcher := &pipeline.HTTPFetcher{Client: pipeline.NewHTTPClient(opts.Timeout)}
	reprojector := proj.NewTransformer(registry)

	// Filter sources if limit is set
	sourcesToProcess := cfg.Sources
	if len(opts.Limit) > 0 {
		var missing []string
		sourcesToProcess, missing = processor.SelectSources(cfg, opts.Limit)
		for _, name := range missing {
			log.Error().
				Str("name", name).
				Msg("Source specified in --limit not found in configuration")
		}
	}

	log.Info().
		Int("sources_total", len(cfg.Sources)).
		Int("sources_queued", len(sourcesToProcess)).
		Str("output_dir", cfg.OutputDir).
		Msg("Starting loader")

	failed := 0
	for _, src := range sourcesToProcess {
		c, err := pipeline.ForSource(fetcher, reprojector, src)
		if err == nil {
			err = processor.ProcessSource(context.Background(), c, src, cfg.OutputDir, opts.Force)
		}
		if err != nil {
			failed++
			log.Error().Err(err).Str("source", src.Name).Msg("Failed to process source")
		}
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Loader finished with errors")
	}

	log.Info().Msg("Loader finished successfully")
}

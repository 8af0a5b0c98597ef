package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/csvgeo/internal/config"
	"github.com/woozymasta/csvgeo/internal/logger"
	"github.com/woozymasta/csvgeo/internal/pipeline"
	"github.com/woozymasta/csvgeo/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile   string        `short:"c" long:"config"        env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr         string        `short:"a" long:"addr"          env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port         int           `short:"p" long:"port"          env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	Timeout      time.Duration `short:"t" long:"timeout"       env:"FETCH_TIMEOUT"  description:"HTTP timeout for fetching sources" default:"30s"`
	AllowConvert bool          `long:"allow-convert" env:"ALLOW_CONVERT" description:"Allow converting arbitrary URLs on /convert"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	fetcher := &pipeline.HTTPFetcher{Client: pipeline.NewHTTPClient(opts.Timeout)}

	srvCtx, err := server.NewServerContext(cfg, fetcher)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}
	srvCtx.AllowConvert = opts.AllowConvert

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("sources_loaded", len(cfg.Sources)).
		Bool("allow_convert", opts.AllowConvert).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Router()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

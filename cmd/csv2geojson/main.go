package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/woozymasta/csvgeo/internal/config"
	"github.com/woozymasta/csvgeo/internal/geo"
	"github.com/woozymasta/csvgeo/internal/logger"
	"github.com/woozymasta/csvgeo/internal/pipeline"
	"github.com/woozymasta/csvgeo/internal/proj"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	URL           string        `short:"u" long:"url" description:"Source URL. Reads --in or stdin if empty"`
	Input         string        `short:"i" long:"in" description:"Input file path. Reads from stdin if empty"`
	Output        string        `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format        string        `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Delimiter     string        `short:"d" long:"delimiter" description:"Column delimiter: tab, comma, semicolon, pipe, space or literal" default:"tab"`
	SourceCRS     string        `short:"s" long:"source-crs" description:"CRS of the coordinate columns" default:"EPSG:4326"`
	TargetCRS     string        `short:"T" long:"target-crs" description:"CRS of the output geometry" default:"EPSG:4326"`
	CRS           []string      `long:"crs" description:"Extra CRS definition as NAME=proj4 (repeatable)"`
	Invalid       string        `long:"invalid" description:"Rows with unparsable coordinates" choice:"propagate" choice:"skip" default:"propagate"`
	LabelProperty string        `long:"label-property" description:"Store the rendered label in this feature property"`
	LabelFormat   string        `long:"label-format" description:"Label format" choice:"text" choice:"html" default:"html"`
	Timeout       time.Duration `short:"t" long:"timeout" description:"HTTP timeout" default:"30s"`
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

	registry := proj.DefaultRegistry()
	for _, def := range opts.CRS {
		name, raw, ok := strings.Cut(def, "=")
		if !ok {
			log.Fatal().Str("crs", def).Msg("CRS definition must be NAME=proj4")
		}
		if err := registry.Register(name, raw); err != nil {
			log.Fatal().Err(err).Msg("Failed to register coordinate system")
		}
	}

	src := config.Source{
		Name:          "cli",
		URL:           opts.URL,
		Delimiter:     opts.Delimiter,
		SourceCRS:     opts.SourceCRS,
		TargetCRS:     opts.TargetCRS,
		Invalid:       opts.Invalid,
		LabelProperty: opts.LabelProperty,
		LabelFormat:   opts.LabelFormat,
	}

	fetcher := &pipeline.HTTPFetcher{Client: pipeline.NewHTTPClient(opts.Timeout)}
	converter, err := pipeline.ForSource(fetcher, proj.NewTransformer(registry), src)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid options")
	}

	var fc *geo.GeoJSONFeatureCollection
	if opts.URL != "" {
		fc, err = converter.Convert(context.Background(), opts.URL, opts.Delimiter)
	} else {
		var text string
		text, err = readInput(opts.Input)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read input")
		}
		fc, err = converter.ConvertText(text, opts.Delimiter)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal output")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
		}
		log.Info().
			Int("features", len(fc.Features)).
			Str("path", opts.Output).
			Str("format", opts.Format).
			Msg("Conversion finished")
	} else {
		fmt.Println(string(outputData))
	}
}

func readInput(path string) (string, error) {
	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

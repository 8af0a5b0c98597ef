// Package pipeline fetches delimited text and converts it into GeoJSON point features.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/woozymasta/csvgeo/internal/config"
	"github.com/woozymasta/csvgeo/internal/geo"
	"github.com/woozymasta/csvgeo/internal/label"
	"github.com/woozymasta/csvgeo/internal/proj"
	"github.com/woozymasta/csvgeo/internal/table"

	"github.com/rs/zerolog/log"
)

// Converter runs the fetch, parse and assemble stages for one source setup.
// It holds no per-call state and may be used concurrently.
type Converter struct {
	Fetcher   Fetcher
	Assembler *geo.Assembler
}

// New creates a Converter that reprojects from sourceCRS to WGS84 with the default registry.
func New(fetcher Fetcher, sourceCRS string) *Converter {
	return &Converter{
		Fetcher: fetcher,
		Assembler: &geo.Assembler{
			Reprojector: proj.NewTransformer(proj.DefaultRegistry()),
			SourceCRS:   sourceCRS,
			TargetCRS:   proj.WGS84,
			Invalid:     geo.InvalidPropagate,
		},
	}
}

// ForSource creates a Converter configured by src.
func ForSource(fetcher Fetcher, reprojector proj.Reprojector, src config.Source) (*Converter, error) {
	policy, err := geo.ParseInvalidPolicy(src.Invalid)
	if err != nil {
		return nil, err
	}

	a := &geo.Assembler{
		Reprojector:   reprojector,
		SourceCRS:     src.SourceCRS,
		TargetCRS:     src.TargetCRS,
		Invalid:       policy,
		LabelProperty: src.LabelProperty,
	}

	if src.LabelProperty != "" {
		if a.Renderer, err = label.ForName(src.LabelFormat); err != nil {
			return nil, err
		}
	}

	return &Converter{Fetcher: fetcher, Assembler: a}, nil
}

// Convert fetches url and converts its delimited content into a feature collection.
// Failures are logged and returned as *Error carrying the failed stage.
func (c *Converter) Convert(ctx context.Context, url, delimiter string) (*geo.GeoJSONFeatureCollection, error) {
	log.Debug().
		Str("url", url).
		Stringer("stage", StageFetching).
		Msg("Fetching source")

	text, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, c.fail(&Error{Stage: StageFetching, URL: url, Err: err})
	}

	fc, err := c.ConvertText(text, delimiter)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			pe.URL = url
		}
		return nil, c.fail(err)
	}

	return fc, nil
}

// ConvertText converts already fetched delimited text.
func (c *Converter) ConvertText(text, delimiter string) (*geo.GeoJSONFeatureCollection, error) {
	t := table.Tabulate(text, table.DelimiterFor(delimiter))
	header := t.Header()

	cols, err := table.ResolveColumns(header)
	if err != nil {
		return nil, &Error{Stage: StageParsing, Err: err}
	}

	log.Debug().
		Int("rows", len(t.Rows())).
		Int("lat_column", cols.Lat).
		Int("lon_column", cols.Lon).
		Stringer("stage", StageAssembling).
		Msg("Assembling features")

	fc, err := c.Assembler.AssembleAll(t.Rows(), cols, header)
	if err != nil {
		return nil, &Error{Stage: StageAssembling, Err: err}
	}

	return fc, nil
}

func (c *Converter) fail(err error) error {
	stage, _ := StageOf(err)
	log.Error().
		Err(err).
		Stringer("stage", stage).
		Msg("Conversion failed")
	return err
}

// ConvertSource converts a configured source.
func (c *Converter) ConvertSource(ctx context.Context, src config.Source) (*geo.GeoJSONFeatureCollection, error) {
	fc, err := c.Convert(ctx, src.URL, src.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Name, err)
	}
	return fc, nil
}

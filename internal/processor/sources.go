// Package processor converts configured sources and writes GeoJSON files.
package processor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/woozymasta/csvgeo/internal/config"
	"github.com/woozymasta/csvgeo/internal/geo"
	"github.com/woozymasta/csvgeo/internal/pipeline"

	"github.com/rs/zerolog/log"
)

// OutputPath returns the file a source is written to.
func OutputPath(dir string, src config.Source) string {
	return filepath.Join(dir, src.Name+".geojson")
}

// SelectSources resolves names and aliases to configured sources, in the
// order given and without duplicates. Unknown names are returned as missing.
func SelectSources(cfg *config.Config, names []string) (selected []config.Source, missing []string) {
	seen := make(map[string]bool)

	for _, name := range names {
		src, ok := cfg.Lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		if seen[src.Name] {
			continue
		}
		seen[src.Name] = true

		selected = append(selected, src)
	}

	return selected, missing
}

// ProcessSource converts one source and writes it below dir.
// An existing file is kept unless force is set.
func ProcessSource(ctx context.Context, c *pipeline.Converter, src config.Source, dir string, force bool) error {
	destFile := OutputPath(dir, src)

	// Check if file exists
	if _, err := os.Stat(destFile); err == nil {
		if !force {
			log.Debug().Str("source", src.Name).Msg("GeoJSON file exists, skipping")
			return nil
		}
	}

	log.Info().
		Str("source", src.Name).
		Str("url", src.URL).
		Msg("Processing source")

	fc, err := c.ConvertSource(ctx, src)
	if err != nil {
		return err
	}

	if err := SaveGeoJSON(dir, destFile, fc); err != nil {
		return err
	}

	log.Info().
		Str("source", src.Name).
		Str("path", destFile).
		Int("features", len(fc.Features)).
		Msg("GeoJSON written")

	return nil
}

// SaveGeoJSON marshals the feature collection and writes it to disk.
func SaveGeoJSON(dir, path string, fc *geo.GeoJSONFeatureCollection) (err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
			if err == nil {
				err = closeErr
			}
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}

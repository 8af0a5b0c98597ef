package server

import (
	"sort"

	"github.com/woozymasta/csvgeo/internal/config"
	"github.com/woozymasta/csvgeo/internal/pipeline"
	"github.com/woozymasta/csvgeo/internal/proj"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config      *config.Config
	Registry    proj.Registry
	Fetcher     pipeline.Fetcher
	Reprojector proj.Reprojector
	Converters  map[string]*pipeline.Converter

	// AllowConvert enables conversion of arbitrary URLs on /convert.
	AllowConvert bool
}

// NewServerContext builds a converter for every configured source.
// Sources are ordered by index, then name.
func NewServerContext(cfg *config.Config, fetcher pipeline.Fetcher) (*ServerContext, error) {
	log.Info().Int("config_sources_count", len(cfg.Sources)).Msg("Initializing server context")

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	reprojector := proj.NewTransformer(registry)

	converters := make(map[string]*pipeline.Converter, len(cfg.Sources))

	for _, src := range cfg.Sources {
		c, err := pipeline.ForSource(fetcher, reprojector, src)
		if err != nil {
			return nil, err
		}
		converters[src.Name] = c

		log.Debug().
			Str("source", src.Name).
			Str("source_crs", src.SourceCRS).
			Str("target_crs", src.TargetCRS).
			Msg("Source added to context")
	}

	sort.Slice(cfg.Sources, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if cfg.Sources[i].Index != nil {
			idxI = *cfg.Sources[i].Index
		}
		if cfg.Sources[j].Index != nil {
			idxJ = *cfg.Sources[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return cfg.Sources[i].Name < cfg.Sources[j].Name
	})

	log.Info().
		Int("sources_count", len(cfg.Sources)).
		Strs("crs", registry.Names()).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:      cfg,
		Registry:    registry,
		Fetcher:     fetcher,
		Reprojector: reprojector,
		Converters:  converters,
	}, nil
}

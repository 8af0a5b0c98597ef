package proj

import (
	"fmt"
	"sort"
	"strings"
)

// Well known CRS names.
const (
	WGS84          = "EPSG:4326"
	PseudoMercator = "EPSG:3857"
)

// DefaultDefinitions are registered by DefaultRegistry.
var DefaultDefinitions = map[string]string{
	WGS84:          "+title=WGS 84 (long/lat) +proj=longlat +ellps=WGS84 +datum=WGS84 +units=degrees",
	PseudoMercator: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs +type=crs",
}

// Registry maps CRS names to their definitions. Names are case-insensitive.
type Registry map[string]Definition

// NewRegistry parses every definition and registers it under its name.
func NewRegistry(defs map[string]string) (Registry, error) {
	r := make(Registry, len(defs))
	for name, raw := range defs {
		if err := r.Register(name, raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry holding EPSG:4326 and EPSG:3857.
func DefaultRegistry() Registry {
	r, err := NewRegistry(DefaultDefinitions)
	if err != nil {
		panic(err)
	}
	return r
}

// Register parses raw and stores it under name, replacing any previous entry.
func (r Registry) Register(name, raw string) error {
	def, err := ParseDefinition(raw)
	if err != nil {
		return fmt.Errorf("crs %s: %w", name, err)
	}
	r[normalizeName(name)] = def
	return nil
}

// Lookup returns the definition registered under name.
func (r Registry) Lookup(name string) (Definition, error) {
	def, ok := r[normalizeName(name)]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownCRS, name)
	}
	return def, nil
}

// Names returns the registered names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

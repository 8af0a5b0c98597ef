// Package proj reprojects points between named coordinate reference systems.
package proj

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Supported projection kinds.
const (
	KindLongLat  = "longlat"
	KindMercator = "merc"
)

var (
	// ErrUnknownCRS is returned when a CRS name is not registered.
	ErrUnknownCRS = errors.New("unknown coordinate reference system")

	// ErrUnsupportedProjection is returned for definitions this package cannot evaluate.
	ErrUnsupportedProjection = errors.New("unsupported projection")
)

// Definition holds the parameters of a coordinate reference system,
// parsed from a proj4-style string.
type Definition struct {
	Raw  string
	Kind string
	A    float64 // sphere radius, meters
	Lon0 float64
	X0   float64
	Y0   float64
	K    float64
}

// ParseDefinition parses proj4 parameters such as
// "+proj=merc +a=6378137 +b=6378137 +lon_0=0 +k=1 +units=m".
// Parameters without meaning for the supported kinds are ignored.
func ParseDefinition(s string) (Definition, error) {
	def := Definition{
		Raw: strings.TrimSpace(s),
		A:   orb.EarthRadius,
		K:   1,
	}

	b := 0.0
	for _, token := range strings.Fields(s) {
		// words of a +title value
		if !strings.HasPrefix(token, "+") {
			continue
		}

		key, value, _ := strings.Cut(strings.TrimPrefix(token, "+"), "=")

		var err error
		switch key {
		case "proj":
			def.Kind = value
		case "a":
			def.A, err = strconv.ParseFloat(value, 64)
		case "b":
			b, err = strconv.ParseFloat(value, 64)
		case "lon_0":
			def.Lon0, err = strconv.ParseFloat(value, 64)
		case "x_0":
			def.X0, err = strconv.ParseFloat(value, 64)
		case "y_0":
			def.Y0, err = strconv.ParseFloat(value, 64)
		case "k", "k_0":
			def.K, err = strconv.ParseFloat(value, 64)
		}
		if err != nil {
			return Definition{}, fmt.Errorf("parse +%s: %w", key, err)
		}
	}

	switch def.Kind {
	case KindLongLat:
	case KindMercator:
		if b != 0 && b != def.A {
			return Definition{}, fmt.Errorf("%w: ellipsoidal mercator (a=%g, b=%g)", ErrUnsupportedProjection, def.A, b)
		}
		if def.A <= 0 || def.K <= 0 {
			return Definition{}, fmt.Errorf("%w: non-positive radius or scale", ErrUnsupportedProjection)
		}
	case "":
		return Definition{}, fmt.Errorf("%w: missing +proj", ErrUnsupportedProjection)
	default:
		return Definition{}, fmt.Errorf("%w: +proj=%s", ErrUnsupportedProjection, def.Kind)
	}

	return def, nil
}

package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/csvgeo/internal/proj"
	"github.com/woozymasta/csvgeo/internal/table"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// ErrInvalidCoordinate is returned for rows dropped under InvalidSkip.
var ErrInvalidCoordinate = errors.New("coordinate is not a number")

// InvalidPolicy decides what happens to rows whose coordinates do not parse.
type InvalidPolicy string

const (
	// InvalidPropagate keeps the row; NaN flows into the geometry.
	InvalidPropagate InvalidPolicy = "propagate"
	// InvalidSkip drops the row with a warning.
	InvalidSkip InvalidPolicy = "skip"
)

// ParseInvalidPolicy validates a policy name. Empty selects InvalidPropagate.
func ParseInvalidPolicy(s string) (InvalidPolicy, error) {
	switch p := InvalidPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return InvalidPropagate, nil
	case InvalidPropagate, InvalidSkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown invalid coordinate policy %q", s)
	}
}

// LabelFragment is one header/value pair of a feature label.
type LabelFragment struct {
	Header string `json:"header" yaml:"header"`
	Value  string `json:"value" yaml:"value"`
}

// LabelRenderer turns label fragments into a display string.
type LabelRenderer interface {
	Render(fragments []LabelFragment) (string, error)
}

// PointRecord is the raw content of one data row.
type PointRecord struct {
	Lat   string
	Lon   string
	Label []LabelFragment
}

// NewPointRecord extracts the coordinate fields and label fragments of row.
// Columns with an empty header are left out of the label.
func NewPointRecord(row []string, cols table.ColumnIndex, header []string) PointRecord {
	rec := PointRecord{
		Lat:   table.Field(row, cols.Lat),
		Lon:   table.Field(row, cols.Lon),
		Label: make([]LabelFragment, 0, len(header)),
	}

	for i, h := range header {
		if h == "" {
			continue
		}
		rec.Label = append(rec.Label, LabelFragment{
			Header: table.StripQuotes(h),
			Value:  table.StripQuotes(table.Field(row, i)),
		})
	}

	return rec
}

// Assembler builds point features from table rows.
type Assembler struct {
	Reprojector proj.Reprojector
	SourceCRS   string
	TargetCRS   string
	Invalid     InvalidPolicy

	// Renderer and LabelProperty are optional; when both are set the rendered
	// label is stored in the feature properties under LabelProperty.
	Renderer      LabelRenderer
	LabelProperty string
}

// Assemble builds the feature for one data row.
func (a *Assembler) Assemble(row []string, cols table.ColumnIndex, header []string) (GeoJSONFeature, error) {
	rec := NewPointRecord(row, cols, header)

	lat := parseCoordinate(rec.Lat)
	lon := parseCoordinate(rec.Lon)

	if a.Invalid == InvalidSkip && (math.IsNaN(lat) || math.IsNaN(lon)) {
		return GeoJSONFeature{}, fmt.Errorf("%w: lat=%q lon=%q", ErrInvalidCoordinate, rec.Lat, rec.Lon)
	}

	p, err := a.Reprojector.Reproject(orb.Point{lon, lat}, a.SourceCRS, a.TargetCRS)
	if err != nil {
		return GeoJSONFeature{}, err
	}

	feature := GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "Point",
			Coordinates: Position{p[0], p[1]},
		},
		Properties: map[string]interface{}{},
		Label:      rec.Label,
	}

	if a.Renderer != nil && a.LabelProperty != "" {
		text, err := a.Renderer.Render(rec.Label)
		if err != nil {
			return GeoJSONFeature{}, fmt.Errorf("render label: %w", err)
		}
		feature.Properties[a.LabelProperty] = text
	}

	return feature, nil
}

// AssembleAll builds one feature per row in order.
// Under InvalidSkip rows with unparsable coordinates are logged and left out;
// any other error aborts.
func (a *Assembler) AssembleAll(rows [][]string, cols table.ColumnIndex, header []string) (*GeoJSONFeatureCollection, error) {
	fc := NewFeatureCollection(len(rows))

	for i, row := range rows {
		feature, err := a.Assemble(row, cols, header)
		if errors.Is(err, ErrInvalidCoordinate) {
			log.Warn().
				Err(err).
				Int("row", i+1).
				Msg("Skipping row with invalid coordinates")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		fc.Features = append(fc.Features, feature)
	}

	return fc, nil
}

// parseCoordinate parses a field as a float, returning NaN when it is not a number.
func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(table.StripQuotes(s)), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

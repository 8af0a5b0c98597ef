// Package geo handles GeoJSON structures and assembles point features from table rows.
package geo

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single point feature.
// Label carries the ordered row columns for presentation and is not encoded.
type GeoJSONFeature struct {
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Label      []LabelFragment        `json:"-" yaml:"-"`
}

// GeoJSONGeometry represents the geometry of a feature.
type GeoJSONGeometry struct {
	Type        string   `json:"type" yaml:"type"`
	Coordinates Position `json:"coordinates" yaml:"coordinates"` // [Lon, Lat]
}

// Position is a coordinate tuple. Values that are not finite encode as JSON null.
type Position []float64

// NewFeatureCollection returns an empty collection with room for n features.
func NewFeatureCollection(n int) *GeoJSONFeatureCollection {
	return &GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoJSONFeature, 0, n),
	}
}

// MarshalJSON implements json.Marshaler.
func (p Position) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}

	buf := make([]byte, 0, 16*len(p)+2)
	buf = append(buf, '[')
	for i, v := range p {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'f', -1, 64)
	}
	buf = append(buf, ']')

	return buf, nil
}

// UnmarshalJSON implements json.Unmarshaler, decoding null members as NaN.
func (p *Position) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}

	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Position, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*p = out

	return nil
}

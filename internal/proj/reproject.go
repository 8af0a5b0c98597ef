package proj

import (
	"math"

	"github.com/paulmach/orb"
)

// Reprojector converts a point between two named coordinate reference systems.
type Reprojector interface {
	Reproject(p orb.Point, from, to string) (orb.Point, error)
}

// Transformer reprojects through geographic longitude/latitude using the
// definitions of its registry.
type Transformer struct {
	registry Registry
}

// NewTransformer creates a Transformer bound to registry.
func NewTransformer(registry Registry) *Transformer {
	return &Transformer{registry: registry}
}

// Reproject converts p, given in the from system, to the to system.
// Points are ordered x/y: longitude first for geographic systems.
func (t *Transformer) Reproject(p orb.Point, from, to string) (orb.Point, error) {
	src, err := t.registry.Lookup(from)
	if err != nil {
		return orb.Point{}, err
	}
	dst, err := t.registry.Lookup(to)
	if err != nil {
		return orb.Point{}, err
	}

	if src == dst {
		return p, nil
	}

	return fromLonLat(dst, toLonLat(src, p)), nil
}

// Latitude is not clamped near the poles, so projected points round-trip.
func toLonLat(d Definition, p orb.Point) orb.Point {
	if d.Kind != KindMercator {
		return p
	}

	r := d.A * d.K
	lon := (p[0]-d.X0)/r*180/math.Pi + d.Lon0
	lat := (2*math.Atan(math.Exp((p[1]-d.Y0)/r)) - math.Pi/2) * 180 / math.Pi

	return orb.Point{lon, lat}
}

func fromLonLat(d Definition, p orb.Point) orb.Point {
	if d.Kind != KindMercator {
		return p
	}

	r := d.A * d.K
	x := d.X0 + r*(p[0]-d.Lon0)*math.Pi/180
	y := d.Y0 + r*math.Log(math.Tan(math.Pi/4+p[1]*math.Pi/360))

	return orb.Point{x, y}
}

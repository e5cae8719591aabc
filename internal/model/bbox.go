package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidBBox is returned for a malformed bbox query value.
var ErrInvalidBBox = errors.New("invalid bbox")

// BBox is a south,west,north,east rectangle. West greater than east means
// the box crosses the antimeridian.
type BBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// ParseBBox parses "south,west,north,east".
func ParseBBox(raw string) (*BBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: expected 4 comma-separated values, got %d", ErrInvalidBBox, len(parts))
	}

	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: component %d: %q is not a number", ErrInvalidBBox, i+1, p)
		}
		vals[i] = v
	}

	return &BBox{South: vals[0], West: vals[1], North: vals[2], East: vals[3]}, nil
}

// CrossesAntimeridian reports whether the box wraps past ±180°.
func (b BBox) CrossesAntimeridian() bool {
	return b.West > b.East
}

// Contains applies the rectangle test, wrapping longitude when the box
// crosses the antimeridian.
func (b BBox) Contains(lat, lon float64) bool {
	if lat < b.South || lat > b.North {
		return false
	}
	if b.CrossesAntimeridian() {
		return lon >= b.West || lon <= b.East
	}
	return lon >= b.West && lon <= b.East
}

package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrInvalidBoundingBox is returned when a bbox string does not match
	// "<lat1>,<lon1>,<lat2>,<lon2>".
	ErrInvalidBoundingBox = errors.New("invalid bounding box")

	// ErrDegenerateBoundingBox is returned when a box has zero height or width.
	ErrDegenerateBoundingBox = errors.New("degenerate bounding box")
)

// bboxRe matches four non-negative decimals with a fractional part,
// comma-separated and without whitespace, e.g. "44.67,12.1,47.42,17.44".
var bboxRe = regexp.MustCompile(`^(\d+\.\d+),(\d+\.\d+),(\d+\.\d+),(\d+\.\d+)$`)

// BoundingBox is the geographic extent of a radar image in decimal degrees.
// Lat1/Lon1 is the corner mapped to pixel (0, 0); Lat2/Lon2 the opposite one.
type BoundingBox struct {
	Lat1 float64 `json:"lat1"`
	Lon1 float64 `json:"lon1"`
	Lat2 float64 `json:"lat2"`
	Lon2 float64 `json:"lon2"`
}

// ParseBoundingBox parses the ARSO bbox field.
func ParseBoundingBox(s string) (BoundingBox, error) {
	m := bboxRe.FindStringSubmatch(s)
	if m == nil {
		return BoundingBox{}, fmt.Errorf("%w: %q", ErrInvalidBoundingBox, s)
	}

	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("%w: %q: %w", ErrInvalidBoundingBox, s, err)
		}
		v[i] = f
	}

	box := BoundingBox{Lat1: v[0], Lon1: v[1], Lat2: v[2], Lon2: v[3]}
	if err := box.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return box, nil
}

// Validate rejects boxes that cannot map coordinates to pixels.
func (b BoundingBox) Validate() error {
	if b.Lat1 == b.Lat2 || b.Lon1 == b.Lon2 {
		return fmt.Errorf("%w: %s", ErrDegenerateBoundingBox, b)
	}
	return nil
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.Lat1, b.Lon1, b.Lat2, b.Lon2)
}

package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RadarMetadataRecord is one element of the ARSO map index. All fields are
// strings in the upstream JSON.
type RadarMetadataRecord struct {
	Mode   string `json:"mode"`
	Path   string `json:"path"`
	Date   string `json:"date"`
	HHMM   string `json:"hhmm"`
	BBox   string `json:"bbox"`
	Width  string `json:"width"`
	Height string `json:"height"`
	Valid  string `json:"valid"`
}

// RadarFrame is a georeferenced radar image and the time it is valid for.
type RadarFrame struct {
	ValidAt time.Time
	Path    string
	Raster  *GeoRaster
}

// ParseMetadata decodes the ARSO index. Only the array itself must be
// well-formed; individual records are validated later.
func ParseMetadata(text string) ([]RadarMetadataRecord, error) {
	var records []RadarMetadataRecord
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, fmt.Errorf("parse radar metadata: %w", err)
	}
	return records, nil
}

// ValidAt parses the record's RFC3339 validity timestamp.
func (r RadarMetadataRecord) ValidAt() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, r.Valid)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse valid time %q: %w", r.Valid, err)
	}
	return t, nil
}

// BoundingBox parses the record's bbox field.
func (r RadarMetadataRecord) BoundingBox() (BoundingBox, error) {
	return ParseBoundingBox(r.BBox)
}

// Dimensions returns the declared image size. ok is false when either field
// is missing or not a positive integer.
func (r RadarMetadataRecord) Dimensions() (width, height int, ok bool) {
	w, errW := strconv.Atoi(r.Width)
	h, errH := strconv.Atoi(r.Height)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// NewestFrame returns the frame with the latest ValidAt. Frames sharing the
// latest time resolve to the first one in the slice.
func NewestFrame(frames []RadarFrame) (RadarFrame, bool) {
	if len(frames) == 0 {
		return RadarFrame{}, false
	}
	newest := frames[0]
	for _, f := range frames[1:] {
		if f.ValidAt.After(newest.ValidAt) {
			newest = f
		}
	}
	return newest, true
}

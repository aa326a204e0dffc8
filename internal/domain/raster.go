package domain

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	// Registered decoders for image.Decode. ARSO serves PNG.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// GeoRaster is a decoded radar image pinned to a bounding box. It is not
// modified after construction.
type GeoRaster struct {
	img  image.Image
	bbox BoundingBox
}

// NewGeoRaster wraps an already decoded image.
func NewGeoRaster(img image.Image, bbox BoundingBox) (*GeoRaster, error) {
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())
	}
	return &GeoRaster{img: img, bbox: bbox}, nil
}

// DecodeGeoRaster decodes encoded image bytes, auto-detecting the format.
func DecodeGeoRaster(data []byte, bbox BoundingBox) (*GeoRaster, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	r, err := NewGeoRaster(img, bbox)
	if err != nil {
		return nil, fmt.Errorf("%s image: %w", format, err)
	}
	return r, nil
}

// BoundingBox returns the geographic extent of the raster.
func (r *GeoRaster) BoundingBox() BoundingBox { return r.bbox }

// Width returns the raster width in pixels.
func (r *GeoRaster) Width() int { return r.img.Bounds().Dx() }

// Height returns the raster height in pixels.
func (r *GeoRaster) Height() int { return r.img.Bounds().Dy() }

// Sample returns the pixel covering (lat, lon). The second result is false
// when the coordinate lies outside the bounding box.
func (r *GeoRaster) Sample(lat, lon float64) (color.NRGBA, bool) {
	w, h := r.Width(), r.Height()

	x := (lon - r.bbox.Lon1) / (r.bbox.Lon2 - r.bbox.Lon1) * float64(w)
	y := (lat - r.bbox.Lat1) / (r.bbox.Lat2 - r.bbox.Lat1) * float64(h)
	if !inRange(x, w) || !inRange(y, h) {
		return color.NRGBA{}, false
	}

	ix, iy := pixelIndex(x, w), pixelIndex(y, h)
	origin := r.img.Bounds().Min
	px := color.NRGBAModel.Convert(r.img.At(origin.X+ix, origin.Y+iy)).(color.NRGBA)
	return px, true
}

// SampleIntensity samples and classifies the pixel covering (lat, lon).
func (r *GeoRaster) SampleIntensity(lat, lon float64) (float64, bool) {
	px, ok := r.Sample(lat, lon)
	if !ok {
		return 0, false
	}
	return Classify(px), true
}

// inRange checks v against [0, n) before rounding. NaN fails both comparisons.
func inRange(v float64, n int) bool {
	return v >= 0 && v < float64(n)
}

// pixelIndex rounds to the nearest pixel. Values in [n-0.5, n) would round to
// n, which is one past the edge, so they are pinned to the last pixel.
func pixelIndex(v float64, n int) int {
	i := int(math.Round(v))
	if i >= n {
		return n - 1
	}
	return i
}

package domain

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBox  = BoundingBox{Lat1: 44.67, Lon1: 12.1, Lat2: 47.42, Lon2: 17.44}
	echoBlue = color.NRGBA{R: 8, G: 70, B: 254, A: 255}
	corner   = color.NRGBA{R: 203, G: 0, B: 204, A: 255}
)

func newTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, corner)
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGeoRaster_SampleLowerLeftCorner(t *testing.T) {
	r, err := NewGeoRaster(newTestImage(800, 600), testBox)
	require.NoError(t, err)

	px, ok := r.Sample(testBox.Lat1, testBox.Lon1)
	require.True(t, ok)
	assert.Equal(t, corner, px)
}

func TestGeoRaster_SampleOutside(t *testing.T) {
	r, err := NewGeoRaster(newTestImage(800, 600), testBox)
	require.NoError(t, err)

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"south", 44.0, 15.0},
		{"north edge", testBox.Lat2, 15.0},
		{"west", 45.0, 12.0},
		{"east edge", 45.0, testBox.Lon2},
		{"nan", math.NaN(), 15.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := r.Sample(tt.lat, tt.lon)
			assert.False(t, ok)
		})
	}
}

func TestGeoRaster_SampleInterpolates(t *testing.T) {
	img := newTestImage(800, 600)
	// (45.0, 15.0) maps to x≈434.46, y≈72.0.
	img.SetNRGBA(434, 72, echoBlue)

	r, err := NewGeoRaster(img, testBox)
	require.NoError(t, err)

	px, ok := r.Sample(45.0, 15.0)
	require.True(t, ok)
	assert.Equal(t, echoBlue, px)

	intensity, ok := r.SampleIntensity(45.0, 15.0)
	require.True(t, ok)
	assert.InDelta(t, 15.0/57.0, intensity, 1e-9)
}

func TestGeoRaster_RoundingAtFarEdgeStaysInside(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(3, 0, echoBlue)
	r, err := NewGeoRaster(img, BoundingBox{Lat1: 0, Lon1: 0, Lat2: 2, Lon2: 4})
	require.NoError(t, err)

	px, ok := r.Sample(0.0, 3.9)
	require.True(t, ok)
	assert.Equal(t, echoBlue, px)
}

func TestGeoRaster_NonZeroImageOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 14, 22))
	img.SetNRGBA(10, 20, corner)
	r, err := NewGeoRaster(img, BoundingBox{Lat1: 0, Lon1: 0, Lat2: 2, Lon2: 4})
	require.NoError(t, err)

	px, ok := r.Sample(0, 0)
	require.True(t, ok)
	assert.Equal(t, corner, px)
}

func TestDecodeGeoRaster(t *testing.T) {
	data := encodePNG(t, newTestImage(800, 600))

	r, err := DecodeGeoRaster(data, testBox)
	require.NoError(t, err)
	assert.Equal(t, 800, r.Width())
	assert.Equal(t, 600, r.Height())
	assert.Equal(t, testBox, r.BoundingBox())

	px, ok := r.Sample(testBox.Lat1, testBox.Lon1)
	require.True(t, ok)
	assert.Equal(t, corner, px)
}

func TestDecodeGeoRaster_Errors(t *testing.T) {
	_, err := DecodeGeoRaster([]byte("not an image"), testBox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")

	data := encodePNG(t, newTestImage(8, 6))
	_, err = DecodeGeoRaster(data, BoundingBox{Lat1: 1, Lon1: 1, Lat2: 1, Lon2: 2})
	require.ErrorIs(t, err, ErrDegenerateBoundingBox)
}

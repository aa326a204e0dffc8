package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/couchcryptid/radar-rain-monitor/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

var errUnreachable = errors.New("site unreachable")

// stubSource serves a fixed index and an in-memory image set.
type stubSource struct {
	metadata    string
	metadataErr error
	images      map[string][]byte

	mu        sync.Mutex
	requested []string
}

func (s *stubSource) FetchMetadata(_ context.Context) (string, error) {
	return s.metadata, s.metadataErr
}

func (s *stubSource) FetchImage(_ context.Context, relPath string) ([]byte, error) {
	s.mu.Lock()
	s.requested = append(s.requested, relPath)
	s.mu.Unlock()

	data, ok := s.images[relPath]
	if !ok {
		return nil, errUnreachable
	}
	return data, nil
}

// countingLoader wraps a FrameLoader and counts calls.
type countingLoader struct {
	inner interface {
		Load(ctx context.Context, src domain.SiteSource) ([]domain.RadarFrame, error)
	}
	calls atomic.Int64
}

func (c *countingLoader) Load(ctx context.Context, src domain.SiteSource) ([]domain.RadarFrame, error) {
	c.calls.Add(1)
	return c.inner.Load(ctx, src)
}

// recordingSink collects published statuses.
type recordingSink struct {
	err error

	mu       sync.Mutex
	statuses []domain.RainStatus
}

func (r *recordingSink) PublishStatus(_ context.Context, s domain.RainStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
	return r.err
}

func (r *recordingSink) published() []domain.RainStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RainStatus(nil), r.statuses...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// solidPNG encodes a w×h image filled with c.
func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

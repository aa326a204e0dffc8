package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/radar-rain-monitor/internal/domain"
	"github.com/couchcryptid/radar-rain-monitor/internal/observability"
)

// Skip reasons reported in radar_records_skipped_total.
const (
	skipTimestamp  = "timestamp"
	skipBBox       = "bbox"
	skipFetch      = "fetch"
	skipDecode     = "decode"
	skipDimensions = "dimensions"
)

// Loader turns a site's radar index into georeferenced frames.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// Load fetches and parses the index, then builds a frame per record. A
// metadata fetch or parse failure fails the call; a failure on one record
// only skips that record. Frames are returned in index order.
func (l *Loader) Load(ctx context.Context, src domain.SiteSource) ([]domain.RadarFrame, error) {
	text, err := src.FetchMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch radar metadata: %w", err)
	}

	records, err := domain.ParseMetadata(text)
	if err != nil {
		return nil, err
	}

	frames := make([]domain.RadarFrame, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, reason, err := l.loadFrame(ctx, src, rec)
		if err != nil {
			l.logger.Warn("skipping radar record",
				"path", rec.Path,
				"valid", rec.Valid,
				"reason", reason,
				"error", err,
			)
			l.metrics.RecordsSkipped.WithLabelValues(reason).Inc()
			continue
		}
		frames = append(frames, frame)
	}

	l.metrics.FramesLoaded.Add(float64(len(frames)))
	l.logger.Debug("radar index loaded", "records", len(records), "frames", len(frames))
	return frames, nil
}

// loadFrame builds one frame. On failure it also returns the skip reason.
func (l *Loader) loadFrame(ctx context.Context, src domain.SiteSource, rec domain.RadarMetadataRecord) (domain.RadarFrame, string, error) {
	validAt, err := rec.ValidAt()
	if err != nil {
		return domain.RadarFrame{}, skipTimestamp, err
	}

	box, err := rec.BoundingBox()
	if err != nil {
		return domain.RadarFrame{}, skipBBox, err
	}

	data, err := src.FetchImage(ctx, rec.Path)
	if err != nil {
		return domain.RadarFrame{}, skipFetch, err
	}

	raster, err := domain.DecodeGeoRaster(data, box)
	if err != nil {
		return domain.RadarFrame{}, skipDecode, err
	}

	if w, h, ok := rec.Dimensions(); ok && (w != raster.Width() || h != raster.Height()) {
		return domain.RadarFrame{}, skipDimensions,
			fmt.Errorf("declared %dx%d, decoded %dx%d", w, h, raster.Width(), raster.Height())
	}

	return domain.RadarFrame{ValidAt: validAt, Path: rec.Path, Raster: raster}, "", nil
}

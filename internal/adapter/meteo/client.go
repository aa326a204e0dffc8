// Package meteo implements domain.SiteSource against the ARSO nowcast site.
package meteo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/radar-rain-monitor/internal/observability"
)

const (
	// DefaultMetadataURL is the ARSO INCA precipitation index.
	DefaultMetadataURL = "http://www.meteo.si/uploads/probase/www/nowcast/inca/inca_si0zm_data.json?prod=si0zm"
	// DefaultImageBaseURL is prefixed to image paths from the index.
	DefaultImageBaseURL = "http://www.meteo.si"

	// maxBodyBytes caps a single response. Radar PNGs are well under 1 MiB.
	maxBodyBytes = 32 << 20
)

// Client fetches the radar index and images over HTTP.
type Client struct {
	metadataURL  string
	imageBaseURL string
	httpClient   *http.Client
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates an ARSO client. Every request is bounded by timeout.
func NewClient(metadataURL, imageBaseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		metadataURL:  metadataURL,
		imageBaseURL: imageBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchMetadata returns the raw JSON index of published maps.
func (c *Client) FetchMetadata(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.metadataURL, "metadata")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchImage returns the encoded image at imageBaseURL+relPath.
func (c *Client) FetchImage(ctx context.Context, relPath string) ([]byte, error) {
	return c.get(ctx, c.imageBaseURL+relPath, "image")
}

func (c *Client) get(ctx context.Context, url, kind string) ([]byte, error) {
	start := time.Now()
	body, err := c.doRequest(ctx, url, kind)
	c.metrics.FetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(kind).Inc()
		return nil, err
	}
	c.logger.Debug("fetched from radar site", "kind", kind, "url", url, "bytes", len(body))
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, url, kind string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("radar site error: %s: status %d: %s", kind, resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", kind, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%s body exceeds %d bytes", kind, maxBodyBytes)
	}
	return body, nil
}

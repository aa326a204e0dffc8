package domain

import "context"

// SiteSource provides the raw radar index and images of a publishing site.
type SiteSource interface {
	// FetchMetadata returns the raw JSON array describing published maps.
	FetchMetadata(ctx context.Context) (string, error)

	// FetchImage returns the encoded image found at a path from the index.
	FetchImage(ctx context.Context, relPath string) ([]byte, error)
}

// Package fixture provides an offline domain.SiteSource backed by a canned
// ARSO index and a bundled radar image.
package fixture

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Metadata is a one-record ARSO index matching the bundled image.
const Metadata = `[{"mode":"ANL","path":"0.png","date":"201911210245","hhmm":"0245","bbox":"44.67,12.1,47.42,17.44","width":"800","height":"600","valid":"2019-11-21T02:45:00Z"}]`

// DefaultImage is the path of the bundled 800x600 radar image.
const DefaultImage = "data/inca_si0zm_20191115-1830.png"

//go:embed data/inca_si0zm_20191115-1830.png
var bundled embed.FS

// Source implements domain.SiteSource. Every image request returns the same
// fixture image regardless of the requested path.
type Source struct {
	fsys      fs.FS
	imagePath string
	metadata  string
}

// New returns a Source serving the bundled image.
func New() *Source {
	return NewFromFS(bundled, DefaultImage)
}

// NewFromFile returns a Source serving an image from local disk.
func NewFromFile(path string) *Source {
	return NewFromFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// NewFromFS returns a Source serving imagePath from fsys.
func NewFromFS(fsys fs.FS, imagePath string) *Source {
	return &Source{fsys: fsys, imagePath: imagePath, metadata: Metadata}
}

// WithMetadata returns a copy of s that serves the given index instead of
// the canned one.
func (s *Source) WithMetadata(metadata string) *Source {
	c := *s
	c.metadata = metadata
	return &c
}

// FetchMetadata returns the canned index.
func (s *Source) FetchMetadata(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.metadata, nil
}

// FetchImage returns the fixture image bytes.
func (s *Source) FetchImage(ctx context.Context, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, s.imagePath)
	if err != nil {
		return nil, fmt.Errorf("read fixture image: %w", err)
	}
	return data, nil
}

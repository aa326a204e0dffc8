package status

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/couchcryptid/radar-rain-monitor/internal/domain"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type indexData struct {
	IsRaining   bool
	Description string
}

// Render produces the status page for a rain status.
func Render(s domain.RainStatus) (string, error) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexData{
		IsRaining:   s.Raining,
		Description: s.Description(),
	})
	if err != nil {
		return "", fmt.Errorf("render status page: %w", err)
	}
	return buf.String(), nil
}

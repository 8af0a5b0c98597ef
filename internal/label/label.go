// Package label renders feature label fragments for display.
package label

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/woozymasta/csvgeo/internal/geo"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Renderer names accepted by ForName.
const (
	FormatText = "text"
	FormatHTML = "html"
)

var htmlTemplate = template.Must(template.New("label").Parse(
	`{{range .}}<div>{{.Header}}: {{.Value}}</div>{{end}}`,
))

// ForName returns the renderer registered under name.
func ForName(name string) (geo.LabelRenderer, error) {
	switch strings.ToLower(name) {
	case FormatText:
		return Text{}, nil
	case FormatHTML:
		return NewHTML(), nil
	default:
		return nil, fmt.Errorf("unknown label format %q", name)
	}
}

// Text renders one "Header: value" line per fragment.
type Text struct{}

// Render implements geo.LabelRenderer.
func (Text) Render(fragments []geo.LabelFragment) (string, error) {
	var sb strings.Builder
	for i, f := range fragments {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.Header)
		sb.WriteString(": ")
		sb.WriteString(f.Value)
	}
	return sb.String(), nil
}

// HTML renders one escaped <div> per fragment, minified.
type HTML struct {
	m *minify.M
}

// NewHTML creates an HTML renderer.
func NewHTML() *HTML {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	return &HTML{m: m}
}

// Render implements geo.LabelRenderer.
func (h *HTML) Render(fragments []geo.LabelFragment) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, fragments); err != nil {
		return "", err
	}

	out, err := h.m.String("text/html", buf.String())
	if err != nil {
		return "", fmt.Errorf("minify label: %w", err)
	}

	return out, nil
}

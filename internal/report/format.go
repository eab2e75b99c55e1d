package report

import (
	"fmt"
	"io"
	"strings"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// Extension is the file extension used for reports in this format.
func (f Format) Extension() string {
	if f == FormatText || f == "" {
		return "txt"
	}
	return string(f)
}

// ParseFormat accepts a format name case-insensitively; "yml" is an alias
// for yaml and "" means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q (must be text, json, yaml, or html)", sharederrors.ErrUnsupportedFormat, s)
}

// Options tune rendering.
type Options struct {
	// Color enables ANSI colours in the text renderer.
	Color bool
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *Report, format Format, opts Options) error {
	switch format {
	case FormatText, "":
		return renderText(w, r, opts)
	case FormatJSON:
		return renderJSON(w, r)
	case FormatYAML:
		return renderYAML(w, r)
	case FormatHTML:
		return renderHTML(w, r)
	}
	return fmt.Errorf("%w: %q", sharederrors.ErrUnsupportedFormat, format)
}

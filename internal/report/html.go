package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/khanhnv2901/wpinspect/internal/audit"
)

const htmlTemplatePath = "templates/report.html"

//go:embed templates/report.html
var templateFS embed.FS

var (
	htmlTemplateFuncs = template.FuncMap{
		"upper":      strings.ToUpper,
		"statusCls":  statusClass,
		"formatTime": func(r *Report) string { return r.GeneratedAt.Format("2006-01-02 15:04 MST") },
		"duration":   humanDuration,
	}

	htmlReportTemplate = template.Must(
		template.New("report.html").Funcs(htmlTemplateFuncs).ParseFS(templateFS, htmlTemplatePath),
	)
)

func renderHTML(w io.Writer, r *Report) error {
	if err := htmlReportTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("failed to execute %s template: %w", htmlReportTemplate.Name(), err)
	}
	return nil
}

func statusClass(s audit.Status) string {
	switch s {
	case audit.StatusPass:
		return "good"
	case audit.StatusWarning:
		return "medium"
	default:
		return "poor"
	}
}

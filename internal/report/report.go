// Package report assembles audit results into a scored report and renders it
// as text, JSON, YAML or HTML.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khanhnv2901/wpinspect/internal/audit"
)

// Section is one category's results with its score.
type Section struct {
	Category       audit.Category `json:"category" yaml:"category"`
	Title          string         `json:"title" yaml:"title"`
	Score          int            `json:"score" yaml:"score"`
	Class          string         `json:"class" yaml:"class"`
	Summary        audit.Summary  `json:"summary" yaml:"summary"`
	Headline       string         `json:"headline" yaml:"headline"`
	Recommendation string         `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Results        []audit.Result `json:"results" yaml:"results"`
}

// Report is the outcome of one audit invocation. It is built per run and
// never stored.
type Report struct {
	ID           string        `json:"id" yaml:"id"`
	Target       string        `json:"target" yaml:"target"`
	GeneratedAt  time.Time     `json:"generated_at" yaml:"generated_at"`
	Duration     time.Duration `json:"-" yaml:"-"`
	DurationMS   int64         `json:"duration_ms" yaml:"duration_ms"`
	Overall      int           `json:"overall_score" yaml:"overall_score"`
	OverallClass string        `json:"overall_class" yaml:"overall_class"`
	Sections     []Section     `json:"sections" yaml:"sections"`
}

var recommendations = map[audit.Category]string{
	audit.Performance: "Pair a page cache plugin such as WP Rocket with a CDN such as Cloudflare.",
	audit.Security:    "Hide wp-admin behind additional authentication and restrict public REST endpoints.",
}

// Build runs the selected categories and scores them. With both categories
// the overall score is their rounded mean; with one it is that category's
// score.
func Build(ctx context.Context, runner *audit.Runner, target string, categories []audit.Category) *Report {
	start := time.Now()
	rep := &Report{
		ID:          uuid.NewString(),
		Target:      target,
		GeneratedAt: start.UTC(),
	}

	for _, c := range categories {
		rep.Sections = append(rep.Sections, NewSection(c, runner.Run(ctx, c)))
	}

	rep.Duration = time.Since(start)
	rep.DurationMS = rep.Duration.Milliseconds()
	rep.Overall = overall(rep.Sections)
	rep.OverallClass = audit.Class(rep.Overall)
	return rep
}

// NewSection scores results for category.
func NewSection(category audit.Category, results []audit.Result) Section {
	summary := audit.Summarize(results)
	score := audit.Score(results)
	return Section{
		Category:       category,
		Title:          category.Title(),
		Score:          score,
		Class:          audit.Class(score),
		Summary:        summary,
		Headline:       headline(category, summary),
		Recommendation: recommendations[category],
		Results:        results,
	}
}

// Section returns the section for category, if present.
func (r *Report) Section(category audit.Category) (Section, bool) {
	return find(r.Sections, category)
}

// Issues counts non-passing results across all sections.
func (r *Report) Issues() int {
	n := 0
	for _, s := range r.Sections {
		n += s.Summary.Issues()
	}
	return n
}

func overall(sections []Section) int {
	perf, okPerf := find(sections, audit.Performance)
	sec, okSec := find(sections, audit.Security)
	switch {
	case okPerf && okSec:
		return audit.Overall(perf.Score, sec.Score)
	case okPerf:
		return perf.Score
	case okSec:
		return sec.Score
	}
	return 0
}

func find(sections []Section, category audit.Category) (Section, bool) {
	for _, s := range sections {
		if s.Category == category {
			return s, true
		}
	}
	return Section{}, false
}

func headline(category audit.Category, s audit.Summary) string {
	if s.Issues() == 0 {
		switch category {
		case audit.Performance:
			return "No major performance issues detected."
		case audit.Security:
			return "No critical security issues detected."
		}
		return "No issues detected."
	}

	noun := "issues"
	if s.Issues() == 1 {
		noun = "issue"
	}
	return fmt.Sprintf("%d %s found (%d failing, %d warnings).", s.Issues(), noun, s.Fail, s.Warning)
}

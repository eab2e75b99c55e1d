package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/khanhnv2901/wpinspect/internal/audit"
)

type palette struct {
	success func(a ...interface{}) string
	warn    func(a ...interface{}) string
	fail    func(a ...interface{}) string
	info    func(a ...interface{}) string
	bold    func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		success: mk(color.FgGreen),
		warn:    mk(color.FgYellow),
		fail:    mk(color.FgRed),
		info:    mk(color.FgCyan),
		bold:    mk(color.Bold),
	}
}

func (p palette) status(s audit.Status) string {
	label := strings.ToUpper(s.String())
	switch s {
	case audit.StatusPass:
		return p.success(label)
	case audit.StatusWarning:
		return p.warn(label)
	default:
		return p.fail(label)
	}
}

func (p palette) class(score int) string {
	label := fmt.Sprintf("%d/100 (%s)", score, audit.Class(score))
	switch audit.Class(score) {
	case audit.ClassGood:
		return p.success(label)
	case audit.ClassMedium:
		return p.warn(label)
	default:
		return p.fail(label)
	}
}

func renderText(w io.Writer, r *Report, opts Options) error {
	p := newPalette(opts.Color)

	fmt.Fprintf(w, "%s %s\n", p.bold("WordPress audit:"), r.Target)
	fmt.Fprintf(w, "Report %s, generated %s in %s\n\n",
		r.ID, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"), humanDuration(r.DurationMS))

	for _, s := range r.Sections {
		fmt.Fprintf(w, "%s  %s\n", p.info(s.Title), p.class(s.Score))

		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for _, res := range s.Results {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.status(res.Status), res.Title, res.Message)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to flush %s table: %w", s.Category, err)
		}

		for _, res := range s.Results {
			if res.Fix == "" {
				continue
			}
			fmt.Fprintf(w, "    %s %s: %s\n", p.warn("fix"), res.Title, res.Fix)
		}

		if s.Summary.Issues() == 0 {
			fmt.Fprintf(w, "  %s\n", p.success(s.Headline))
		} else {
			fmt.Fprintf(w, "  %s\n", p.fail(s.Headline))
		}
		if s.Recommendation != "" {
			fmt.Fprintf(w, "  %s %s\n", p.bold("Recommended:"), s.Recommendation)
		}
		fmt.Fprintln(w)
	}

	_, err := fmt.Fprintf(w, "%s %s\n", p.bold("Overall score:"), p.class(r.Overall))
	return err
}

func humanDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return humanize.FtoaWithDigits(float64(ms)/1000, 1) + "s"
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/wpinspect/internal/audit"
	"github.com/khanhnv2901/wpinspect/internal/checker"
	"github.com/khanhnv2901/wpinspect/internal/hostenv"
	"github.com/khanhnv2901/wpinspect/internal/probe"
	"github.com/khanhnv2901/wpinspect/internal/report"
	consts "github.com/khanhnv2901/wpinspect/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
	"github.com/khanhnv2901/wpinspect/internal/shared/safepath"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the performance and security audit against a WordPress site",
	Long: `Run the WordPress audit.

Host configuration (plugins, wp-config flags, options, PHP runtime) is read
from a snapshot file passed with --env, plus WPINSPECT_ENV_* variables. The
live site is probed read-only over HTTP.`,
	Example: `  wpinspect audit --url https://example.com --env site.yaml
  wpinspect audit --url example.com --env site.yaml --category security --format json`,
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	appCtx := getAppContext(cmd)
	cfg := appCtx.Config.Audit

	if err := validateAuditConfig(&cfg); err != nil {
		return err
	}

	siteURL, err := probe.NormalizeSiteURL(cfg.SiteURL)
	if err != nil {
		return err
	}
	categories, err := audit.ParseCategory(cfg.Category)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	snapshot, err := hostenv.Load(cfg.EnvFile)
	if err != nil {
		return err
	}

	logger := appCtx.Logger
	prober := probe.NewProber(time.Duration(cfg.TimeoutSecs)*time.Second, cfg.RateLimit, logger)

	runner := audit.NewRunner(logger).WithConcurrency(cfg.Concurrency)
	checker.Register(runner, checker.Deps{Env: snapshot, Probe: prober, SiteURL: siteURL})

	var printer *progressPrinter
	if cfg.Progress {
		total := 0
		for _, c := range categories {
			total += runner.Count(c)
		}
		printer = newProgressPrinter(total, "audit", cmd.ErrOrStderr())
		runner.OnResult(func(c audit.Category, res audit.Result, d time.Duration) {
			printer.Increment(res.Status, d.Seconds())
		})
		printer.Start()
	}

	logger.Infow("audit started", "target", siteURL, "categories", categories, "concurrency", cfg.Concurrency)
	rep := report.Build(commandContext(cmd), runner, siteURL, categories)
	if printer != nil {
		printer.Stop()
	}
	for _, c := range categories {
		if section, ok := rep.Section(c); ok {
			logger.Infow("category scored", "category", c, "score", section.Score, "class", section.Class)
		}
	}
	logger.Infow("audit finished", "target", siteURL, "overall", rep.Overall, "issues", rep.Issues(), "duration", rep.Duration)

	path, err := reportPath(cfg, rep, format)
	if err != nil {
		return err
	}
	if err := writeReport(cmd.OutOrStdout(), rep, format, path); err != nil {
		return err
	}

	if cfg.MinScore > 0 && rep.Overall < cfg.MinScore {
		return &ScoreThresholdError{Score: rep.Overall, Min: cfg.MinScore}
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func validateAuditConfig(cfg *AuditRuntimeConfig) error {
	if cfg.SiteURL == "" {
		return fmt.Errorf("%w: --url (or site.url in the config file)", sharederrors.ErrMissingRequired)
	}

	minSecs := int(consts.MinProbeTimeout / time.Second)
	maxSecs := int(consts.MaxProbeTimeout / time.Second)
	if cfg.TimeoutSecs < minSecs || cfg.TimeoutSecs > maxSecs {
		return fmt.Errorf("%w: --timeout must be between %d and %d seconds, got %d",
			sharederrors.ErrInvalidInput, minSecs, maxSecs, cfg.TimeoutSecs)
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("%w: --concurrency must be at least 1", sharederrors.ErrInvalidInput)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("%w: --rate must not be negative", sharederrors.ErrInvalidInput)
	}
	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		return fmt.Errorf("%w: --min-score must be between 0 and 100", sharederrors.ErrInvalidInput)
	}
	return nil
}

// reportPath picks the destination file: --output wins, then a generated name
// under --output-dir. "" means stdout.
func reportPath(cfg AuditRuntimeConfig, rep *report.Report, format report.Format) (string, error) {
	if cfg.Output != "" || cfg.OutputDir == "" {
		return cfg.Output, nil
	}
	name := fmt.Sprintf("wpinspect-%s-%s.%s",
		safepath.FileName(probe.Host(rep.Target)),
		rep.GeneratedAt.Format("20060102-150405"),
		format.Extension())
	return safepath.ResolveWithin(cfg.OutputDir, name)
}

// writeReport renders to stdout, or to path when one is given. Files never
// carry colour codes.
func writeReport(stdout io.Writer, rep *report.Report, format report.Format, path string) error {
	if path == "" {
		return report.Render(stdout, rep, format, report.Options{Color: colorEnabled(stdout)})
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, rep, format, report.Options{}); err != nil {
		return err
	}
	if err := writeOutputFile(path, buf.Bytes()); err != nil {
		return err
	}
	class := rep.OverallClass
	if colorEnabled(stdout) {
		path = colorInfo(path)
		class = formatStatusWithColor(class)
	}
	fmt.Fprintf(stdout, "%s report written to %s (overall %d/100 %s, %d issues)\n", format, path, rep.Overall, class, rep.Issues())
	return nil
}

func init() {
	flags := auditCmd.Flags()
	flags.StringVarP(&cliConfig.Audit.SiteURL, "url", "u", "", "site URL to audit (scheme defaults to https)")
	flags.StringVarP(&cliConfig.Audit.EnvFile, "env", "e", "", "host configuration snapshot (yaml/json)")
	flags.StringVarP(&cliConfig.Audit.Category, "category", "c", defaultCategory, "checks to run: all, performance, security")
	flags.StringVarP(&cliConfig.Audit.Format, "format", "f", defaultFormat, "output format: text, json, yaml, html")
	flags.StringVarP(&cliConfig.Audit.Output, "output", "o", "", "write the report to a file instead of stdout")
	flags.StringVar(&cliConfig.Audit.OutputDir, "output-dir", "", "write the report under this directory with a generated name")
	flags.IntVar(&cliConfig.Audit.Concurrency, "concurrency", defaultConcurrency, "checks to run in parallel within a category")
	flags.IntVar(&cliConfig.Audit.RateLimit, "rate", consts.DefaultProbeRateLimit, "maximum probes per second (0 disables)")
	flags.IntVar(&cliConfig.Audit.TimeoutSecs, "timeout", defaultTimeoutSeconds, "per-probe timeout in seconds (5-10)")
	flags.BoolVar(&cliConfig.Audit.Progress, "progress", false, "show live progress on stderr")
	flags.IntVar(&cliConfig.Audit.MinScore, "min-score", 0, "exit with status 2 when the overall score is below this value")
}

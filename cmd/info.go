package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/wpinspect/internal/audit"
	"github.com/khanhnv2901/wpinspect/internal/checker"
	"github.com/khanhnv2901/wpinspect/internal/hostenv"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show configuration and check information",
	Long: `Display wpinspect configuration information including:
  - Configuration file location
  - Effective audit defaults
  - Registered checks per category
  - Platform information`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config

		configPath := appCtx.ConfigFile
		configExists := "✗ (using defaults)"
		if configPath == "" {
			homeDir, _ := os.UserHomeDir()
			configPath = filepath.Join(homeDir, configFileName+"."+configFileType)
		}
		if _, err := os.Stat(configPath); err == nil {
			configExists = "✓ (exists)"
		}

		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "wpinspect System Information")
		fmt.Fprintln(out, "============================")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Version:           %s\n", Version)
		fmt.Fprintf(out, "Platform:          %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Configuration File:   %s %s\n", configPath, configExists)
		fmt.Fprintf(out, "Snapshot Env Prefix:  %s_*\n", hostenv.EnvPrefix)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Audit Defaults:")
		fmt.Fprintf(out, "  Timeout:       %ds\n", cfg.Defaults.TimeoutSecs)
		fmt.Fprintf(out, "  Concurrency:   %d\n", cfg.Defaults.Concurrency)
		fmt.Fprintf(out, "  Rate Limit:    %d req/s\n", cfg.Defaults.RateLimit)
		fmt.Fprintf(out, "  Format:        %s\n", cfg.Defaults.Format)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Checks:")
		for _, c := range audit.Categories() {
			fmt.Fprintf(out, "  %-13s %d\n", c.Title()+":", len(checker.Specs(c)))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To override defaults, create ~/.wpinspect.yaml with:")
		fmt.Fprintln(out, "  defaults:")
		fmt.Fprintln(out, "    timeout_secs: 8")
		fmt.Fprintln(out, "    concurrency: 4")
		fmt.Fprintln(out, "  site:")
		fmt.Fprintln(out, "    url: https://example.com")
		fmt.Fprintln(out, "    env_file: ./site.yaml")

		return nil
	},
}

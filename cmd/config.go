package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	consts "github.com/khanhnv2901/wpinspect/internal/shared/constants"
)

const (
	defaultTimeoutSeconds = int(consts.DefaultProbeTimeout / time.Second)
	defaultConcurrency    = 1
	defaultFormat         = "text"
	defaultCategory       = "all"
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Audit    AuditRuntimeConfig
}

// DefaultValues represent operator-level defaults, typically derived from the config file.
type DefaultValues struct {
	TimeoutSecs int
	Concurrency int
	RateLimit   int
	Format      string
}

// AuditRuntimeConfig consolidates flag-driven settings for the audit command.
type AuditRuntimeConfig struct {
	SiteURL     string
	EnvFile     string
	Category    string
	Format      string
	Output      string
	OutputDir   string
	Concurrency int
	RateLimit   int
	TimeoutSecs int
	Progress    bool
	MinScore    int
}

type defaultOverrides struct {
	TimeoutSecs *int
	Concurrency *int
	RateLimit   *int
	Format      string
	Progress    *bool
	SiteURL     string
	EnvFile     string
	OutputDir   string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Defaults: DefaultValues{
			TimeoutSecs: defaultTimeoutSeconds,
			Concurrency: defaultConcurrency,
			RateLimit:   consts.DefaultProbeRateLimit,
			Format:      defaultFormat,
		},
		Audit: AuditRuntimeConfig{
			Category:    defaultCategory,
			Format:      defaultFormat,
			Concurrency: defaultConcurrency,
			RateLimit:   consts.DefaultProbeRateLimit,
			TimeoutSecs: defaultTimeoutSeconds,
		},
	}
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("defaults.timeout_secs") {
		val := viper.GetInt("defaults.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("defaults.concurrency") {
		val := viper.GetInt("defaults.concurrency")
		overrides.Concurrency = &val
	}

	if viper.IsSet("defaults.rate_limit") {
		val := viper.GetInt("defaults.rate_limit")
		overrides.RateLimit = &val
	}

	if viper.IsSet("defaults.format") {
		overrides.Format = viper.GetString("defaults.format")
	}

	if viper.IsSet("defaults.progress") {
		val := viper.GetBool("defaults.progress")
		overrides.Progress = &val
	}

	overrides.SiteURL = viper.GetString("site.url")
	overrides.EnvFile = viper.GetString("site.env_file")
	overrides.OutputDir = viper.GetString("defaults.output_dir")

	return overrides
}

// applyConfigDefaults merges config file defaults into the runtime config when the user
// did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()
	flags := auditCmd.Flags()

	if overrides.TimeoutSecs != nil {
		applyIntDefault(flags, "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Defaults.TimeoutSecs = v
			cliConfig.Audit.TimeoutSecs = v
		})
	}

	if overrides.Concurrency != nil {
		applyIntDefault(flags, "concurrency", *overrides.Concurrency, func(v int) {
			cliConfig.Defaults.Concurrency = v
			cliConfig.Audit.Concurrency = v
		})
	}

	if overrides.RateLimit != nil {
		applyIntDefault(flags, "rate", *overrides.RateLimit, func(v int) {
			cliConfig.Defaults.RateLimit = v
			cliConfig.Audit.RateLimit = v
		})
	}

	if overrides.Progress != nil {
		applyBoolDefault(flags, "progress", *overrides.Progress, func(v bool) {
			cliConfig.Audit.Progress = v
		})
	}

	if overrides.Format != "" {
		cliConfig.Defaults.Format = overrides.Format
		setStringFlagIfUnset(flags, "format", overrides.Format)
		setStringFlagIfUnset(checksCmd.Flags(), "format", overrides.Format)
	}

	if overrides.SiteURL != "" {
		setStringFlagIfUnset(flags, "url", overrides.SiteURL)
	}
	if overrides.EnvFile != "" {
		setStringFlagIfUnset(flags, "env", overrides.EnvFile)
	}
	if overrides.OutputDir != "" {
		setStringFlagIfUnset(flags, "output-dir", overrides.OutputDir)
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

const (
	configFileName = ".wpinspect"
	configFileType = "yaml"
)

var cfgFile string
var verbose bool

// AppContext carries the state shared by every command of one invocation.
type AppContext struct {
	Logger     *zap.SugaredLogger
	Config     *CLIConfig
	ConfigFile string
}

type appContextKey struct{}

var globalAppContext *AppContext

var rootCmd = &cobra.Command{
	Use:           "wpinspect",
	Short:         "WordPress performance and security audit",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(configFileName)
			viper.SetConfigType(configFileType)
		}

		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if cfgFile != "" || !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}

		logger, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		applyConfigDefaults(cmd)

		appCtx := &AppContext{
			Logger:     logger,
			Config:     cliConfig,
			ConfigFile: viper.ConfigFileUsed(),
		}
		storeAppContext(cmd, appCtx)

		logger.Debugw("configuration loaded", "config_file", appCtx.ConfigFile)
		return nil
	},
}

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if cmd != nil && cmd.Context() != nil {
		if appCtx, ok := cmd.Context().Value(appContextKey{}).(*AppContext); ok {
			return appCtx
		}
	}
	if globalAppContext != nil {
		return globalAppContext
	}
	return &AppContext{Logger: zap.NewNop().Sugar(), Config: cliConfig}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError(err.Error()))
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, sharederrors.ErrScoreBelowThreshold) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wpinspect.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr and detailed version output")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(checksCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(infoCmd)
}

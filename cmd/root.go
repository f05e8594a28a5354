package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/drippinrizz/xano-db-visualizer/internal/config"
	"github.com/drippinrizz/xano-db-visualizer/internal/observability"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "xano-viz",
	Short: "Setup wizard and graph visualizer for Xano database workspaces",
	Long: `xano-viz connects to a Xano workspace through the metadata API,
lets you choose a set of tables, and deploys a graph visualizer for them:
a JSON data endpoint plus a static HTML page that renders the tables'
records and inferred foreign-key relationships as an interactive
force-directed graph.`,
	// Version is set at build time. See cmd/version.go.
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			// Fall back to a usable logger so the error itself gets reported.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "xano-viz"})
			return err
		}

		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("Starting xano-viz", zap.String("version", Version))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. The command context is cancelled on SIGINT/SIGTERM so
// long-running commands (preview, snapshot) shut down cleanly.
func Execute() {
	defer observability.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./xano-viz.yaml)")
	rootCmd.PersistentFlags().String("token", "", "Xano metadata API access token")
	rootCmd.PersistentFlags().String("base-url", "", "Xano metadata API base URL (e.g. https://x1234-abcd.xano.io/api:meta)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cobra.CheckErr(viper.BindPFlag("xano.token", rootCmd.PersistentFlags().Lookup("token")))
	cobra.CheckErr(viper.BindPFlag("xano.base_url", rootCmd.PersistentFlags().Lookup("base-url")))

	rootCmd.AddCommand(
		newSetupCmd(),
		newSnapshotCmd(),
		newPreviewCmd(),
	)
}

// initializeConfig reads in the config file and environment variables.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("xano-viz")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("XANOVIZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults, env and flags cover everything.
	}
	return nil
}

// loadConfig unmarshals and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Package cmd implements the katalog command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/erazemk/katalog/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "katalog",
	Short: "Admin interface for the catalog taxonomy",
	Long: `katalog manages the categories, attributes and options of a catalog
backend through a web interface.

Settings are read from flags, KATALOG_* environment variables and an env
file (katalog.env or .env in the working directory, or --config).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "env file to read settings from")
	flags.StringP("log", "l", "", "log file path (default: stdout/stderr only)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	bindFlags(flags, map[string]string{
		config.KeyLog:      "log",
		config.KeyLogLevel: "log-level",
	})
}

// bindFlags binds each config key to the named flag.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

// loadConfig binds the running command's flags, resolves the configuration
// and sets up logging. The returned function closes the log file. Flags are
// bound here rather than in init since several commands share a key.
func loadConfig(cmd *cobra.Command, keys map[string]string) (*config.Config, func(), error) {
	bindFlags(cmd.Flags(), keys)
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, nil, err
	}
	closeLog, err := setupLogger(cfg.Log, cfg.SlogLevel())
	if err != nil {
		return nil, nil, err
	}
	if closeLog == nil {
		closeLog = func() {}
	}
	return cfg, closeLog, nil
}

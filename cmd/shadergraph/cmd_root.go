package main

import (
	"log/slog"

	"shadergraph/pkg/lib"

	"github.com/spf13/cobra"
)

var (
	flagConfigDir string
	flagCatalog   string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Translate shader disassembly into node graphs",
	Long: appName + " expands each scalar instruction of a disassembled shader into\n" +
		"node-graph operations, following a catalog of per-opcode templates.\n\n" +
		"Settings come from <config>/" + configFile + ", where <config> is\n" +
		"  $" + envConfigDir + " > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName + "\n" +
		"Flags override the file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default: auto-resolved)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "catalog file, .tbl or .yml (default: built-in)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the config file, applies the global flags on top of it and
// builds the logger. Logs go to the command's stderr.
func setup(cmd *cobra.Command) (Config, *slog.Logger, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, nil, err
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return cfg, nil, err
	}
	if flagCatalog != "" {
		cfg.Catalog = flagCatalog
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	log, err := lib.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// configDir returns --config-dir or the resolved default.
func configDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	return resolveConfigDir()
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const configInitHeader = "# " + appName + " settings\n" +
	"# catalog:        mapping table (.tbl) or YAML catalog; empty = built-in table\n" +
	"# on_unsupported: abort | skip\n" +
	"# workers:        programs translated at once; 0 = one per logical CPU\n" +
	"# log_level:      debug | info | warn | error\n\n"

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + configFile,
	Long: "Create the config directory and write " + configFile + " with the default\n" +
		"settings, or with answers to a short form when --interactive is set.\n\n" +
		"The default config directory follows the same priority as every command:\n" +
		"  $" + envConfigDir + " > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		interactive, _ := cmd.Flags().GetBool("interactive")
		dir, _ := cmd.Flags().GetString("dir")

		if dir == "" {
			var err error
			if dir, err = configDir(); err != nil {
				return err
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}

		path := filepath.Join(dir, configFile)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		cfg := defaultConfig()
		if interactive {
			if err := askConfig(&cfg); err != nil {
				return err
			}
		}
		if err := writeConfigFile(path, cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "initialised %s\n", dir)
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", path)
		fmt.Fprintf(cmd.ErrOrStderr(), "\nRun `%s catalog list` to see supported opcodes.\n", appName)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configInitCmd.Flags().Bool("interactive", false, "ask for each setting")
	configInitCmd.Flags().String("dir", "", "target config directory (default: auto-resolved)")
}

func writeConfigFile(path string, cfg Config) error {
	data, err := marshalConfig(cfg)
	if err != nil {
		return err
	}
	content := append([]byte(configInitHeader), data...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

// askConfig fills cfg from a terminal form, starting from its current values.
func askConfig(cfg *Config) error {
	workers := strconv.Itoa(cfg.Workers)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Catalog file").
				Description("Mapping table or YAML catalog; leave empty for the built-in table").
				Value(&cfg.Catalog),
			huh.NewSelect[string]().
				Title("Unsupported opcodes").
				Options(
					huh.NewOption("abort the program", "abort"),
					huh.NewOption("skip the instruction", "skip"),
				).
				Value(&cfg.OnUnsupported),
			huh.NewInput().
				Title("Workers").
				Description("Programs translated at once; 0 uses one per logical CPU").
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a number >= 0")
					}
					return nil
				}).
				Value(&workers),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&cfg.LogLevel),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	n, err := strconv.Atoi(workers)
	if err != nil {
		return fmt.Errorf("workers: %w", err)
	}
	cfg.Workers = n
	return nil
}

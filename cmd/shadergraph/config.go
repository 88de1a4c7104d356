package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/catalogyaml"

	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "shadergraph"

const configFile = "config.yml"

var envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"

// Config is the content of config.yml. Flags override every field.
type Config struct {
	// Catalog is a mapping table (.tbl) or YAML catalog; empty means the
	// embedded default.
	Catalog       string `yaml:"catalog"`
	OnUnsupported string `yaml:"on_unsupported"`
	// Workers bounds batch translation; 0 means one per logical CPU.
	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{OnUnsupported: "abort", LogLevel: "warn"}
}

// resolveConfigDir returns the base config directory for the application.
// Priority: $<APPNAME>_CONFIG_DIR > $XDG_CONFIG_HOME/<appName> > ~/.config/<appName>
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads dir/config.yml over the defaults. A missing file is not
// an error. A relative catalog path is taken relative to dir.
func loadConfig(dir string) (Config, error) {
	cfg := defaultConfig()
	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(dir, cfg.Catalog)
	}
	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("config file %s: workers must be >= 0, got %d", path, cfg.Workers)
	}
	return cfg, nil
}

// marshalConfig renders cfg as config.yml content.
func marshalConfig(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// isYAML reports whether path names a YAML file.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// loadCatalog reads a catalog file, picking the form from its extension.
// An empty path returns the embedded default.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	if isYAML(path) {
		return catalogyaml.Parse(data)
	}
	return catalog.Parse(data)
}

// programExts are the file extensions picked up when a directory is given.
var programExts = []string{".asm", ".txt"}

// globPrograms returns sorted disassembly files in dir.
func globPrograms(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range programExts {
			if ext == want {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	return files, nil
}

// expandInputs replaces every directory argument by the programs it holds.
// Plain files are kept as-is.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := globPrograms(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no programs found (looked for %s files)", strings.Join(programExts, ", "))
	}
	return files, nil
}

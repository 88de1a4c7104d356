package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/catalogyaml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDir(t *testing.T) {
	t.Setenv(envConfigDir, "/opt/sg")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/opt/sg", dir)

	t.Setenv(envConfigDir, "")
	dir, err = resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", appName), dir)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/dev")
	dir, err = resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dev", ".config", appName), dir)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	write(t, filepath.Join(dir, configFile), "catalog: mine.yml\non_unsupported: skip\nworkers: 3\n")
	cfg, err = loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mine.yml"), cfg.Catalog)
	assert.Equal(t, "skip", cfg.OnUnsupported)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "warn", cfg.LogLevel, "unset keys keep their default")

	write(t, filepath.Join(dir, configFile), "workers: -1\n")
	_, err = loadConfig(dir)
	assert.ErrorContains(t, err, "workers must be >= 0")

	write(t, filepath.Join(dir, configFile), "workers: [\n")
	_, err = loadConfig(dir)
	assert.ErrorContains(t, err, "config file")
}

func TestLoadCatalog(t *testing.T) {
	def, err := loadCatalog("")
	require.NoError(t, err)

	dir := t.TempDir()
	var table bytes.Buffer
	require.NoError(t, catalog.WriteTable(&table, def))
	write(t, filepath.Join(dir, "m.tbl"), table.String())
	doc, err := catalogyaml.Marshal(def)
	require.NoError(t, err)
	write(t, filepath.Join(dir, "m.yaml"), string(doc))

	for _, name := range []string{"m.tbl", "m.yaml"} {
		c, err := loadCatalog(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, def.Opcodes(), c.Opcodes(), name)
	}

	// A table is not valid YAML, so the extension decides the parser.
	write(t, filepath.Join(dir, "wrong.yml"), table.String())
	_, err = loadCatalog(filepath.Join(dir, "wrong.yml"))
	assert.Error(t, err)

	_, err = loadCatalog(filepath.Join(dir, "missing.tbl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "b.asm"), "")
	write(t, filepath.Join(dir, "a.txt"), "")
	write(t, filepath.Join(dir, "notes.md"), "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.asm"), 0o755))
	single := filepath.Join(t.TempDir(), "single.hlsl")
	write(t, single, "")

	files, err := expandInputs([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.asm"),
		single,
	}, files)

	_, err = expandInputs([]string{t.TempDir()})
	assert.ErrorContains(t, err, "no programs found")

	_, err = expandInputs([]string{filepath.Join(dir, "nope")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

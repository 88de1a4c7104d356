package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shadergraph/cmd/shadergraph/translate"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProgram = `ps_5_0
dcl_input_ps linear v0.xy
dcl_output o0.x
add o0.x, v0.x, v0.y
ret
`

const unsupportedProgram = `dcl_input v0.xy
and r0.x, v0.x, v0.y
add r0.y, v0.x, v0.y
`

// execute runs the root command with args against an empty config dir and
// returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(envConfigDir, t.TempDir())
	resetFlags(rootCmd)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag of the command tree to its default so
// tests do not leak values into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *flag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func programFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	write(t, path, src)
	return path
}

func TestTranslate_DryRun(t *testing.T) {
	path := programFile(t, "prog.asm", sampleProgram)

	out, errOut, err := execute(t, "translate", "--dry-run", path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `[dry-run] program "`+path+`"`), out)
	for _, want := range []string{
		"  stage:   ps\n",
		"  inputs:  v0.x, v0.y\n",
		"create_node " + translate.GroupInputName + " NodeGroupInput",
		"create_node add_0 ShaderNodeMath",
		"set_attribute add_0.operation = ADD",
		"set_input add_0.inputs[0] = group_input.outputs[0]",
		"    o0.x = add_0.outputs[0]\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, errOut, "1 programs, 0 failed")
}

func TestTranslate_Script(t *testing.T) {
	path := programFile(t, "prog.asm", sampleProgram)

	out, _, err := execute(t, "translate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "import bpy")
	assert.Contains(t, out, `bpy.data.node_groups.new("prog", 'ShaderNodeTree')`)
	assert.Contains(t, out, `SC_shadergroup.outputs.new('NodeSocketFloat', "o0.x")`)

	dir := filepath.Join(t.TempDir(), "scripts")
	out, errOut, err := execute(t, "translate", "--out", dir, "-j", "2", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "wrote "+filepath.Join(dir, "prog.py"))
	data, err := os.ReadFile(filepath.Join(dir, "prog.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "add_0 = newNode('ShaderNodeMath')")
}

func TestTranslate_Unsupported(t *testing.T) {
	path := programFile(t, "bad.asm", unsupportedProgram)

	_, errOut, err := execute(t, "translate", "--dry-run", path)
	require.ErrorIs(t, err, translate.ErrUnsupportedOpcode)
	assert.Contains(t, err.Error(), "1 of 1 programs failed")
	assert.Contains(t, errOut, "1 programs, 1 failed")

	out, _, err := execute(t, "translate", "--dry-run", "--on-unsupported", "skip", path)
	require.NoError(t, err)
	assert.Contains(t, out, "  skipped: and\n")
	assert.Contains(t, out, "create_node add_1 ShaderNodeMath")

	_, _, err = execute(t, "translate", "--on-unsupported", "maybe", path)
	assert.ErrorContains(t, err, "unknown policy")
}

func TestTranslate_PolicyFromConfig(t *testing.T) {
	path := programFile(t, "bad.asm", unsupportedProgram)
	dir := t.TempDir()
	write(t, filepath.Join(dir, configFile), "on_unsupported: skip\n")

	out, _, err := execute(t, "--config-dir", dir, "translate", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "  skipped: and\n")
}

func TestTranslate_SyntaxError(t *testing.T) {
	path := programFile(t, "bad.asm", "add r0.x, |v0.x|, l(1.0)\n")
	_, _, err := execute(t, "translate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phase=asm path="+path+":1")
}

func TestCatalog_ListShow(t *testing.T) {
	out, _, err := execute(t, "catalog", "list", "--status", "noop")
	require.NoError(t, err)
	assert.Contains(t, out, "nop")
	assert.NotContains(t, out, "[explicit]")
	assert.Contains(t, out, "opcodes:")

	out, _, err = execute(t, "catalog", "show", "add")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "## add"), out)

	out, _, err = execute(t, "catalog", "show", "--tree", "add")
	require.NoError(t, err)
	assert.Contains(t, out, "operation = ADD")

	_, _, err = execute(t, "catalog", "show", "bogus")
	assert.ErrorContains(t, err, "unknown opcode")

	_, _, err = execute(t, "catalog", "list", "--status", "weird")
	assert.Error(t, err)
}

func TestCatalog_ExportCheck(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "catalog.yml")
	tbl := filepath.Join(dir, "catalog.tbl")

	_, errOut, err := execute(t, "catalog", "export", "--format", "yaml", "-o", yml)
	require.NoError(t, err)
	assert.Contains(t, errOut, "wrote "+yml)

	table, _, err := execute(t, "catalog", "export")
	require.NoError(t, err)
	write(t, tbl, table)

	out, _, err := execute(t, "catalog", "check", yml, tbl)
	require.NoError(t, err)
	assert.Contains(t, out, yml+": ")
	assert.Contains(t, out, tbl+": ")

	broken := filepath.Join(dir, "broken.tbl")
	write(t, broken, "## add\n§name.operation = 'ADD'\n")
	out, _, err = execute(t, "catalog", "check", tbl, broken)
	assert.ErrorContains(t, err, "1 of 2 catalog files are invalid")
	assert.Contains(t, out, "malformed template")

	// The exported YAML drives translation exactly like the built-in table.
	path := programFile(t, "prog.asm", sampleProgram)
	want, _, err := execute(t, "translate", "--dry-run", path)
	require.NoError(t, err)
	got, _, err := execute(t, "--catalog", yml, "translate", "--dry-run", path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, _, err = execute(t, "catalog", "export", "--format", "json")
	assert.ErrorContains(t, err, "unknown format")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	_, errOut, err := execute(t, "config", "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "initialised "+dir)

	cfg, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	_, _, err = execute(t, "config", "init", "--dir", dir)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "config", "init", "--dir", dir, "--force")
	require.NoError(t, err)

	out, _, err := execute(t, "--config-dir", dir, "--log-level", "debug", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+dir+"\n")
	assert.Contains(t, out, "log_level: debug\n")
	assert.Contains(t, out, "on_unsupported: abort\n")
}

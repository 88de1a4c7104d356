package main

import (
	"errors"
	"fmt"
	"testing"

	"shadergraph/cmd/shadergraph/catalog"
	"shadergraph/cmd/shadergraph/translate"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValue(t *testing.T) {
	var p translate.Policy
	v := policyValue{&p}
	assert.Equal(t, "abort", v.String())

	require.NoError(t, v.Set("skip"))
	assert.Equal(t, translate.Skip, p)
	assert.Equal(t, "skip", v.String())

	assert.Error(t, v.Set("ignore"))
	assert.Equal(t, translate.Skip, p, "a rejected value leaves the policy alone")
}

func TestExportFormat(t *testing.T) {
	f := formatTable
	require.NoError(t, f.Set("yaml"))
	assert.Equal(t, formatYAML, f)
	assert.ErrorContains(t, f.Set("json"), `unknown format "json"`)
	assert.Equal(t, formatYAML, f)
}

func TestResolveWorkers(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	n := fs.Int("workers", 0, "")

	assert.Equal(t, 5, resolveWorkers(fs, *n, 5))
	assert.Equal(t, defaultWorkers(), resolveWorkers(fs, *n, 0))
	assert.GreaterOrEqual(t, defaultWorkers(), 1)

	require.NoError(t, fs.Set("workers", "3"))
	assert.Equal(t, 3, resolveWorkers(fs, *n, 5))
}

func TestHints(t *testing.T) {
	err := fmt.Errorf("1 of 2 programs failed: %w", errors.Join(translate.ErrUnsupportedOpcode))
	assert.Len(t, hints(err), 2)
	assert.Len(t, hints(fmt.Errorf("x: %w", catalog.ErrMalformedTemplate)), 1)
	assert.Nil(t, hints(errors.New("boom")))
}

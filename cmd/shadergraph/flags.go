package main

import (
	"fmt"
	"runtime"

	"shadergraph/cmd/shadergraph/translate"

	"github.com/shirou/gopsutil/v4/cpu"
	flag "github.com/spf13/pflag"
)

// policyValue is a pflag.Value over translate.Policy.
type policyValue struct{ p *translate.Policy }

var _ flag.Value = policyValue{}

func (v policyValue) String() string {
	if v.p == nil {
		return translate.Abort.String()
	}
	return v.p.String()
}

func (v policyValue) Set(s string) error {
	p, err := translate.ParsePolicy(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

func (policyValue) Type() string { return "abort|skip" }

// exportFormat is the serialized form written by catalog export.
type exportFormat string

const (
	formatTable exportFormat = "table"
	formatYAML  exportFormat = "yaml"
)

var _ flag.Value = (*exportFormat)(nil)

func (f *exportFormat) String() string { return string(*f) }

func (f *exportFormat) Set(s string) error {
	switch exportFormat(s) {
	case formatTable, formatYAML:
		*f = exportFormat(s)
		return nil
	}
	return fmt.Errorf("unknown format %q (want table or yaml)", s)
}

func (*exportFormat) Type() string { return "table|yaml" }

// defaultWorkers returns the number of logical CPUs.
func defaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// resolveWorkers picks the worker count: the flag when set, then config,
// then the CPU count.
func resolveWorkers(fs *flag.FlagSet, flagValue, configValue int) int {
	switch {
	case fs.Changed("workers") && flagValue > 0:
		return flagValue
	case configValue > 0:
		return configValue
	}
	return defaultWorkers()
}

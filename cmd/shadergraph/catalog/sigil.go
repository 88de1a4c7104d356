package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const sigil = "§"

var (
	localRe   = regexp.MustCompile(`^§(name(?:_[A-Za-z0-9_]+)?)$`)
	operandRe = regexp.MustCompile(`^§p(?:(\d+)|\[(\d+)\])$`)
	outputRe  = regexp.MustCompile(`^§(name(?:_[A-Za-z0-9_]+)?)(?:\.outputs\[(\d+)\])?$`)
)

// parseLocal strips the sigil from a local placeholder.
func parseLocal(s string) (string, bool) {
	m := localRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// localSuffix returns the part after "name_", or "" for the bare §name.
func localSuffix(local string) string {
	return strings.TrimPrefix(strings.TrimPrefix(local, "name"), "_")
}

func parseOperand(s string) (int, bool) {
	m := operandRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseTarget parses the left-hand side of a result binding.
func parseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "§var" {
		return VarTarget, nil
	}
	if n, ok := parseOperand(s); ok {
		return Target{Operand: n}, nil
	}
	return Target{}, fmt.Errorf("invalid result target %q", s)
}

// parseSource parses a right-hand side. lookup resolves a local identifier
// to its index among the locals created so far.
func parseSource(s string, lookup func(string) (int, bool)) (Source, error) {
	s = strings.TrimSpace(s)
	if s == "§var" {
		return nil, fmt.Errorf("§var is only valid as a result target")
	}
	if n, ok := parseOperand(s); ok {
		return OperandSource{Index: n}, nil
	}
	if m := outputRe.FindStringSubmatch(s); m != nil {
		idx, ok := lookup(m[1])
		if !ok {
			return nil, fmt.Errorf("local %s%s used before it is created", sigil, m[1])
		}
		out := 0
		if m[2] != "" {
			out, _ = strconv.Atoi(m[2])
		}
		return LocalSource{Local: idx, Output: out}, nil
	}
	if strings.HasPrefix(s, sigil) {
		return nil, fmt.Errorf("invalid placeholder %q", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q", s)
	}
	return LiteralSource{Value: f}, nil
}

// formatSource renders src back to its placeholder form.
func formatSource(src Source, locals []string) string {
	switch s := src.(type) {
	case OperandSource:
		return "§p" + strconv.Itoa(s.Index)
	case LiteralSource:
		return formatFloat(s.Value)
	case LocalSource:
		return fmt.Sprintf("%s%s.outputs[%d]", sigil, locals[s.Local], s.Output)
	}
	return ""
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

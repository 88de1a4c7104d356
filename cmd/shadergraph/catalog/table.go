package catalog

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	sectionRe   = regexp.MustCompile(`^## (\S+?)(?:/(\d+))?\s*$`)
	createRe    = regexp.MustCompile(`^(§\w+)\s*=\s*(?:matnodes\.)?new\(\s*["']([^"']+)["']\s*\)$`)
	inputRe     = regexp.MustCompile(`^(§\w+)\.inputs\[(\d+)\](?:\.default_value)?\s*=\s*(.+)$`)
	attributeRe = regexp.MustCompile(`^(§\w+)\.(\w+)\s*=\s*["']([^"']*)["']$`)
	resultRe    = regexp.MustCompile(`^(§var|§p\d+|§p\[\d+\])\s*=\s*(.+)$`)
)

// Parse reads a mapping table and builds the catalog.
func Parse(src []byte) (*Catalog, error) {
	sections, err := ParseSections(src)
	if err != nil {
		return nil, err
	}
	return Build(sections)
}

// ParseSections splits a mapping table into raw sections.
//
// Everything before the first "## " marker is preamble. Inside a section,
// blank lines are skipped and "#" lines are comments. A section with no
// lines at all is a stub (StatusUnimplemented); a section with comments but
// no directives is StatusNoOp.
func ParseSections(src []byte) ([]RawSection, error) {
	var (
		sections []RawSection
		cur      *RawSection
		sawLine  bool
	)
	flush := func() {
		if cur == nil {
			return
		}
		switch {
		case len(cur.Directives) > 0:
			cur.Status = StatusExplicit
		case sawLine:
			cur.Status = StatusNoOp
		default:
			cur.Status = StatusUnimplemented
		}
		sections = append(sections, *cur)
	}

	sc := bufio.NewScanner(bytes.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimRight(sc.Text(), "\r"))

		if strings.HasPrefix(line, "## ") {
			m := sectionRe.FindStringSubmatch(line)
			if m == nil {
				return nil, malformed("", lineNo, "invalid section marker %q", line)
			}
			flush()
			cur = &RawSection{Opcode: m[1], Line: lineNo}
			sawLine = false
			if m[2] != "" {
				n, _ := strconv.Atoi(m[2])
				cur.Arity = &n
			}
			continue
		}
		if cur == nil || line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			sawLine = true
			continue
		}

		d, err := parseDirective(line)
		if err != nil {
			return nil, malformed(cur.Opcode, lineNo, "%v", err)
		}
		d.Line = lineNo
		sawLine = true
		cur.Directives = append(cur.Directives, d)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return sections, nil
}

func parseDirective(line string) (RawDirective, error) {
	if m := createRe.FindStringSubmatch(line); m != nil {
		return RawDirective{Op: RawCreate, Local: m[1], Kind: m[2]}, nil
	}
	if m := inputRe.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return RawDirective{}, err
		}
		return RawDirective{Op: RawInput, Local: m[1], Input: n, Source: strings.TrimSpace(m[3])}, nil
	}
	if m := resultRe.FindStringSubmatch(line); m != nil {
		return RawDirective{Op: RawResult, Target: m[1], Source: strings.TrimSpace(m[2])}, nil
	}
	if m := attributeRe.FindStringSubmatch(line); m != nil {
		return RawDirective{Op: RawAttribute, Local: m[1], Field: m[2], Value: m[3]}, nil
	}
	return RawDirective{}, fmt.Errorf("unrecognised directive %q", line)
}

// WriteTable writes c in the canonical mapping table form. Parsing the
// output yields a catalog with the same templates, statuses and order.
func WriteTable(w io.Writer, c *Catalog) error {
	var b strings.Builder
	for _, t := range c.Templates() {
		writeSection(&b, t)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatTemplate renders a single section.
func FormatTemplate(t *Template) string {
	var b strings.Builder
	writeSection(&b, t)
	return b.String()
}

func writeSection(b *strings.Builder, t *Template) {
	b.WriteString("## " + t.Opcode)
	if t.ArityDeclared {
		fmt.Fprintf(b, "/%d", t.Arity)
	}
	b.WriteString("\n")

	switch t.Status {
	case StatusUnimplemented:
		return
	case StatusNoOp:
		b.WriteString("# no-op\n")
		return
	}

	for _, d := range t.Directives {
		switch d := d.(type) {
		case NodeCreate:
			fmt.Fprintf(b, "%s%s = matnodes.new(%q)\n", sigil, t.Locals[d.Local], string(d.Kind))
		case AttributeSet:
			fmt.Fprintf(b, "%s%s.%s = '%s'\n", sigil, t.Locals[d.Local], d.Field, d.Value)
		case SocketBind:
			if _, ok := d.Source.(LiteralSource); ok {
				fmt.Fprintf(b, "%s%s.inputs[%d].default_value = %s\n", sigil, t.Locals[d.Local], d.Input, formatSource(d.Source, t.Locals))
			} else {
				fmt.Fprintf(b, "%s%s.inputs[%d] = %s\n", sigil, t.Locals[d.Local], d.Input, formatSource(d.Source, t.Locals))
			}
		case ResultBind:
			fmt.Fprintf(b, "%s = %s\n", d.Target, formatSource(d.Source, t.Locals))
		}
	}
}

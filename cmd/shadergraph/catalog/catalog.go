package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"
)

// Catalog maps opcodes to their templates. It is immutable once built and
// safe for concurrent readers.
type Catalog struct {
	templates map[string]*Template
	order     []string
}

func newCatalog() *Catalog {
	return &Catalog{templates: make(map[string]*Template)}
}

func (c *Catalog) add(t *Template) error {
	if prev, exists := c.templates[t.Opcode]; exists {
		path := t.Opcode
		if t.Line > 0 {
			path = fmt.Sprintf("%s:%d", t.Opcode, t.Line)
		}
		return fmt.Errorf("phase=catalog path=%s: %w: %w (first at line %d)",
			path, ErrMalformedTemplate, ErrDuplicateOpcode, prev.Line)
	}
	c.templates[t.Opcode] = t
	c.order = append(c.order, t.Opcode)
	return nil
}

// Lookup returns the template of opcode and its status. Opcodes without a
// section and stub sections both report StatusUnimplemented; the template
// is nil only when the opcode has no section at all.
func (c *Catalog) Lookup(opcode string) (*Template, Status) {
	t, ok := c.templates[opcode]
	if !ok {
		return nil, StatusUnimplemented
	}
	return t, t.Status
}

// Get returns the declared section of opcode, whatever its status.
func (c *Catalog) Get(opcode string) (*Template, error) {
	t, ok := c.templates[opcode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, opcode)
	}
	return t, nil
}

// Opcodes returns the declared opcodes in source order.
func (c *Catalog) Opcodes() []string {
	return append([]string(nil), c.order...)
}

// Templates returns the declared templates in source order.
func (c *Catalog) Templates() []*Template {
	out := make([]*Template, len(c.order))
	for i, op := range c.order {
		out[i] = c.templates[op]
	}
	return out
}

// Len returns the number of declared sections.
func (c *Catalog) Len() int { return len(c.order) }

// Counts returns how many sections carry each status.
func (c *Catalog) Counts() map[Status]int {
	counts := map[Status]int{}
	for _, t := range c.templates {
		counts[t.Status]++
	}
	return counts
}

// Sorted returns the declared opcodes in lexical order.
func (c *Catalog) Sorted() []string {
	ops := c.Opcodes()
	sort.Strings(ops)
	return ops
}

//go:embed mappings.tbl
var defaultTable []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded mapping table.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(defaultTable)
	})
	return defaultCatalog, defaultErr
}

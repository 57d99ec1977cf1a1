// Package macro implements the textual macro table: purely textual bodies
// with no parameters, no conditional assembly, and no forward references.
package macro

import (
	"fmt"

	"github.com/mini15/mini15asm/diag"
)

// Macro is a named block of source lines. Created once during expansion and
// never mutated afterward.
type Macro struct {
	Name string
	Body []string
	Pos  diag.Position
}

// Table holds every macro defined so far in a file, keyed by name for O(1)
// lookup during expansion.
type Table struct {
	macros map[string]*Macro
	order  []string
}

// NewTable returns an empty macro table.
func NewTable() *Table {
	return &Table{macros: make(map[string]*Macro)}
}

// Define registers m. Redefining an existing macro name is rejected.
func (t *Table) Define(m *Macro) error {
	if _, exists := t.macros[m.Name]; exists {
		return fmt.Errorf("macro %q redefined", m.Name)
	}
	t.macros[m.Name] = m
	t.order = append(t.order, m.Name)
	return nil
}

// Lookup returns the macro named name, if any.
func (t *Table) Lookup(name string) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// Len reports how many macros are currently registered.
func (t *Table) Len() int {
	return len(t.macros)
}

// All returns every registered macro in definition order.
func (t *Table) All() []*Macro {
	out := make([]*Macro, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.macros[name])
	}
	return out
}

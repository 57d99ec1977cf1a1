package asmline

import (
	"fmt"

	"github.com/mini15/mini15asm/diag"
)

// Symbol is one entry in the symbol table: a label bound to an address, or
// an external name referenced but not defined in this file.
type Symbol struct {
	Name     string
	Address  uint32
	Defined  bool
	IsEntry  bool
	IsExtern bool
	Pos      diag.Position
}

// SymbolTable is an explicit name-to-symbol mapping built at the end of the
// first pass, giving O(1) lookups instead of scanning the line-record table.
type SymbolTable struct {
	symbols          map[string]*Symbol
	order            []string
	diagnoseDuplicate bool
}

// NewSymbolTable returns an empty symbol table. diagnoseDuplicate controls
// whether redefining an already-defined label is reported as an error.
func NewSymbolTable(diagnoseDuplicate bool) *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol), diagnoseDuplicate: diagnoseDuplicate}
}

// Define binds name to address as a locally defined label.
func (t *SymbolTable) Define(name string, address uint32, pos diag.Position) error {
	if existing, ok := t.symbols[name]; ok {
		if existing.Defined && t.diagnoseDuplicate {
			return fmt.Errorf("label %q redefined (first defined at %s)", name, existing.Pos)
		}
		existing.Address = address
		existing.Defined = true
		existing.Pos = pos
		return nil
	}
	t.symbols[name] = &Symbol{Name: name, Address: address, Defined: true, Pos: pos}
	t.order = append(t.order, name)
	return nil
}

// Reference ensures name exists in the table, creating an undefined
// placeholder if this is the first time it's seen (used for extern names
// that have no local label).
func (t *SymbolTable) Reference(name string, pos diag.Position) *Symbol {
	if s, ok := t.symbols[name]; ok {
		return s
	}
	s := &Symbol{Name: name, Pos: pos}
	t.symbols[name] = s
	t.order = append(t.order, name)
	return s
}

// Get returns the symbol named name.
func (t *SymbolTable) Get(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// MarkEntry marks name as an entry symbol. Returns an error if name is
// unknown (undefined-symbol) or already extern (invariant 2).
func (t *SymbolTable) MarkEntry(name string, pos diag.Position) error {
	s, ok := t.symbols[name]
	if !ok || !s.Defined {
		return fmt.Errorf("entry directive refers to undefined symbol %q", name)
	}
	if s.IsExtern {
		return fmt.Errorf("symbol %q cannot be both entry and extern", name)
	}
	s.IsEntry = true
	return nil
}

// MarkExtern marks name as external, creating the symbol if this file never
// defines it locally. Returns an error if name is already a local entry.
func (t *SymbolTable) MarkExtern(name string, pos diag.Position) error {
	s := t.Reference(name, pos)
	if s.IsEntry {
		return fmt.Errorf("symbol %q cannot be both entry and extern", name)
	}
	s.IsExtern = true
	return nil
}

// All returns every symbol in definition order.
func (t *SymbolTable) All() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.symbols[name])
	}
	return out
}

package macro

import (
	"strings"

	"github.com/mini15/mini15asm/diag"
)

// Expander turns a raw source file into a fully expanded one: comments and
// blank lines stripped, whitespace normalized, every macro invocation
// replaced by its body.
type Expander struct {
	MaxMacros        int
	MaxMacroBodyLine int

	table *Table
	errs  *diag.List
}

// NewExpander returns an Expander enforcing the given table-capacity limits.
func NewExpander(maxMacros, maxMacroBodyLines int) *Expander {
	return &Expander{
		MaxMacros:        maxMacros,
		MaxMacroBodyLine: maxMacroBodyLines,
		table:            NewTable(),
	}
}

// Table returns the macro table built while expanding. Read-only once
// Expand has returned.
func (e *Expander) Table() *Table {
	return e.table
}

const (
	macroDefineKeyword = "macr"
	macroEndKeyword    = "endmacr"
)

// Expand runs the two-state recognizer over src and returns the expanded
// text plus any diagnostics collected along the way.
func (e *Expander) Expand(filename, src string) (string, *diag.List) {
	e.errs = &diag.List{}

	var output []string
	var defining bool
	var current *Macro
	var overflow bool

	lines := strings.Split(src, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		pos := diag.Position{Filename: filename, Line: lineNo}

		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || trimmed[0] == ';' {
			continue
		}
		normalized := normalizeWhitespace(trimmed)
		tokens := strings.Fields(normalized)

		if defining {
			if tokens[0] == macroEndKeyword {
				e.closeDefinition(current, overflow)
				defining = false
				current = nil
				overflow = false
				continue
			}
			if len(current.Body) >= e.MaxMacroBodyLine {
				if !overflow {
					e.errs.Add(current.Pos, diag.Resource, "macro %q exceeds maximum body length of %d lines", current.Name, e.MaxMacroBodyLine)
				}
				overflow = true
				continue
			}
			current.Body = append(current.Body, normalized)
			continue
		}

		if tokens[0] == macroDefineKeyword {
			if len(tokens) < 2 {
				e.errs.Add(pos, diag.Structural, "macr directive missing macro name")
				continue
			}
			if e.table.Len() >= e.MaxMacros {
				e.errs.Add(pos, diag.Resource, "macro table capacity (%d) exceeded, definition %q discarded", e.MaxMacros, tokens[1])
				overflow = true
				defining = true
				current = &Macro{Name: tokens[1], Pos: pos}
				continue
			}
			defining = true
			current = &Macro{Name: tokens[1], Pos: pos}
			continue
		}

		output = append(output, e.substitute(tokens)...)
	}

	if defining {
		e.errs.Add(current.Pos, diag.Structural, "unterminated macro definition %q", current.Name)
	}

	return strings.Join(output, "\n"), e.errs
}

// substitute replaces every token naming a known macro with that macro's
// body, each body line emitted on its own output line; other tokens are
// accumulated and joined back into a single line.
func (e *Expander) substitute(tokens []string) []string {
	var out []string
	var buf []string

	flush := func() {
		if len(buf) > 0 {
			out = append(out, strings.Join(buf, " "))
			buf = nil
		}
	}

	for _, tok := range tokens {
		if m, ok := e.table.Lookup(tok); ok {
			flush()
			out = append(out, m.Body...)
			continue
		}
		buf = append(buf, tok)
	}
	flush()
	return out
}

func (e *Expander) closeDefinition(m *Macro, overflow bool) {
	if overflow {
		return
	}
	if err := e.table.Define(m); err != nil {
		e.errs.Add(m.Pos, diag.Structural, "%s", err)
	}
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// Package asmline implements the first pass: turning expanded source text
// into typed line records with assigned addresses, plus the symbol table
// built from their labels.
package asmline

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mini15/mini15asm/diag"
)

// Options configures the first pass's tunable limits.
type Options struct {
	MemoryStart             int
	MaxLabelLength          int
	DiagnoseDuplicateLabels bool
}

// FirstPassResult is the first pass's output: the ordered line records and
// the symbol table built from their labels and entry/extern directives.
type FirstPassResult struct {
	Records []*LineRecord
	Symbols *SymbolTable
}

// RunFirstPass parses every line of text, assigns addresses, and resolves
// .entry/.extern directives against the resulting symbol table.
func RunFirstPass(filename, text string, opts Options) (*FirstPassResult, *diag.List) {
	errs := &diag.List{}
	addr := uint32(opts.MemoryStart)

	var records []*LineRecord
	for i, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		pos := diag.Position{Filename: filename, Line: i + 1}
		rec := parseLine(raw, pos, opts, errs)
		rec.Address = addr
		addr += uint32(rec.Width)
		records = append(records, rec)
	}

	symbols := NewSymbolTable(opts.DiagnoseDuplicateLabels)
	for _, r := range records {
		if r.Label == "" {
			continue
		}
		if err := symbols.Define(r.Label, r.Address, r.Pos); err != nil {
			errs.Add(r.Pos, diag.Semantic, "%s", err)
			r.Err = true
		}
	}

	for _, r := range records {
		switch r.Kind {
		case KindEntry:
			resolveDirective(r, symbols.MarkEntry, records, errs, func(rec *LineRecord) { rec.IsEntry = true })
		case KindExtern:
			resolveDirective(r, symbols.MarkExtern, records, errs, func(rec *LineRecord) { rec.IsExtern = true })
		}
	}

	return &FirstPassResult{Records: records, Symbols: symbols}, errs
}

func resolveDirective(r *LineRecord, mark func(string, diag.Position) error, records []*LineRecord, errs *diag.List, flag func(*LineRecord)) {
	if err := mark(r.DirectiveSymbol, r.Pos); err != nil {
		errs.Add(r.Pos, diag.Semantic, "%s", err)
		r.Err = true
		return
	}
	for _, other := range records {
		if other.Label == r.DirectiveSymbol {
			flag(other)
		}
	}
}

func parseLine(raw string, pos diag.Position, opts Options, errs *diag.List) *LineRecord {
	rec := &LineRecord{Pos: pos, Raw: raw, Opcode: -1}

	text := strings.TrimSpace(raw)
	firstTok, rest := splitToken(text)

	if strings.HasSuffix(firstTok, ":") {
		label := strings.TrimSuffix(firstTok, ":")
		if err := validateLabel(label, opts.MaxLabelLength); err != nil {
			errs.Add(pos, diag.Lexical, "%s", err)
			rec.Err = true
			return rec
		}
		rec.Label = label
		firstTok, rest = splitToken(rest)
	}

	switch {
	case strings.HasPrefix(firstTok, "."):
		parseDirective(rec, firstTok, rest, pos, errs)
	case firstTok == "":
		errs.Add(pos, diag.Structural, "expected an instruction or directive")
		rec.Err = true
	default:
		if info, ok := LookupOpcode(firstTok); ok {
			parseInstruction(rec, info, rest, pos, errs)
		} else {
			errs.Add(pos, diag.Structural, "unknown mnemonic or directive %q", firstTok)
			rec.Err = true
		}
	}

	if rec.Width == 0 && rec.Kind == KindInstruction {
		rec.Width = 1
	}
	return rec
}

func parseDirective(rec *LineRecord, name, rest string, pos diag.Position, errs *diag.List) {
	switch name {
	case ".data":
		rec.Kind = KindData
		values, err := parseDataValues(rest)
		if err != nil {
			errs.Add(pos, diag.Semantic, "%s", err)
			rec.Err = true
			return
		}
		if len(values) == 0 {
			errs.Add(pos, diag.Structural, ".data directive has no values")
			rec.Err = true
			return
		}
		rec.DataValues = values
		rec.Width = len(values)

	case ".string":
		rec.Kind = KindString
		content, err := parseQuotedString(rest)
		if err != nil {
			errs.Add(pos, diag.Structural, "%s", err)
			rec.Err = true
			return
		}
		rec.StringValue = content
		rec.Width = len(content) + 1

	case ".entry":
		rec.Kind = KindEntry
		rec.DirectiveSymbol = strings.TrimSpace(rest)
		if rec.DirectiveSymbol == "" {
			errs.Add(pos, diag.Structural, ".entry directive missing a symbol name")
			rec.Err = true
		}

	case ".extern":
		rec.Kind = KindExtern
		rec.DirectiveSymbol = strings.TrimSpace(rest)
		if rec.DirectiveSymbol == "" {
			errs.Add(pos, diag.Structural, ".extern directive missing a symbol name")
			rec.Err = true
		}

	default:
		errs.Add(pos, diag.Structural, "unknown directive %q", name)
		rec.Err = true
	}
}

func parseInstruction(rec *LineRecord, info OpcodeInfo, rest string, pos diag.Position, errs *diag.List) {
	rec.Kind = KindInstruction
	rec.Mnemonic = info.Name
	rec.Opcode = info.Value

	rest = strings.TrimSpace(rest)
	var operands []string
	if rest != "" {
		parts := strings.Split(rest, ",")
		if len(parts) == 1 && strings.ContainsAny(strings.TrimSpace(parts[0]), " \t") {
			errs.Add(pos, diag.Structural, "missing comma between operands")
			rec.Err = true
		}
		if len(parts) > 2 {
			errs.Add(pos, diag.Structural, "too many operands")
			rec.Err = true
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				operands = append(operands, p)
			}
		}
	}

	switch len(operands) {
	case 0:
		// both absent
	case 1:
		dst, err := classifyOperand(operands[0])
		if err != nil {
			errs.Add(pos, diag.Lexical, "%s", err)
			rec.Err = true
		}
		rec.Dst = dst
		rec.Dst.Present = true
	default:
		src, err := classifyOperand(operands[0])
		if err != nil {
			errs.Add(pos, diag.Lexical, "%s", err)
			rec.Err = true
		}
		dst, err := classifyOperand(operands[1])
		if err != nil {
			errs.Add(pos, diag.Lexical, "%s", err)
			rec.Err = true
		}
		rec.Src = src
		rec.Src.Present = true
		rec.Dst = dst
		rec.Dst.Present = true
	}

	rec.OperandCount = 0
	if rec.Src.Present {
		rec.OperandCount++
	}
	if rec.Dst.Present {
		rec.OperandCount++
	}

	if rec.OperandCount != info.OperandCount() {
		errs.Add(pos, diag.Structural, "%s requires %d operand(s), got %d", info.Name, info.OperandCount(), rec.OperandCount)
		rec.Err = true
	}
	if rec.Src.Present && !info.SrcModes.allows(rec.Src.Mode) {
		errs.Add(pos, diag.Semantic, "%s does not allow %s source operand", info.Name, rec.Src.Mode)
		rec.Err = true
	}
	if rec.Dst.Present && !info.DstModes.allows(rec.Dst.Mode) {
		errs.Add(pos, diag.Semantic, "%s does not allow %s destination operand", info.Name, rec.Dst.Mode)
		rec.Err = true
	}

	rec.Width = instructionWidth(rec.Src, rec.Dst)
}

func instructionWidth(src, dst Operand) int {
	switch {
	case !src.Present && !dst.Present:
		return 1
	case !src.Present && dst.Present:
		return 2
	case src.Present && dst.Present && src.Mode.IsRegisterClass() && dst.Mode.IsRegisterClass():
		return 2
	default:
		return 3
	}
}

func isRegisterToken(s string) bool {
	return len(s) == 2 && s[0] == 'r' && s[1] >= '0' && s[1] <= '7'
}

func classifyOperand(tok string) (Operand, error) {
	if tok == "" {
		return Operand{}, errInvalidOperand(tok)
	}
	switch tok[0] {
	case '#':
		lit := tok[1:]
		if lit == "" {
			return Operand{}, errInvalidOperand(tok)
		}
		return Operand{Mode: Immediate, Text: lit}, nil
	case '*':
		reg := tok[1:]
		if !isRegisterToken(reg) {
			return Operand{}, errInvalidOperand(tok)
		}
		return Operand{Mode: IndirectRegister, Text: reg}, nil
	default:
		if isRegisterToken(tok) {
			return Operand{Mode: DirectRegister, Text: tok}, nil
		}
		return Operand{Mode: Direct, Text: tok}, nil
	}
}

func errInvalidOperand(tok string) error {
	return &operandError{tok}
}

type operandError struct{ tok string }

func (e *operandError) Error() string {
	return "invalid operand \"" + e.tok + "\""
}

func parseDataValues(rest string) ([]int32, error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil, nil
	}
	parts := strings.Split(rest, ",")
	values := make([]int32, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, &operandError{rest}
		}
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return nil, &operandError{p}
		}
		values = append(values, int32(n))
	}
	return values, nil
}

func parseQuotedString(rest string) (string, error) {
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", &operandError{"missing terminating quote"}
	}
	return rest[1 : len(rest)-1], nil
}

func validateLabel(name string, maxLen int) error {
	if name == "" {
		return &operandError{"empty label"}
	}
	if len(name) > maxLen {
		return &operandError{"label \"" + name + "\" exceeds " + strconv.Itoa(maxLen) + " characters"}
	}
	r := []rune(name)
	if !unicode.IsLetter(r[0]) {
		return &operandError{"label \"" + name + "\" must start with a letter"}
	}
	for _, c := range r {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return &operandError{"label \"" + name + "\" must be alphanumeric"}
		}
	}
	if IsRegisterName(name) {
		return &operandError{"label \"" + name + "\" collides with a register name"}
	}
	return nil
}

// splitToken returns the first whitespace-separated token of s and the
// remainder (trimmed of leading whitespace).
func splitToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}

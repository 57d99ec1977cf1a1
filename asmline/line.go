package asmline

import "github.com/mini15/mini15asm/diag"

// Kind discriminates a line record's classification. Go has no sum types,
// so this is the tag-plus-applicable-fields shape: every field below the
// Kind is only meaningful for the kinds that use it.
type Kind int

const (
	KindInstruction Kind = iota
	KindData
	KindString
	KindEntry
	KindExtern
)

func (k Kind) String() string {
	switch k {
	case KindInstruction:
		return "instruction"
	case KindData:
		return "data"
	case KindString:
		return "string"
	case KindEntry:
		return "entry"
	case KindExtern:
		return "extern"
	default:
		return "unknown"
	}
}

// Operand is one instruction operand slot.
type Operand struct {
	Mode    AddrMode
	Text    string // the literal, register name, or label as written
	Present bool
}

// LineRecord is the result of parsing one expanded source line.
type LineRecord struct {
	Kind  Kind
	Label string
	Pos   diag.Position
	Raw   string

	// Instruction fields.
	Mnemonic     string
	Opcode       int // -1 when Kind != KindInstruction
	Src          Operand
	Dst          Operand
	OperandCount int

	// Directive payloads.
	DataValues      []int32 // KindData
	StringValue     string  // KindString, quotes stripped
	DirectiveSymbol string  // KindEntry / KindExtern

	IsEntry  bool
	IsExtern bool

	Address uint32
	Width   int

	Err bool
}

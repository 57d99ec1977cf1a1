package asmline

// OpcodeInfo describes one mnemonic: its numeric value and the addressing
// modes legal in each operand slot. A nil mode set for a slot means that
// slot must be absent.
type OpcodeInfo struct {
	Name     string
	Value    int
	SrcModes modeSet
	DstModes modeSet
}

// OperandCount reports how many operands a line using this opcode must
// supply, derived from which slots are legal.
func (o OpcodeInfo) OperandCount() int {
	switch {
	case o.DstModes == nil:
		return 0
	case o.SrcModes == nil:
		return 1
	default:
		return 2
	}
}

// opcodes is the fixed mnemonic table, mirroring the legality table.
var opcodes = map[string]OpcodeInfo{
	"mov": {Name: "mov", Value: 0, SrcModes: allModes, DstModes: notImmediate},
	"cmp": {Name: "cmp", Value: 1, SrcModes: allModes, DstModes: allModes},
	"add": {Name: "add", Value: 2, SrcModes: allModes, DstModes: notImmediate},
	"sub": {Name: "sub", Value: 3, SrcModes: allModes, DstModes: notImmediate},
	"lea": {Name: "lea", Value: 4, SrcModes: directOnly, DstModes: notImmediate},
	"clr": {Name: "clr", Value: 5, SrcModes: nil, DstModes: notImmediate},
	"not": {Name: "not", Value: 6, SrcModes: nil, DstModes: notImmediate},
	"inc": {Name: "inc", Value: 7, SrcModes: nil, DstModes: notImmediate},
	"dec": {Name: "dec", Value: 8, SrcModes: nil, DstModes: notImmediate},
	"jmp": {Name: "jmp", Value: 9, SrcModes: nil, DstModes: directOrIndirect},
	"bne": {Name: "bne", Value: 10, SrcModes: nil, DstModes: directOrIndirect},
	"red": {Name: "red", Value: 11, SrcModes: nil, DstModes: notImmediate},
	"prn": {Name: "prn", Value: 12, SrcModes: nil, DstModes: allModes},
	"jsr": {Name: "jsr", Value: 13, SrcModes: nil, DstModes: directOrIndirect},
	"rts": {Name: "rts", Value: 14, SrcModes: nil, DstModes: nil},
	"stop": {Name: "stop", Value: 15, SrcModes: nil, DstModes: nil},
}

// LookupOpcode returns the opcode table entry for a mnemonic, if any.
func LookupOpcode(mnemonic string) (OpcodeInfo, bool) {
	o, ok := opcodes[mnemonic]
	return o, ok
}

var registerNames = map[string]bool{
	"r0": true, "r1": true, "r2": true, "r3": true,
	"r4": true, "r5": true, "r6": true, "r7": true,
}

// IsRegisterName reports whether s is one of the reserved register names,
// used to reject it as a label (invariant 1).
func IsRegisterName(s string) bool {
	return registerNames[s]
}

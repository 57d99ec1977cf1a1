// Package encode implements the second pass: encoding line records into
// 15-bit words, resolving symbol references, and emitting the object,
// entry, and extern files.
package encode

import (
	"fmt"
	"strconv"

	"github.com/mini15/mini15asm/asmline"
	"github.com/mini15/mini15asm/diag"
)

// A/R/E field values, as carried on every emitted word.
const (
	AreAbsolute    = 4
	AreRelocatable = 2
	AreExternal    = 1
)

const wordMask = 0x7FFF

// ExternUse records one use site of an extern symbol, for the .ext file.
type ExternUse struct {
	Symbol  string
	Address uint32
}

// EntryUse records one entry symbol and its address, for the .ent file.
type EntryUse struct {
	Symbol  string
	Address uint32
}

// Result is the second pass's output.
type Result struct {
	Image   map[uint32]uint16
	Entries []EntryUse
	Externs []ExternUse
	IC, DC  int
}

// Run encodes every record in fp, producing the output image plus the
// entry/extern use lists. Encoding continues past individual record errors
// so the caller sees every diagnostic in one run; the caller decides
// whether any error suppresses file output (spec: it does).
func Run(fp *asmline.FirstPassResult) (*Result, *diag.List) {
	errs := &diag.List{}
	res := &Result{Image: make(map[uint32]uint16)}

	for _, rec := range fp.Records {
		if rec.Err {
			continue
		}
		switch rec.Kind {
		case asmline.KindInstruction:
			encodeInstruction(rec, fp.Symbols, res, errs)
		case asmline.KindData:
			for i, v := range rec.DataValues {
				res.Image[rec.Address+uint32(i)] = uint16(v) & wordMask
				res.DC++
			}
		case asmline.KindString:
			for i, w := range EncodeStringWords(rec.StringValue) {
				res.Image[rec.Address+uint32(i)] = w
				res.DC++
			}
		}
	}

	for _, sym := range fp.Symbols.All() {
		if sym.IsEntry {
			res.Entries = append(res.Entries, EntryUse{Symbol: sym.Name, Address: sym.Address})
		}
	}

	return res, errs
}

func encodeInstruction(rec *asmline.LineRecord, symbols *asmline.SymbolTable, res *Result, errs *diag.List) {
	res.Image[rec.Address] = encodeOpcodeWord(rec)
	res.IC++

	words, externs, err := encodeOperands(rec, symbols, rec.Address)
	if err != nil {
		errs.Add(rec.Pos, diag.Semantic, "%s", err)
		rec.Err = true
		return
	}
	for i, w := range words {
		res.Image[rec.Address+1+uint32(i)] = w
		res.IC++
	}
	res.Externs = append(res.Externs, externs...)
}

func modeBit(base int, mode asmline.AddrMode) uint16 {
	return uint16(1) << uint(base+int(mode))
}

func encodeOpcodeWord(rec *asmline.LineRecord) uint16 {
	word := uint16(rec.Opcode) << 11
	if rec.Src.Present {
		word |= modeBit(7, rec.Src.Mode)
	}
	if rec.Dst.Present {
		word |= modeBit(3, rec.Dst.Mode)
	}
	word |= AreAbsolute
	return word & wordMask
}

// encodeOperands returns the operand words for rec, in source-then-
// destination order, plus any extern use sites among them.
func encodeOperands(rec *asmline.LineRecord, symbols *asmline.SymbolTable, opcodeAddr uint32) ([]uint16, []ExternUse, error) {
	if !rec.Src.Present && !rec.Dst.Present {
		return nil, nil, nil
	}

	if rec.Src.Present && rec.Dst.Present && rec.Src.Mode.IsRegisterClass() && rec.Dst.Mode.IsRegisterClass() {
		srcReg, err := parseRegister(rec.Src.Text)
		if err != nil {
			return nil, nil, err
		}
		dstReg, err := parseRegister(rec.Dst.Text)
		if err != nil {
			return nil, nil, err
		}
		word := uint16(srcReg)<<6 | uint16(dstReg)<<3 | AreAbsolute
		return []uint16{word & wordMask}, nil, nil
	}

	var words []uint16
	var externs []ExternUse
	addr := opcodeAddr + 1

	encodeOne := func(op asmline.Operand, isSrc bool) error {
		word, ext, err := encodeOperand(op, isSrc, symbols, addr)
		if err != nil {
			return err
		}
		words = append(words, word)
		if ext != nil {
			externs = append(externs, *ext)
		}
		addr++
		return nil
	}

	if rec.Src.Present {
		if err := encodeOne(rec.Src, true); err != nil {
			return nil, nil, err
		}
	}
	if rec.Dst.Present {
		if err := encodeOne(rec.Dst, false); err != nil {
			return nil, nil, err
		}
	}
	return words, externs, nil
}

func encodeOperand(op asmline.Operand, isSrc bool, symbols *asmline.SymbolTable, addr uint32) (uint16, *ExternUse, error) {
	switch op.Mode {
	case asmline.Immediate:
		n, err := strconv.ParseInt(op.Text, 10, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid immediate literal %q", op.Text)
		}
		if n < -2048 || n > 2047 {
			return 0, nil, fmt.Errorf("immediate literal %d out of 12-bit signed range", n)
		}
		word := (uint16(n) & 0xFFF) << 3
		return (word | AreAbsolute) & wordMask, nil, nil

	case asmline.Direct:
		sym, ok := symbols.Get(op.Text)
		if !ok || (!sym.Defined && !sym.IsExtern) {
			return 0, nil, fmt.Errorf("undefined symbol %q", op.Text)
		}
		if sym.IsExtern {
			return uint16(AreExternal), &ExternUse{Symbol: op.Text, Address: addr}, nil
		}
		word := uint16(sym.Address)<<3 | AreRelocatable
		return word & wordMask, nil, nil

	case asmline.DirectRegister, asmline.IndirectRegister:
		reg, err := parseRegister(op.Text)
		if err != nil {
			return 0, nil, err
		}
		var word uint16
		if isSrc {
			word = uint16(reg) << 6
		} else {
			word = uint16(reg) << 3
		}
		return (word | AreAbsolute) & wordMask, nil, nil

	default:
		return 0, nil, fmt.Errorf("unhandled addressing mode %v", op.Mode)
	}
}

func parseRegister(text string) (int, error) {
	if len(text) != 2 || text[0] != 'r' || text[1] < '0' || text[1] > '7' {
		return 0, fmt.Errorf("invalid register %q", text)
	}
	return int(text[1] - '0'), nil
}

// EncodeStringWords returns s's character codes (masked to 15 bits) plus a
// terminating zero word.
func EncodeStringWords(s string) []uint16 {
	out := make([]uint16, len(s)+1)
	for i := 0; i < len(s); i++ {
		out[i] = uint16(s[i]) & wordMask
	}
	out[len(s)] = 0
	return out
}

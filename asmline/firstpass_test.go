package asmline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() Options {
	return Options{MemoryStart: 100, MaxLabelLength: 30, DiagnoseDuplicateLabels: true}
}

func TestStopAloneIsOneWord(t *testing.T) {
	res, errs := RunFirstPass("t.as", "stop", defaultOptions())
	require.False(t, errs.HasErrors())
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Records[0].Width)
	assert.Equal(t, uint32(100), res.Records[0].Address)
}

func TestImmediateToRegisterIsThreeWords(t *testing.T) {
	res, errs := RunFirstPass("t.as", "mov #5, r3", defaultOptions())
	require.False(t, errs.HasErrors())
	rec := res.Records[0]
	assert.Equal(t, 3, rec.Width)
	assert.Equal(t, Immediate, rec.Src.Mode)
	assert.Equal(t, DirectRegister, rec.Dst.Mode)
}

func TestTwoRegisterOperandsShareOneWord(t *testing.T) {
	res, errs := RunFirstPass("t.as", "mov r1, r2", defaultOptions())
	require.False(t, errs.HasErrors())
	assert.Equal(t, 2, res.Records[0].Width)
}

func TestDataDirectiveAddressesAndWidth(t *testing.T) {
	res, errs := RunFirstPass("t.as", "LIST: .data 7, -3, 10", defaultOptions())
	require.False(t, errs.HasErrors())
	rec := res.Records[0]
	assert.Equal(t, []int32{7, -3, 10}, rec.DataValues)
	assert.Equal(t, 3, rec.Width)
	sym, ok := res.Symbols.Get("LIST")
	require.True(t, ok)
	assert.Equal(t, uint32(100), sym.Address)
}

func TestStringDirectiveWidthIsLengthPlusOne(t *testing.T) {
	res, errs := RunFirstPass("t.as", `STR: .string "ab"`, defaultOptions())
	require.False(t, errs.HasErrors())
	rec := res.Records[0]
	assert.Equal(t, "ab", rec.StringValue)
	assert.Equal(t, 3, rec.Width)
}

func TestForwardReferenceAddressing(t *testing.T) {
	res, errs := RunFirstPass("t.as", "jmp LOOP\nLOOP: stop", defaultOptions())
	require.False(t, errs.HasErrors())
	require.Len(t, res.Records, 2)
	assert.Equal(t, uint32(100), res.Records[0].Address)
	assert.Equal(t, 2, res.Records[0].Width)
	assert.Equal(t, uint32(102), res.Records[1].Address)
	sym, ok := res.Symbols.Get("LOOP")
	require.True(t, ok)
	assert.Equal(t, uint32(102), sym.Address)
}

func TestExternDirectiveRegistersSymbol(t *testing.T) {
	res, errs := RunFirstPass("t.as", ".extern EXT\nmov EXT, r1", defaultOptions())
	require.False(t, errs.HasErrors())
	sym, ok := res.Symbols.Get("EXT")
	require.True(t, ok)
	assert.True(t, sym.IsExtern)
	assert.False(t, sym.Defined)
}

func TestEntryForUndefinedSymbolIsError(t *testing.T) {
	_, errs := RunFirstPass("t.as", ".entry NOPE\nstop", defaultOptions())
	assert.True(t, errs.HasErrors())
}

func TestEntryAndExternSameSymbolIsError(t *testing.T) {
	_, errs := RunFirstPass("t.as", "X: stop\n.entry X\n.extern X", defaultOptions())
	assert.True(t, errs.HasErrors())
}

func TestLabelLengthBoundary(t *testing.T) {
	label30 := "abcdefghijabcdefghijabcdefghij"
	require.Len(t, label30, 30)
	_, errs := RunFirstPass("t.as", label30+": stop", defaultOptions())
	assert.False(t, errs.HasErrors())

	label31 := label30 + "k"
	_, errs = RunFirstPass("t.as", label31+": stop", defaultOptions())
	assert.True(t, errs.HasErrors())
}

func TestStopWithOperandRejected(t *testing.T) {
	_, errs := RunFirstPass("t.as", "stop r1", defaultOptions())
	assert.True(t, errs.HasErrors())
}

func TestRtsWithOperandRejected(t *testing.T) {
	_, errs := RunFirstPass("t.as", "rts #1", defaultOptions())
	assert.True(t, errs.HasErrors())
}

func TestLeaWithNonDirectSourceRejected(t *testing.T) {
	_, errs := RunFirstPass("t.as", "lea r1, r2", defaultOptions())
	assert.True(t, errs.HasErrors())
}

func TestMissingCommaIsDiagnosed(t *testing.T) {
	_, errs := RunFirstPass("t.as", "mov r1 r2", defaultOptions())
	assert.True(t, errs.HasErrors())
}

func TestDuplicateLabelIsDiagnosed(t *testing.T) {
	_, errs := RunFirstPass("t.as", "A: stop\nA: rts", defaultOptions())
	assert.True(t, errs.HasErrors())
}

func TestSingleDataLiteralProducesOneWord(t *testing.T) {
	res, errs := RunFirstPass("t.as", "N: .data 42", defaultOptions())
	require.False(t, errs.HasErrors())
	assert.Equal(t, 1, res.Records[0].Width)
}

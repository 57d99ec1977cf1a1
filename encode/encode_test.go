package encode

import (
	"strings"
	"testing"

	"github.com/mini15/mini15asm/asmline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opts() asmline.Options {
	return asmline.Options{MemoryStart: 100, MaxLabelLength: 30, DiagnoseDuplicateLabels: true}
}

func assemble(t *testing.T, src string) *Result {
	t.Helper()
	fp, fpErrs := asmline.RunFirstPass("t.as", src, opts())
	require.False(t, fpErrs.HasErrors(), "first pass errors: %v", fpErrs.Errors)
	res, errs := Run(fp)
	require.False(t, errs.HasErrors(), "second pass errors: %v", errs.Errors)
	return res
}

func TestStopAloneObjectFile(t *testing.T) {
	res := assemble(t, "stop")
	var sb strings.Builder
	require.NoError(t, WriteObjectFile(&sb, res))
	assert.Equal(t, "1 0\n0100 74004\n", sb.String())
}

func TestImmediateMoveOperandWords(t *testing.T) {
	res := assemble(t, "mov #5, r3")
	assert.Equal(t, uint16(44), res.Image[101]) // (5<<3)|4
	assert.Equal(t, uint16(28), res.Image[102]) // (3<<3)|4
}

func TestDataDirectiveImage(t *testing.T) {
	res := assemble(t, "LIST: .data 7, -3, 10")
	assert.Equal(t, uint16(7), res.Image[100])
	assert.Equal(t, uint16(0x7FFD), res.Image[101])
	assert.Equal(t, uint16(10), res.Image[102])
}

func TestStringDirectiveImage(t *testing.T) {
	res := assemble(t, `STR: .string "ab"`)
	assert.Equal(t, uint16('a'), res.Image[100])
	assert.Equal(t, uint16('b'), res.Image[101])
	assert.Equal(t, uint16(0), res.Image[102])
}

func TestForwardReferenceRelocation(t *testing.T) {
	res := assemble(t, "jmp LOOP\nLOOP: stop")
	assert.Equal(t, uint16((102<<3)|2), res.Image[101])
}

func TestExternReferenceUseSite(t *testing.T) {
	fp, fpErrs := asmline.RunFirstPass("t.as", ".extern EXT\nmov EXT, r1", opts())
	require.False(t, fpErrs.HasErrors())
	res, errs := Run(fp)
	require.False(t, errs.HasErrors())

	require.Len(t, res.Externs, 1)
	assert.Equal(t, "EXT", res.Externs[0].Symbol)
	assert.Equal(t, uint32(101), res.Externs[0].Address)
	assert.Equal(t, uint16(AreExternal), res.Image[101])

	var sb strings.Builder
	require.NoError(t, WriteExternFile(&sb, res))
	assert.Equal(t, "EXT 101\n", sb.String())
}

func TestEntryFileOmittedWhenNoEntries(t *testing.T) {
	res := assemble(t, "stop")
	assert.Empty(t, res.Entries)
}

func TestEntryFileListsAddress(t *testing.T) {
	fp, fpErrs := asmline.RunFirstPass("t.as", "X: stop\n.entry X", opts())
	require.False(t, fpErrs.HasErrors())
	res, errs := Run(fp)
	require.False(t, errs.HasErrors())

	var sb strings.Builder
	require.NoError(t, WriteEntryFile(&sb, res))
	assert.Equal(t, "X 100\n", sb.String())
}

func TestUndefinedDirectReferenceIsSecondPassError(t *testing.T) {
	fp, fpErrs := asmline.RunFirstPass("t.as", "mov GHOST, r1", opts())
	require.False(t, fpErrs.HasErrors())
	_, errs := Run(fp)
	assert.True(t, errs.HasErrors())
}

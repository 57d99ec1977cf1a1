package asmline

import (
	"testing"

	"github.com/mini15/mini15asm/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableDefineAndGet(t *testing.T) {
	st := NewSymbolTable(true)
	require.NoError(t, st.Define("LOOP", 102, diag.Position{Filename: "t.as", Line: 2}))
	sym, ok := st.Get("LOOP")
	require.True(t, ok)
	assert.Equal(t, uint32(102), sym.Address)
	assert.True(t, sym.Defined)
}

func TestSymbolTableDuplicateDefineRejected(t *testing.T) {
	st := NewSymbolTable(true)
	require.NoError(t, st.Define("A", 100, diag.Position{Line: 1}))
	err := st.Define("A", 105, diag.Position{Line: 3})
	assert.Error(t, err)
}

func TestSymbolTableDuplicateAllowedWhenNotDiagnosing(t *testing.T) {
	st := NewSymbolTable(false)
	require.NoError(t, st.Define("A", 100, diag.Position{Line: 1}))
	err := st.Define("A", 105, diag.Position{Line: 3})
	assert.NoError(t, err)
}

func TestSymbolTableMarkExternWithoutLocalDefinition(t *testing.T) {
	st := NewSymbolTable(true)
	require.NoError(t, st.MarkExtern("EXT", diag.Position{Line: 1}))
	sym, ok := st.Get("EXT")
	require.True(t, ok)
	assert.True(t, sym.IsExtern)
	assert.False(t, sym.Defined)
}

func TestSymbolTableMarkEntryUndefinedIsError(t *testing.T) {
	st := NewSymbolTable(true)
	err := st.MarkEntry("NOPE", diag.Position{Line: 1})
	assert.Error(t, err)
}

func TestSymbolTableEntryThenExternConflict(t *testing.T) {
	st := NewSymbolTable(true)
	require.NoError(t, st.Define("X", 100, diag.Position{Line: 1}))
	require.NoError(t, st.MarkEntry("X", diag.Position{Line: 2}))
	err := st.MarkExtern("X", diag.Position{Line: 3})
	assert.Error(t, err)
}

package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacrosToOptions(t *testing.T) {
	table := MacroTable{
		{"__AVR_ATmega328P__", "1"},
		{"F_CPU", "16000000UL"},
		{"__EMPTY", ""},
	}

	t.Run("suppress", func(t *testing.T) {
		got := MacrosToOptions(table, true)
		assert.Equal(t, []string{"-U__AVR_ATmega328P__", "-UF_CPU", "-U__EMPTY"}, got)
	})

	t.Run("assert", func(t *testing.T) {
		got := MacrosToOptions(table, false)
		assert.Equal(t, []string{"-D__AVR_ATmega328P__=1", "-DF_CPU=16000000UL", "-D__EMPTY"}, got)
	})
}

func TestMacrosToOptions_FollowsCompilerOrder(t *testing.T) {
	table := ParseMacros("#define __AVR_ATmega328P__ 1\n#define F_CPU 16000000UL\n#define __AVR 1\n")
	assert.Equal(t, []string{"-U__AVR_ATmega328P__", "-UF_CPU", "-U__AVR"}, MacrosToOptions(table, true))

	again := ParseMacros("#define __AVR_ATmega328P__ 1\n#define F_CPU 16000000UL\n#define __AVR 1\n")
	assert.Equal(t, MacrosToOptions(table, false), MacrosToOptions(again, false))
}

func TestMacroTable_Lookup(t *testing.T) {
	table := MacroTable{{"F_CPU", "8000000UL"}, {"__EMPTY", ""}}

	v, ok := table.Lookup("F_CPU")
	assert.True(t, ok)
	assert.Equal(t, "8000000UL", v)

	v, ok = table.Lookup("__EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = table.Lookup("__MISSING")
	assert.False(t, ok)
	assert.Equal(t, []string{"F_CPU", "__EMPTY"}, table.Names())
}

func TestMacrosToOptions_OnePerKey(t *testing.T) {
	tables := []MacroTable{
		{},
		{{"A", "1"}},
		{{"A", "1"}, {"B", ""}, {"C", "x y"}, {"__D__", "(1 << 3)"}},
	}
	for _, table := range tables {
		for _, suppress := range []bool{true, false} {
			got := MacrosToOptions(table, suppress)
			assert.Len(t, got, len(table))

			seen := make(map[string]bool)
			for _, opt := range got {
				assert.False(t, seen[opt], "duplicate option %q", opt)
				seen[opt] = true
			}
		}
	}
}

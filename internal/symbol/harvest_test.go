package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsByName(entries []Entry) map[string][]Kind {
	out := make(map[string][]Kind)
	for _, e := range entries {
		out[e.Name] = append(out[e.Name], e.Kind)
	}
	return out
}

func TestHarvest(t *testing.T) {
	const uri = "file:///main.nas"

	t.Run("function definition with params", func(t *testing.T) {
		entries := Harvest(uri, "var add = func(a, b) {\n  return a + b;\n}\n")
		got := kindsByName(entries)

		assert.Equal(t, []Kind{FunctionDefinition}, got["add"])
		assert.Equal(t, []Kind{IdentifierDefinition, IdentifierReference}, got["a"])
		assert.Equal(t, []Kind{IdentifierDefinition, IdentifierReference}, got["b"])
		assert.NotContains(t, got, "var")
		assert.NotContains(t, got, "func")
		assert.NotContains(t, got, "return")
	})

	t.Run("locations are zero based", func(t *testing.T) {
		entries := Harvest(uri, "\nvar count = 0;\n")
		require.Len(t, entries, 1)

		assert.Equal(t, "count", entries[0].Name)
		assert.Equal(t, IdentifierDefinition, entries[0].Kind)
		assert.Equal(t, Location{
			URI: uri,
			Range: Range{
				Start: Position{Line: 1, Character: 4},
				End:   Position{Line: 1, Character: 9},
			},
		}, entries[0].Location)
	})

	t.Run("assignment of a func at line start", func(t *testing.T) {
		got := kindsByName(Harvest(uri, "  update = func {\n  }\n"))
		assert.Equal(t, []Kind{FunctionDefinition}, got["update"])
	})

	t.Run("calls and plain references", func(t *testing.T) {
		got := kindsByName(Harvest(uri, "print(total);\nx = total;\n"))

		assert.Equal(t, []Kind{FunctionReference}, got["print"])
		assert.Equal(t, []Kind{IdentifierReference, IdentifierReference}, got["total"])
		assert.Equal(t, []Kind{IdentifierReference}, got["x"])
	})

	t.Run("comment lines are skipped", func(t *testing.T) {
		entries := Harvest(uri, "# var hidden = 1;\n   #call()\n")
		assert.Empty(t, entries)
	})

	t.Run("number suffixes are not identifiers", func(t *testing.T) {
		got := kindsByName(Harvest(uri, "var big = 1e5;"))
		assert.NotContains(t, got, "e5")
		assert.Contains(t, got, "big")
	})
}

func TestWordAt(t *testing.T) {
	text := "var foo = bar(1);\n  baz;\n"

	word, ok := WordAt(text, Position{Line: 0, Character: 5})
	require.True(t, ok)
	assert.Equal(t, "foo", word)

	word, ok = WordAt(text, Position{Line: 0, Character: 13})
	require.True(t, ok)
	assert.Equal(t, "bar", word, "cursor right after the name still counts")

	word, ok = WordAt(text, Position{Line: 1, Character: 2})
	require.True(t, ok)
	assert.Equal(t, "baz", word)

	_, ok = WordAt(text, Position{Line: 0, Character: 8})
	assert.False(t, ok)

	_, ok = WordAt(text, Position{Line: 9, Character: 0})
	assert.False(t, ok)
}

func TestColumn(t *testing.T) {
	line := "é😀x"
	assert.Equal(t, 0, Column(line, 0))
	assert.Equal(t, 1, Column(line, 2))
	assert.Equal(t, 3, Column(line, 6))
	assert.Equal(t, 6, ByteOffset(line, 3))
	assert.Equal(t, len(line), ByteOffset(line, 99))
}

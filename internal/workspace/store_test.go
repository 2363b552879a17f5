package workspace

import (
	"testing"

	"github.com/Tungsten-180/nasal-ls/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Upsert(t *testing.T) {
	t.Run("stores text and scopes", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.Upsert("file:///a.nas", "{\n{\n}\n}\n"))

		f, ok := s.Get("file:///a.nas")
		require.True(t, ok)
		assert.Equal(t, "file:///a.nas", f.URI)
		assert.Equal(t, "{\n{\n}\n}\n", f.Text)
		assert.Equal(t, []scope.Span{{Start: 0, End: 3}, {Start: 1, End: 2}}, f.Scopes)
	})

	t.Run("malformed text is still stored", func(t *testing.T) {
		s := NewStore()
		err := s.Upsert("file:///bad.nas", "}\n")
		assert.ErrorIs(t, err, scope.ErrUnmatched)

		f, ok := s.Get("file:///bad.nas")
		require.True(t, ok)
		assert.Equal(t, "}\n", f.Text)
		assert.Nil(t, f.Scopes)
	})

	t.Run("last write wins", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.Upsert("file:///a.nas", "{}"))
		require.Error(t, s.Upsert("file:///a.nas", "{"))
		require.NoError(t, s.Upsert("file:///a.nas", "x"))

		spans, ok := s.Scopes("file:///a.nas")
		require.True(t, ok)
		assert.Empty(t, spans)
		assert.Equal(t, 1, s.Len())
	})
}

func TestStore_Get(t *testing.T) {
	s := NewStore()

	_, ok := s.Get("file:///missing.nas")
	assert.False(t, ok)

	require.NoError(t, s.Upsert("file:///a.nas", "{}"))
	f, _ := s.Get("file:///a.nas")
	f.Scopes[0].End = 42

	again, _ := s.Get("file:///a.nas")
	assert.Equal(t, 0, again.Scopes[0].End, "Get must hand out a copy")
}

func TestStore_RemoveAndURIs(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Upsert("file:///b.nas", ""))
	require.NoError(t, s.Upsert("file:///a.nas", ""))

	assert.Equal(t, []string{"file:///a.nas", "file:///b.nas"}, s.URIs())

	s.Remove("file:///a.nas")
	assert.Equal(t, []string{"file:///b.nas"}, s.URIs())

	_, ok := s.Scopes("file:///a.nas")
	assert.False(t, ok)
}

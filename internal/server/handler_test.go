package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tungsten-180/nasal-ls/internal/config"
	"github.com/Tungsten-180/nasal-ls/internal/library"
	"github.com/Tungsten-180/nasal-ls/internal/scope"
	"github.com/Tungsten-180/nasal-ls/internal/workspace"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func newHandler(t *testing.T) (*IndexHandler, string, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.nas"), []byte("var run = func(n) {\n  if (n) {\n    run(n - 1);\n  }\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.nas"), []byte("{\n"), 0o644))

	cfg := config.Default()
	cfg.Workers = 2
	h := NewIndexHandler(library.New(), cfg)

	res, err := h.IndexPath(context.Background(), callRequest("index_path", map[string]any{"path": root}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	return h, root, workspace.NewFSReader(root).URI("main.nas")
}

func TestIndexHandler_IndexPath(t *testing.T) {
	t.Run("summarises the load", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "bad.nas"), []byte("}"), 0o644))
		h := NewIndexHandler(library.New(), config.Default())

		res, err := h.IndexPath(context.Background(), callRequest("index_path", map[string]any{"path": root}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		var summary IndexSummary
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summary))
		assert.Equal(t, 1, summary.Files)
		assert.Len(t, summary.Malformed, 1)
		assert.Equal(t, 1, summary.Stats.NumFiles)
	})

	t.Run("missing path", func(t *testing.T) {
		h := NewIndexHandler(library.New(), config.Default())
		res, err := h.IndexPath(context.Background(), callRequest("index_path", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("missing directory", func(t *testing.T) {
		h := NewIndexHandler(library.New(), config.Default())
		res, err := h.IndexPath(context.Background(), callRequest("index_path", map[string]any{
			"path": filepath.Join(t.TempDir(), "nope"),
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestIndexHandler_Definition(t *testing.T) {
	h, _, uri := newHandler(t)

	t.Run("resolves the recursive call", func(t *testing.T) {
		res, err := h.Definition(context.Background(), callRequest("definition", map[string]any{
			"uri":       uri,
			"name":      "run",
			"line":      float64(2),
			"character": float64(4),
		}))
		require.NoError(t, err)
		require.False(t, res.IsError, resultText(t, res))

		var view OccurrenceView
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
		assert.Equal(t, "function-definition", view.Kind)
		assert.True(t, view.Definition)
		assert.Equal(t, 0, view.Location.Range.Start.Line)
		assert.Equal(t, 4, view.Location.Range.Start.Character)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		res, err := h.Definition(context.Background(), callRequest("definition", map[string]any{
			"uri":  uri,
			"name": "missing",
			"line": float64(0),
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "no definition found")
	})

	t.Run("line is required", func(t *testing.T) {
		res, err := h.Definition(context.Background(), callRequest("definition", map[string]any{
			"uri":  uri,
			"name": "run",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestIndexHandler_Scopes(t *testing.T) {
	h, root, uri := newHandler(t)

	t.Run("all scopes", func(t *testing.T) {
		res, err := h.Scopes(context.Background(), callRequest("scopes", map[string]any{"uri": uri}))
		require.NoError(t, err)

		var spans []scope.Span
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &spans))
		assert.Equal(t, []scope.Span{{Start: 0, End: 4}, {Start: 1, End: 3}}, spans)
	})

	t.Run("enclosing scope", func(t *testing.T) {
		res, err := h.Scopes(context.Background(), callRequest("scopes", map[string]any{"uri": uri, "line": float64(2)}))
		require.NoError(t, err)

		var span scope.Span
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &span))
		assert.Equal(t, scope.Span{Start: 1, End: 3}, span)
	})

	t.Run("line outside every scope", func(t *testing.T) {
		res, err := h.Scopes(context.Background(), callRequest("scopes", map[string]any{"uri": uri, "line": float64(9)}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("malformed document has no scopes", func(t *testing.T) {
		badURI := workspace.NewFSReader(root).URI("bad.nas")
		res, err := h.Scopes(context.Background(), callRequest("scopes", map[string]any{"uri": badURI}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Equal(t, "null", resultText(t, res))
	})

	t.Run("unknown document", func(t *testing.T) {
		res, err := h.Scopes(context.Background(), callRequest("scopes", map[string]any{"uri": "file:///nope.nas"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestIndexHandler_Occurrences(t *testing.T) {
	h, _, _ := newHandler(t)

	res, err := h.Occurrences(context.Background(), callRequest("occurrences", map[string]any{"name": "n"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var views []OccurrenceView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &views))
	require.Len(t, views, 3)
	assert.True(t, views[0].Definition)
	assert.False(t, views[1].Definition)

	res, err = h.Occurrences(context.Background(), callRequest("occurrences", map[string]any{"name": "zzz"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNew(t *testing.T) {
	s := New(NewIndexHandler(library.New(), config.Default()), "test")
	assert.NotNil(t, s)
}

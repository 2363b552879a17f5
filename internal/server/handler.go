package server

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tungsten-180/nasal-ls/internal/config"
	"github.com/Tungsten-180/nasal-ls/internal/library"
	"github.com/Tungsten-180/nasal-ls/internal/log"
	"github.com/Tungsten-180/nasal-ls/internal/scope"
	"github.com/Tungsten-180/nasal-ls/internal/symbol"
	"github.com/Tungsten-180/nasal-ls/internal/workspace"
)

// IndexHandler は MCP のツール呼び出しを Library の操作に変換する Adapter です。
type IndexHandler struct {
	lib *library.Library
	cfg *config.Config
}

// NewIndexHandler は IndexHandler を生成します。
func NewIndexHandler(lib *library.Library, cfg *config.Config) *IndexHandler {
	return &IndexHandler{
		lib: lib,
		cfg: cfg,
	}
}

// IndexSummary is the result of index_path.
type IndexSummary struct {
	Root      string            `json:"root"`
	Files     int               `json:"files"`
	Malformed map[string]string `json:"malformed,omitempty"`
	Stats     library.Stats     `json:"stats"`
}

// IndexPath は指定ディレクトリ以下のソースをインデックスします。
func (h *IndexHandler) IndexPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawPath, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}
	// 相対パスを絶対パスに解決
	root, err := filepath.Abs(rawPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid path: %v", err)), nil
	}

	src := workspace.NewFSReader(root, h.cfg.Extensions...)
	res, err := h.lib.LoadDir(ctx, src, h.cfg.Workers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to index %s: %v", root, err)), nil
	}

	summary := IndexSummary{
		Root:  root,
		Files: len(res.URIs),
		Stats: h.lib.Stats(),
	}
	if len(res.Malformed) > 0 {
		summary.Malformed = make(map[string]string, len(res.Malformed))
		for uri, err := range res.Malformed {
			summary.Malformed[uri] = err.Error()
		}
	}

	log.MCP("index_path %s: %d files", root, summary.Files)
	return jsonResult(summary)
}

// Definition は参照位置から識別子の定義を解決します。
func (h *IndexHandler) Definition(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError("uri is required"), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	line, err := req.RequireInt("line")
	if err != nil {
		return mcp.NewToolResultError("line is required"), nil
	}
	character := req.GetInt("character", 0)

	pos := symbol.Position{Line: line, Character: character}
	def, err := h.lib.Definition(name, symbol.Location{
		URI:   uri,
		Range: symbol.Range{Start: pos, End: pos},
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.MCP("definition %s -> %s:%d", name, def.Location.URI, def.Location.Range.Start.Line)
	return jsonResult(occurrenceView(def))
}

// Scopes はドキュメントのスコープ一覧を返します。
func (h *IndexHandler) Scopes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError("uri is required"), nil
	}

	spans, ok := h.lib.Scopes(uri)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("document %s is not indexed", uri)), nil
	}

	line, err := req.RequireInt("line")
	if err != nil {
		return jsonResult(spans)
	}

	enclosing, ok := scope.Enclosing(spans, line)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("line %d is not inside any scope", line)), nil
	}
	return jsonResult(enclosing)
}

// Occurrences は識別子の全出現箇所を返します。
func (h *IndexHandler) Occurrences(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	occs, ok := h.lib.Occurrences(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("identifier %q is unknown", name)), nil
	}

	views := make([]OccurrenceView, 0, len(occs))
	for _, occ := range occs {
		views = append(views, occurrenceView(occ))
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Definition && !views[j].Definition
	})
	return jsonResult(views)
}

// OccurrenceView is the tool-facing form of a symbol.Occurrence.
type OccurrenceView struct {
	Kind       string          `json:"kind"`
	Definition bool            `json:"definition"`
	Location   symbol.Location `json:"location"`
}

func occurrenceView(occ symbol.Occurrence) OccurrenceView {
	return OccurrenceView{
		Kind:       occ.Kind.String(),
		Definition: occ.Kind.IsDefinition(),
		Location:   occ.Location,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New は MCP サーバーを生成し、ツールを登録して返します。
// インデックス操作は handler に委譲し、ここではプロトコル変換のみ行います。
func New(handler *IndexHandler, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"nasal-ls",
		version,
		server.WithToolCapabilities(false),
	)

	indexTool := mcp.NewTool("index_path",
		mcp.WithDescription("Index every Nasal source file below a directory so that its scopes and symbols can be queried."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory to index"),
		),
	)

	definitionTool := mcp.NewTool("definition",
		mcp.WithDescription("Resolve the definition of an identifier referenced at a position in an indexed document."),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("Document URI of the reference (file://...)"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Identifier to resolve"),
		),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("Zero-based line of the reference"),
		),
		mcp.WithNumber("character",
			mcp.Description("Zero-based character of the reference. Default: 0"),
		),
	)

	scopesTool := mcp.NewTool("scopes",
		mcp.WithDescription("List the brace-delimited scopes of an indexed document, or the innermost scope around a line."),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("Document URI (file://...)"),
		),
		mcp.WithNumber("line",
			mcp.Description("Zero-based line; when set only the innermost enclosing scope is returned"),
		),
	)

	occurrencesTool := mcp.NewTool("occurrences",
		mcp.WithDescription("List every recorded definition and reference of an identifier."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Identifier to look up"),
		),
	)

	s.AddTool(indexTool, handler.IndexPath)
	s.AddTool(definitionTool, handler.Definition)
	s.AddTool(scopesTool, handler.Scopes)
	s.AddTool(occurrencesTool, handler.Occurrences)

	return s
}

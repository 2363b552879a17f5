package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

func main() {
	if len(os.Args) < 5 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <project_path> <file_uri> <name> <line> [character]")
		os.Exit(1)
	}

	projectPath := os.Args[1]
	uri := os.Args[2]
	name := os.Args[3]
	line, err := strconv.Atoi(os.Args[4])
	if err != nil {
		log.Fatalf("invalid line %q: %v", os.Args[4], err)
	}
	character := 0
	if len(os.Args) >= 6 {
		if character, err = strconv.Atoi(os.Args[5]); err != nil {
			log.Fatalf("invalid character %q: %v", os.Args[5], err)
		}
	}

	serverBin := os.Getenv("NASAL_LS_BIN")
	if serverBin == "" {
		serverBin = "nasal-ls"
	}

	// --- MCP クライアントの起動（サーバープロセスを spawn） ---
	c, err := client.NewStdioMCPClient(
		serverBin,
		os.Environ(),
		"mcp",
	)
	if err != nil {
		log.Fatalf("failed to create MCP client: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// --- Initialize ハンドシェイク ---
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "nasal-ls-client",
		Version: "0.1.0",
	}

	initResult, err := c.Initialize(ctx, initReq)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Connected to: %s %s\n", initResult.ServerInfo.Name, initResult.ServerInfo.Version)

	// --- index_path → definition の順に呼び出す ---
	if _, err := call(ctx, c, "index_path", map[string]any{"path": projectPath}); err != nil {
		log.Fatal(err)
	}

	fmt.Fprintf(os.Stderr, "Resolving %s at %s:%d:%d...\n", name, uri, line, character)

	result, err := call(ctx, c, "definition", map[string]any{
		"uri":       uri,
		"name":      name,
		"line":      line,
		"character": character,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			fmt.Println(tc.Text)
		}
	}
}

func call(ctx context.Context, c *client.Client, tool string, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	result, err := c.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", tool, err)
	}
	if result.IsError {
		for _, content := range result.Content {
			if tc, ok := content.(mcp.TextContent); ok {
				return nil, fmt.Errorf("tool %s: %s", tool, tc.Text)
			}
		}
		return nil, fmt.Errorf("tool %s failed", tool)
	}
	return result, nil
}

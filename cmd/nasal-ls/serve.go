package main

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/Tungsten-180/nasal-ls/internal/library"
	"github.com/Tungsten-180/nasal-ls/internal/log"
	"github.com/Tungsten-180/nasal-ls/internal/lsp"
	"github.com/Tungsten-180/nasal-ls/internal/server"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Serve the Language Server Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}
}

func runLSP(cmd *cobra.Command) error {
	cfg, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// stdout はプロトコル専用。ログは stderr かログファイルへ
	fmt.Fprintln(cmd.ErrOrStderr(), "nasal-ls language server starting...")

	s := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), library.New(),
		lsp.WithRetainClosed(cfg.RetainClosed),
		lsp.WithVersion(version),
	)
	if err := s.Serve(); err != nil {
		log.Server("serve: %v", err)
		return err
	}
	return nil
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the index as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cleanup, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			// --- DI: Adapter 層の組み立て ---
			handler := server.NewIndexHandler(library.New(), cfg)
			s := server.New(handler, version)

			// --- Framework: MCP stdio サーバーの起動 ---
			fmt.Fprintln(os.Stderr, "nasal-ls MCP server starting...")
			if err := mcpserver.ServeStdio(s); err != nil {
				log.MCP("serve: %v", err)
				return err
			}
			return nil
		},
	}
}

package lsp

import (
	"github.com/Tungsten-180/nasal-ls/internal/scope"
	"github.com/Tungsten-180/nasal-ls/internal/symbol"
	"github.com/Tungsten-180/nasal-ls/internal/workspace"
)

// Indexer is the document index the server dispatches to.
type Indexer interface {
	Open(uri, text string) error
	Change(uri, text string) error
	Close(uri string, retain bool)
	Forget(uri string) int
	Definition(name string, ref symbol.Location) (symbol.Occurrence, error)
	Scopes(uri string) ([]scope.Span, bool)
	File(uri string) (workspace.File, bool)
}

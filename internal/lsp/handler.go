package lsp

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/Tungsten-180/nasal-ls/internal/log"
	"github.com/Tungsten-180/nasal-ls/internal/scope"
	"github.com/Tungsten-180/nasal-ls/internal/symbol"
)

func decode(params json.RawMessage, v any) *ResponseError {
	if err := json.Unmarshal(params, v); err != nil {
		return &ResponseError{Code: CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

func (s *Server) handleInitialize(params json.RawMessage) (any, *ResponseError) {
	var p InitializeParams
	if len(params) > 0 {
		if rpcErr := decode(params, &p); rpcErr != nil {
			return nil, rpcErr
		}
	}
	log.Server("initialize with root: %s", p.RootURI)

	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
			},
			DefinitionProvider:   true,
			FoldingRangeProvider: true,
		},
		ServerInfo: ServerInfo{Name: "nasal-ls", Version: s.version},
	}, nil
}

func (s *Server) handleDidOpen(params json.RawMessage) (any, *ResponseError) {
	var p DidOpenTextDocumentParams
	if rpcErr := decode(params, &p); rpcErr != nil {
		return nil, rpcErr
	}

	uri := p.TextDocument.URI
	err := s.idx.Open(uri, p.TextDocument.Text)
	return nil, s.publish(uri, err)
}

func (s *Server) handleDidChange(params json.RawMessage) (any, *ResponseError) {
	var p DidChangeTextDocumentParams
	if rpcErr := decode(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if len(p.ContentChanges) == 0 {
		return nil, nil
	}

	// 全文同期なので最後の変更だけが有効
	uri := p.TextDocument.URI
	text := p.ContentChanges[len(p.ContentChanges)-1].Text

	s.idx.Forget(uri)
	err := s.idx.Change(uri, text)
	return nil, s.publish(uri, err)
}

func (s *Server) handleDidClose(params json.RawMessage) (any, *ResponseError) {
	var p DidCloseTextDocumentParams
	if rpcErr := decode(params, &p); rpcErr != nil {
		return nil, rpcErr
	}

	s.idx.Close(p.TextDocument.URI, s.retainClosed)
	if s.retainClosed {
		return nil, nil
	}
	return nil, s.publish(p.TextDocument.URI, nil)
}

// publish sends the diagnostics for a freshly indexed document. A nil
// scopeErr clears them.
func (s *Server) publish(uri string, scopeErr error) *ResponseError {
	diags := []Diagnostic{}

	var se *scope.Error
	if errors.As(scopeErr, &se) {
		diags = append(diags, Diagnostic{
			Range:    s.lineRange(uri, se.Line),
			Severity: DiagnosticSeverityError,
			Source:   "nasal-ls",
			Message:  se.Error(),
		})
	} else if scopeErr != nil {
		log.Server("%s: %v", uri, scopeErr)
	}

	if err := s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	}); err != nil {
		return &ResponseError{Code: CodeInternalError, Message: err.Error()}
	}
	return nil
}

func (s *Server) lineRange(uri string, line int) Range {
	r := Range{
		Start: Position{Line: line},
		End:   Position{Line: line},
	}
	if f, ok := s.idx.File(uri); ok {
		if lines := scope.Lines(f.Text); line < len(lines) {
			r.End.Character = symbol.Column(lines[line], len(lines[line]))
		}
	}
	return r
}

func (s *Server) handleDefinition(params json.RawMessage) (any, *ResponseError) {
	var p TextDocumentPositionParams
	if rpcErr := decode(params, &p); rpcErr != nil {
		return nil, rpcErr
	}

	none := []Location{}

	f, ok := s.idx.File(p.TextDocument.URI)
	if !ok {
		return none, nil
	}

	name, ok := symbol.WordAt(f.Text, p.Position)
	if !ok {
		return none, nil
	}

	ref := Location{
		URI:   p.TextDocument.URI,
		Range: Range{Start: p.Position, End: p.Position},
	}
	def, err := s.idx.Definition(name, ref)
	if err != nil {
		log.Server("definition %q: %v", name, err)
		return none, nil
	}
	return []Location{def.Location}, nil
}

func (s *Server) handleFoldingRange(params json.RawMessage) (any, *ResponseError) {
	var p FoldingRangeParams
	if rpcErr := decode(params, &p); rpcErr != nil {
		return nil, rpcErr
	}

	ranges := []FoldingRange{}
	spans, _ := s.idx.Scopes(p.TextDocument.URI)
	for _, sp := range spans {
		if sp.Start < sp.End {
			ranges = append(ranges, FoldingRange{StartLine: sp.Start, EndLine: sp.End})
		}
	}
	return ranges, nil
}

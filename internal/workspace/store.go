package workspace

import (
	"sort"

	"github.com/Tungsten-180/nasal-ls/internal/scope"
)

// File is the indexed snapshot of one open document.
type File struct {
	URI    string
	Text   string
	Scopes []scope.Span
}

// Store keeps one File per document URI. It is not safe for concurrent use.
type Store struct {
	files map[string]*File
}

func NewStore() *Store {
	return &Store{files: make(map[string]*File)}
}

// Upsert replaces the record for uri with text and its scopes. The record
// is stored even when the scopes cannot be computed; in that case Scopes is
// nil and the scope error is returned.
func (s *Store) Upsert(uri, text string) error {
	spans, err := scope.Compute(text)
	s.files[uri] = &File{
		URI:    uri,
		Text:   text,
		Scopes: spans,
	}
	return err
}

// Get returns a copy of the record for uri.
func (s *Store) Get(uri string) (File, bool) {
	f, ok := s.files[uri]
	if !ok {
		return File{}, false
	}
	cp := *f
	if f.Scopes != nil {
		cp.Scopes = make([]scope.Span, len(f.Scopes))
		copy(cp.Scopes, f.Scopes)
	}
	return cp, true
}

// Scopes returns a copy of the scopes of uri.
func (s *Store) Scopes(uri string) ([]scope.Span, bool) {
	f, ok := s.Get(uri)
	if !ok {
		return nil, false
	}
	return f.Scopes, true
}

func (s *Store) Remove(uri string) {
	delete(s.files, uri)
}

// URIs returns every stored URI in sorted order.
func (s *Store) URIs() []string {
	uris := make([]string, 0, len(s.files))
	for uri := range s.files {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

func (s *Store) Len() int {
	return len(s.files)
}

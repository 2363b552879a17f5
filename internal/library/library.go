// Package library ties the file store and the definition registry together
// behind one lock. It is the only state a language server front end needs.
package library

import (
	"sync"

	"github.com/Tungsten-180/nasal-ls/internal/log"
	"github.com/Tungsten-180/nasal-ls/internal/scope"
	"github.com/Tungsten-180/nasal-ls/internal/symbol"
	"github.com/Tungsten-180/nasal-ls/internal/workspace"
)

var _ symbol.Resolver = (*Library)(nil)

// Library owns every indexed document and every known symbol occurrence.
// All methods are safe for concurrent use; each runs under a single lock.
type Library struct {
	mu    sync.Mutex
	files *workspace.Store
	defs  *symbol.Registry
}

// Stats contains counts of the indexed data.
type Stats struct {
	NumFiles       int `json:"files"`
	NumNames       int `json:"names"`
	NumOccurrences int `json:"occurrences"`
}

func New() *Library {
	return &Library{
		files: workspace.NewStore(),
		defs:  symbol.NewRegistry(),
	}
}

// Open indexes a newly opened document. The document is stored and its
// occurrences recorded even when its braces do not balance; the scope
// error is returned afterwards.
func (l *Library) Open(uri, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index(uri, text)
}

// Change replaces a document with its new full text. Occurrences recorded
// from the previous text are kept unless the caller calls Forget first.
func (l *Library) Change(uri, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index(uri, text)
}

func (l *Library) index(uri, text string) error {
	err := l.files.Upsert(uri, text)

	added := 0
	for _, e := range symbol.Harvest(uri, text) {
		if l.defs.Record(e.Name, e.Occurrence) {
			added++
		}
	}

	if err != nil {
		log.Index("%s: %v (stored without scopes, %d occurrences)", uri, err, added)
	} else {
		spans, _ := l.files.Scopes(uri)
		log.Index("%s: %d scopes, %d occurrences", uri, len(spans), added)
	}
	return err
}

// Close drops a document and its occurrences unless retain is set, in
// which case the stale record stays queryable.
func (l *Library) Close(uri string, retain bool) {
	if retain {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.files.Remove(uri)
	n := l.defs.Forget(uri)
	log.Index("%s: closed, %d occurrences dropped", uri, n)
}

// Forget removes every occurrence recorded for uri.
func (l *Library) Forget(uri string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.defs.Forget(uri)
}

// ResolveDefinition implements symbol.Resolver.
func (l *Library) ResolveDefinition(name string, ref symbol.Location) (symbol.Occurrence, error) {
	return l.Definition(name, ref)
}

// Definition resolves name for a reference at ref.
func (l *Library) Definition(name string, ref symbol.Location) (symbol.Occurrence, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.defs.ResolveDefinition(name, ref)
}

// Occurrences returns every occurrence recorded under name.
func (l *Library) Occurrences(name string) ([]symbol.Occurrence, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.defs.LookupAll(name)
}

// Scopes returns the scope spans of uri. A stored document whose braces do
// not balance has no spans.
func (l *Library) Scopes(uri string) ([]scope.Span, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.files.Scopes(uri)
}

// File returns a copy of the stored document.
func (l *Library) File(uri string) (workspace.File, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.files.Get(uri)
}

// URIs lists the stored documents.
func (l *Library) URIs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.files.URIs()
}

// Names lists every name with at least one occurrence.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.defs.Names()
}

func (l *Library) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		NumFiles:       l.files.Len(),
		NumNames:       len(l.defs.Names()),
		NumOccurrences: l.defs.Len(),
	}
}

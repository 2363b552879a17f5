// Package scope recovers the brace-nesting structure of a source file.
//
// Comment detection is line based: a line whose first non-whitespace
// character is '#' is skipped entirely. Inline comments and the contents of
// string or character literals are not recognised, so braces inside them are
// counted like any other brace.
package scope

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Span is a brace-delimited block, from the line of its '{' to the line of
// its matching '}'. Lines are zero-based.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether line falls inside the span (inclusive).
func (s Span) Contains(line int) bool {
	return s.Start <= line && line <= s.End
}

// ErrorKind classifies a structural failure.
type ErrorKind int

const (
	// Unmatched is a '}' with no open '{' before it.
	Unmatched ErrorKind = iota + 1
	// Unterminated is a '{' that is never closed.
	Unterminated
)

func (k ErrorKind) String() string {
	switch k {
	case Unmatched:
		return "unmatched"
	case Unterminated:
		return "unterminated"
	default:
		return "unknown"
	}
}

var (
	// ErrUnmatched matches any *Error of kind Unmatched.
	ErrUnmatched = errors.New("unmatched closing brace")
	// ErrUnterminated matches any *Error of kind Unterminated.
	ErrUnterminated = errors.New("unterminated opening brace")
)

// Error reports where the brace structure broke.
type Error struct {
	Kind ErrorKind
	Line int
}

func (e *Error) Error() string {
	switch e.Kind {
	case Unmatched:
		return fmt.Sprintf("line %d: unmatched closing brace", e.Line)
	case Unterminated:
		return fmt.Sprintf("line %d: unterminated opening brace", e.Line)
	default:
		return fmt.Sprintf("line %d: scope error", e.Line)
	}
}

// Is lets errors.Is match the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnmatched:
		return e.Kind == Unmatched
	case ErrUnterminated:
		return e.Kind == Unterminated
	}
	return false
}

// pending is an opened brace waiting for its close.
type pending struct {
	start int
	idx   int
}

// Compute returns one Span per '{' outside comment lines, ordered by the
// position of the opening brace (outer blocks before the blocks they
// contain). It fails with an *Error on the first unmatched '}' or, after
// the whole text is scanned, on the first '{' left open.
func Compute(text string) ([]Span, error) {
	var (
		stack    []pending
		spans    []Span
		resolved []bool
	)

	for lineNo, line := range Lines(text) {
		if IsCommentLine(line) {
			continue
		}
		for _, r := range line {
			switch r {
			case '{':
				stack = append(stack, pending{start: lineNo, idx: len(spans)})
				spans = append(spans, Span{Start: lineNo})
				resolved = append(resolved, false)
			case '}':
				if len(stack) == 0 {
					return nil, &Error{Kind: Unmatched, Line: lineNo}
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				spans[top.idx] = Span{Start: top.start, End: lineNo}
				resolved[top.idx] = true
			}
		}
	}

	for i, ok := range resolved {
		if !ok {
			return nil, &Error{Kind: Unterminated, Line: spans[i].Start}
		}
	}

	if spans == nil {
		spans = []Span{}
	}
	return spans, nil
}

// Lines splits text on '\n' and drops a trailing '\r' from each line. A
// final newline does not produce an extra empty line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// IsCommentLine reports whether the first non-whitespace character of line
// is '#'.
func IsCommentLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t\v\f\r"), "#")
}

// Enclosing returns the innermost span containing line. Spans must be in
// the order produced by Compute.
func Enclosing(spans []Span, line int) (Span, bool) {
	var (
		best  Span
		found bool
	)
	for _, s := range spans {
		if !s.Contains(line) {
			continue
		}
		// Later spans that contain the line open inside earlier ones.
		best, found = s, true
	}
	return best, found
}

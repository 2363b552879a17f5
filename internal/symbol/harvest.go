package symbol

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/Tungsten-180/nasal-ls/internal/scope"
)

// Entry is a harvested occurrence together with its name.
type Entry struct {
	Name string
	Occurrence
}

var (
	identRe      = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	paramListRe  = regexp.MustCompile(`\bfunc\s*\(([^)]*)\)`)
	afterVarRe   = regexp.MustCompile(`(?:^|[^A-Za-z0-9_.])var\s+$`)
	assignFuncRe = regexp.MustCompile(`^\s*=\s*func\b`)
	callRe       = regexp.MustCompile(`^\s*\(`)
)

var keywords = map[string]bool{
	"var": true, "func": true, "if": true, "elsif": true, "else": true,
	"for": true, "foreach": true, "forindex": true, "while": true,
	"return": true, "break": true, "continue": true, "nil": true,
	"and": true, "or": true, "me": true, "arg": true,
}

// Harvest scans text for identifier occurrences. It skips the same comment
// lines as scope.Compute and does not understand string literals.
func Harvest(uri, text string) []Entry {
	var entries []Entry

	for lineNo, line := range scope.Lines(text) {
		if scope.IsCommentLine(line) {
			continue
		}

		var params [][]int
		for _, m := range paramListRe.FindAllStringSubmatchIndex(line, -1) {
			params = append(params, m[2:4])
		}

		for _, m := range identRe.FindAllStringIndex(line, -1) {
			start, end := m[0], m[1]
			name := line[start:end]
			if keywords[name] || (start > 0 && isDigit(line[start-1])) {
				continue
			}

			entries = append(entries, Entry{
				Name: name,
				Occurrence: Occurrence{
					Kind: classify(line, start, end, params),
					Location: Location{
						URI: uri,
						Range: Range{
							Start: Position{Line: lineNo, Character: Column(line, start)},
							End:   Position{Line: lineNo, Character: Column(line, end)},
						},
					},
				},
			})
		}
	}

	return entries
}

func classify(line string, start, end int, params [][]int) Kind {
	rest := line[end:]

	if afterVarRe.MatchString(line[:start]) {
		if assignFuncRe.MatchString(rest) {
			return FunctionDefinition
		}
		return IdentifierDefinition
	}

	if strings.TrimSpace(line[:start]) == "" && assignFuncRe.MatchString(rest) {
		return FunctionDefinition
	}

	for _, p := range params {
		if start >= p[0] && end <= p[1] {
			return IdentifierDefinition
		}
	}

	if callRe.MatchString(rest) {
		return FunctionReference
	}
	return IdentifierReference
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// Column converts a byte offset within line to a UTF-16 character offset.
func Column(line string, offset int) int {
	if offset > len(line) {
		offset = len(line)
	}
	col := 0
	for _, r := range line[:offset] {
		col += utf16.RuneLen(r)
	}
	return col
}

// ByteOffset converts a UTF-16 character offset within line to a byte
// offset, clamped to the line length.
func ByteOffset(line string, col int) int {
	units := 0
	for i, r := range line {
		if units >= col {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(line)
}

// WordAt returns the identifier touching pos in text, if any.
func WordAt(text string, pos Position) (string, bool) {
	lines := scope.Lines(text)
	if pos.Line < 0 || pos.Line >= len(lines) {
		return "", false
	}
	line := lines[pos.Line]
	off := ByteOffset(line, pos.Character)

	for _, m := range identRe.FindAllStringIndex(line, -1) {
		if m[0] <= off && off <= m[1] {
			return line[m[0]:m[1]], true
		}
	}
	return "", false
}

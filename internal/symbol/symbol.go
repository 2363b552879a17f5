package symbol

import "fmt"

// Kind tags an occurrence as a definition or a reference.
type Kind int

const (
	FunctionDefinition Kind = iota + 1
	IdentifierDefinition
	FunctionReference
	IdentifierReference
)

func (k Kind) String() string {
	switch k {
	case FunctionDefinition:
		return "function-definition"
	case IdentifierDefinition:
		return "identifier-definition"
	case FunctionReference:
		return "function-reference"
	case IdentifierReference:
		return "identifier-reference"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsDefinition reports whether k is one of the definition kinds.
func (k Kind) IsDefinition() bool {
	return k == FunctionDefinition || k == IdentifierDefinition
}

// Position is a zero-based line/character pair.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

// Range is a span of text between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Valid reports whether the range does not end before it starts.
func (r Range) Valid() bool {
	return r.Start.Line >= 0 && r.Start.Character >= 0 && !r.End.Before(r.Start)
}

// Strict reports whether both the line and the character of the start are
// strictly less than those of the end. Single-line ranges never satisfy it.
func (r Range) Strict() bool {
	return r.Start.Line < r.End.Line && r.Start.Character < r.End.Character
}

// Location is a range inside a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// Occurrence is one appearance of an identifier.
type Occurrence struct {
	Kind     Kind     `json:"kind"`
	Location Location `json:"location"`
}

// Resolver finds the definition a reference points at.
type Resolver interface {
	ResolveDefinition(name string, ref Location) (Occurrence, error)
}

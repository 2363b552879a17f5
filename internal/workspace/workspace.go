package workspace

// FileReader defines operations for reading source files.
type FileReader interface {
	ReadFile(path string) (string, error)
}

// SourceLister lists the source files below a root.
type SourceLister interface {
	Sources() ([]string, error)
}

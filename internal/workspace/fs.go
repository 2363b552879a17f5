package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	_ FileReader   = (*FSReader)(nil)
	_ SourceLister = (*FSReader)(nil)
)

// FSReader reads source files from the local filesystem.
type FSReader struct {
	rootPath   string
	extensions []string
}

// NewFSReader returns a reader rooted at rootPath that lists files with one
// of the given extensions (".nas" when none are given).
func NewFSReader(rootPath string, extensions ...string) *FSReader {
	if len(extensions) == 0 {
		extensions = []string{".nas"}
	}
	return &FSReader{
		rootPath:   filepath.Clean(rootPath),
		extensions: extensions,
	}
}

func (r *FSReader) Root() string {
	return r.rootPath
}

func (r *FSReader) ReadFile(relPath string) (string, error) {
	absPath := filepath.Clean(filepath.Join(r.rootPath, relPath))

	// パストラバーサル防止
	rel, err := filepath.Rel(r.rootPath, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("path %q is outside project root", relPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", relPath)
	}
	return string(data), nil
}

// Sources returns the root-relative paths of all matching files, sorted.
// Hidden directories are skipped.
func (r *FSReader) Sources() ([]string, error) {
	var out []string

	err := filepath.WalkDir(r.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			base := d.Name()
			if path != r.rootPath && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !r.matches(path) {
			return nil
		}

		rel, err := filepath.Rel(r.rootPath, path)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", r.rootPath)
	}

	sort.Strings(out)
	return out, nil
}

func (r *FSReader) matches(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range r.extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// URI returns the file:// URI of a root-relative path.
func (r *FSReader) URI(relPath string) string {
	abs, err := filepath.Abs(filepath.Join(r.rootPath, relPath))
	if err != nil {
		abs = filepath.Join(r.rootPath, relPath)
	}
	return "file://" + filepath.ToSlash(abs)
}

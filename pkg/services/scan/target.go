package scan

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnorePatterns lists paths never worth evaluating: VCS
// internals, dependency trees, and build output.
var DefaultIgnorePatterns = []string{
	".git/",
	"node_modules/",
	"vendor/",
	"target/",
	"dist/",
	"build/",
	"bin/",
	"__pycache__/",
	".DS_Store",
}

// dirTarget is a filesystem directory snapshot. The file list is
// collected once at open time; contents are read lazily.
type dirTarget struct {
	root  string
	files []string
}

// NewDirTarget walks root and snapshots its file list, honoring the
// repository's .gitignore, DefaultIgnorePatterns, and any extra
// configured patterns.
func NewDirTarget(root string, extra ...string) (*dirTarget, error) {
	patterns := append([]string{}, DefaultIgnorePatterns...)
	patterns = append(patterns, extra...)

	gitignorePath := filepath.Join(root, ".gitignore")
	if content, err := os.ReadFile(gitignorePath); err == nil {
		patterns = append(patterns, strings.Split(string(content), "\n")...)
	}
	matcher := ignore.CompileIgnoreLines(patterns...)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matcher.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.MatchesPath(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(files)
	return &dirTarget{root: root, files: files}, nil
}

func (t *dirTarget) Ref() string { return t.root }

func (t *dirTarget) Files() []string {
	out := make([]string, len(t.files))
	copy(out, t.files)
	return out
}

func (t *dirTarget) Read(path string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("path escapes target: %s", path)
	}
	return os.ReadFile(filepath.Join(t.root, clean))
}

// zipTarget holds an archive fully in memory.
type zipTarget struct {
	ref   string
	data  map[string][]byte
	files []string
}

// NewZipTarget reads a zip archive into memory. Directory entries and
// ignored paths are dropped.
func NewZipTarget(path string, extra ...string) (*zipTarget, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer reader.Close()

	patterns := append([]string{}, DefaultIgnorePatterns...)
	patterns = append(patterns, extra...)
	matcher := ignore.CompileIgnoreLines(patterns...)

	t := &zipTarget{ref: path, data: map[string][]byte{}}
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.ToSlash(f.Name)
		if matcher.MatchesPath(name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in archive: %w", name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s in archive: %w", name, err)
		}

		t.data[name] = content
		t.files = append(t.files, name)
	}

	sort.Strings(t.files)
	return t, nil
}

func (t *zipTarget) Ref() string { return t.ref }

func (t *zipTarget) Files() []string {
	out := make([]string, len(t.files))
	copy(out, t.files)
	return out
}

func (t *zipTarget) Read(path string) ([]byte, error) {
	content, ok := t.data[path]
	if !ok {
		return nil, fmt.Errorf("no such file in archive: %s", path)
	}
	return content, nil
}

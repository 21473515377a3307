// Package schema serves the schema context documents used to ground
// natural-language translation and semantic alignment scoring.
package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound reports that no schema context exists under the given name.
var ErrNotFound = errors.New("schema context not found")

type Document struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Provider exposes named schema context documents.
type Provider interface {
	List() ([]string, error)
	Get(name string) (Document, error)
}

// DirProvider reads schema documents from a flat directory of .md and .txt
// files. The document name is the file name without its extension.
type DirProvider struct {
	dir string
}

func NewDirProvider(dir string) (*DirProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat schema dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema path %s is not a directory", dir)
	}
	return &DirProvider{dir: dir}, nil
}

func (p *DirProvider) List() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := documentName(entry.Name())
		if !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *DirProvider) Get(name string) (Document, error) {
	if !validDocumentName(name) {
		return Document{}, ErrNotFound
	}
	for _, ext := range []string{".md", ".txt"} {
		content, err := os.ReadFile(filepath.Join(p.dir, name+ext))
		if err == nil {
			return Document{Name: name, Content: string(content)}, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Document{}, fmt.Errorf("read schema document: %w", err)
		}
	}
	return Document{}, ErrNotFound
}

func documentName(fileName string) (string, bool) {
	ext := filepath.Ext(fileName)
	if ext != ".md" && ext != ".txt" {
		return "", false
	}
	return strings.TrimSuffix(fileName, ext), true
}

// validDocumentName rejects path separators and traversal so Get never
// escapes the configured directory.
func validDocumentName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

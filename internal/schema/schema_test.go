package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestProvider(t *testing.T) *DirProvider {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"sales.md":     "# sales\ndbo.orders(id, customer_id, total, order_date)",
		"hr.txt":       "dbo.employees(id, name, hired_at)",
		"ignored.json": "{}",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	provider, err := NewDirProvider(dir)
	if err != nil {
		t.Fatalf("NewDirProvider() error = %v", err)
	}
	return provider
}

func TestListReturnsSortedDocumentNames(t *testing.T) {
	provider := newTestProvider(t)

	names, err := provider.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 2 || names[0] != "hr" || names[1] != "sales" {
		t.Fatalf("List() = %v", names)
	}
}

func TestGetReadsDocument(t *testing.T) {
	provider := newTestProvider(t)

	doc, err := provider.Get("sales")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc.Name != "sales" {
		t.Fatalf("Name = %q", doc.Name)
	}
	if doc.Content == "" {
		t.Fatal("empty content")
	}
}

func TestGetUnknownName(t *testing.T) {
	provider := newTestProvider(t)

	if _, err := provider.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestGetRejectsTraversal(t *testing.T) {
	provider := newTestProvider(t)

	for _, name := range []string{"../sales", "a/b", `a\b`, "..", ""} {
		if _, err := provider.Get(name); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%q) error = %v, want ErrNotFound", name, err)
		}
	}
}

func TestNewDirProviderRejectsMissingDir(t *testing.T) {
	if _, err := NewDirProvider(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// HostPage is a minimal host document with the default container and setup
// panel.
const HostPage = `<!DOCTYPE html><html><head></head><body><div id="inputs"></div><div id="setup"></div></body></html>`

// HostDocument parses HostPage.
func HostDocument(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(HostPage)
	if err != nil {
		t.Fatalf("parse host page: %v", err)
	}
	return doc
}

// DefaultStore returns a store holding the bundled templates.
func DefaultStore(t *testing.T) *templates.Store {
	t.Helper()
	raw, err := fs.ReadFile(templates.DefaultTemplatesFS(), templates.DefaultDocument)
	if err != nil {
		t.Fatalf("read default templates: %v", err)
	}
	return storeFrom(t, templates.DefaultSource(), raw)
}

// StoreFromMarkup returns a store holding the templates defined in markup.
func StoreFromMarkup(t *testing.T, markup string) *templates.Store {
	t.Helper()
	return storeFrom(t, templates.SourceFromFS("inline.html"), []byte(markup))
}

func storeFrom(t *testing.T, src templates.Source, raw []byte) *templates.Store {
	t.Helper()
	doc, err := templates.NewDocument(src, raw)
	if err != nil {
		t.Fatalf("new template document: %v", err)
	}
	store := templates.NewStore(nil)
	if err := store.Parse(doc); err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return store
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs render with a buffer and returns both the result and
// what was written to the buffer.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}

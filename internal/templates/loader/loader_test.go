package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	pkgtemplates "github.com/goliatone/go-formbuilder/pkg/templates"
)

const fixture = `<template id="text" data-input><input class="fb-input"></template>`

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.html")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(pkgtemplates.NewLoaderOptions())
	doc, err := l.Load(context.Background(), pkgtemplates.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != filepath.Clean(path) {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{"forms/base.html": {Data: []byte(fixture)}}
	l := New(pkgtemplates.NewLoaderOptions(pkgtemplates.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), pkgtemplates.SourceFromFS("forms/base.html"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	if _, err := l.Load(context.Background(), pkgtemplates.SourceFromFS("missing.html")); err == nil {
		t.Fatalf("expected error for missing entry")
	}
}

func TestLoader_FSRequiresFileSystem(t *testing.T) {
	l := New(pkgtemplates.NewLoaderOptions())
	_, err := l.Load(context.Background(), pkgtemplates.SourceFromFS("base.html"))
	if err == nil || !strings.Contains(err.Error(), "filesystem is not configured") {
		t.Fatalf("expected filesystem error, got %v", err)
	}
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.html" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	l := New(pkgtemplates.NewLoaderOptions(pkgtemplates.WithHTTPClient(server.Client())))

	doc, err := l.Load(context.Background(), pkgtemplates.SourceFromURL(server.URL+"/templates.html"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	_, err = l.Load(context.Background(), pkgtemplates.SourceFromURL(server.URL+"/missing.html"))
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	l := New(pkgtemplates.NewLoaderOptions())
	_, err := l.Load(context.Background(), pkgtemplates.SourceFromURL("https://example.com/templates.html"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected http disabled error, got %v", err)
	}
}

func TestLoader_HTTPFallbackAppliesTimeout(t *testing.T) {
	l := New(pkgtemplates.NewLoaderOptions(pkgtemplates.WithHTTPFallback(2 * time.Second)))
	if l.http == nil || l.http.Timeout != 2*time.Second {
		t.Fatalf("fallback client not configured: %+v", l.http)
	}
}

func TestLoader_MaxDocumentSize(t *testing.T) {
	files := fstest.MapFS{"base.html": {Data: []byte(fixture)}}

	l := New(pkgtemplates.NewLoaderOptions(
		pkgtemplates.WithFileSystem(files),
		pkgtemplates.WithMaxDocumentSize(int64(len(fixture))-1),
	))
	_, err := l.Load(context.Background(), pkgtemplates.SourceFromFS("base.html"))
	if !errors.Is(err, pkgtemplates.ErrDocumentTooLarge) {
		t.Fatalf("expected ErrDocumentTooLarge, got %v", err)
	}

	l = New(pkgtemplates.NewLoaderOptions(
		pkgtemplates.WithFileSystem(files),
		pkgtemplates.WithMaxDocumentSize(int64(len(fixture))),
	))
	if _, err := l.Load(context.Background(), pkgtemplates.SourceFromFS("base.html")); err != nil {
		t.Fatalf("document at the limit should load: %v", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	files := fstest.MapFS{"base.html": {Data: []byte(fixture)}}
	l := New(pkgtemplates.NewLoaderOptions(pkgtemplates.WithFileSystem(files)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, pkgtemplates.SourceFromFS("base.html")); err == nil {
		t.Fatalf("expected context error")
	}
}

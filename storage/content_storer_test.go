package storage

import (
	"bytes"
	"context"
	"reflect"
	"testing"
)

func TestLocalFileStorerRoundTrip(t *testing.T) {
	storer := NewLocalFileStorer(t.TempDir())
	ctx := context.Background()

	content := []byte("%PDF-1.7 fake")
	path, err := storer.Store(ctx, "final-versions/a1.pdf", content)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if path != "final-versions/a1.pdf" {
		t.Errorf("stored path = %q", path)
	}

	exists, err := storer.Exists(ctx, "final-versions/a1.pdf")
	if err != nil || !exists {
		t.Fatalf("exists = %v, %v; want true", exists, err)
	}

	got, err := storer.Fetch(ctx, "final-versions/a1.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("fetched content differs from stored content")
	}
}

func TestLocalFileStorerExistsMissing(t *testing.T) {
	storer := NewLocalFileStorer(t.TempDir())
	exists, err := storer.Exists(context.Background(), "nope/missing.pdf")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("missing file reported as existing")
	}
}

func TestLocalFileStorerList(t *testing.T) {
	storer := NewLocalFileStorer(t.TempDir())
	ctx := context.Background()

	for _, p := range []string{"renders/e1/2.png", "renders/e1/1.png", "renders/e2/1.png"} {
		if _, err := storer.Store(ctx, p, []byte("x")); err != nil {
			t.Fatalf("store %s: %v", p, err)
		}
	}

	got, err := storer.List(ctx, "renders/e1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"renders/e1/1.png", "renders/e1/2.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("list = %v, want %v", got, want)
	}
}

func TestLocalFileStorerRejectsEscapingPaths(t *testing.T) {
	storer := NewLocalFileStorer(t.TempDir())
	ctx := context.Background()

	if _, err := storer.Store(ctx, "../outside.pdf", []byte("x")); err == nil {
		t.Error("path escaping the storage root should be rejected")
	}
	if _, err := storer.Store(ctx, "", []byte("x")); err == nil {
		t.Error("empty path should be rejected")
	}
}

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"library-management/library"
)

const sampleCatalog = `
books:
  - title: "1984"
    author: George Orwell
    year: 1949
    genre: Dystopia
  - title: The Art of War
    author: Sun Tzu
  - title: ""
    author: Nobody
`

func TestReadCatalog(t *testing.T) {
	entries, err := readCatalog(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	if entries[0].Year == nil || *entries[0].Year != 1949 {
		t.Fatalf("year not decoded: %+v", entries[0])
	}
	if entries[1].Year != nil || entries[1].Genre != nil {
		t.Fatalf("missing fields should stay nil: %+v", entries[1])
	}
}

func TestReadEmptyCatalog(t *testing.T) {
	entries, err := readCatalog(strings.NewReader(""))
	if err != nil || len(entries) != 0 {
		t.Fatalf("empty catalog: entries=%v err=%v", entries, err)
	}
}

func TestImportBooks(t *testing.T) {
	ctx := context.Background()
	mgr, err := library.NewLibraryManager(ctx, library.Options{DSN: filepath.Join(t.TempDir(), "import.db")})
	if err != nil {
		t.Fatalf("mgr: %v", err)
	}
	defer mgr.Close()

	entries, _ := readCatalog(strings.NewReader(sampleCatalog))
	var out bytes.Buffer
	imported, failed := importBooks(ctx, mgr.Books, entries, &out)
	if imported != 2 || failed != 1 {
		t.Fatalf("imported=%d failed=%d\n%s", imported, failed, out.String())
	}

	books, err := mgr.Books.Search(ctx, library.SearchFilter{Field: library.FieldAuthor, Value: "Orwell"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(books) != 1 || books[0].Title != "1984" {
		t.Fatalf("unexpected search result %+v", books)
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("Harry Potter and the Philosopher's Stone", 20); got != "Harry Potter and ..." {
		t.Fatalf("truncateString = %q", got)
	}
	if got := truncateString("Dune", 20); got != "Dune" {
		t.Fatalf("truncateString = %q", got)
	}
}

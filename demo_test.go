package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"library-management/library"
)

func newTestManager(t *testing.T) *library.LibraryManager {
	t.Helper()
	mgr, err := library.NewLibraryManager(context.Background(), library.Options{DSN: filepath.Join(t.TempDir(), "demo.db")})
	if err != nil {
		t.Fatalf("mgr: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestRunDemo(t *testing.T) {
	mgr := newTestManager(t)
	var out bytes.Buffer
	runDemo(context.Background(), mgr, &out)

	for _, want := range []string{
		"User registered successfully.",
		"john_doe is logged in.",
		"john@example.com",
		"Logged out.",
		"Employee added successfully.",
		"Librarian",
		"Book added successfully.",
		"Book information updated successfully.",
		"Books found:",
		"Classic",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("demo output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunDemoTwiceContinuesPastDuplicate(t *testing.T) {
	mgr := newTestManager(t)
	runDemo(context.Background(), mgr, &bytes.Buffer{})

	var out bytes.Buffer
	runDemo(context.Background(), mgr, &out)
	if strings.Contains(out.String(), "User registered successfully.") {
		t.Fatalf("second registration of john_doe should be rejected")
	}
	if !strings.Contains(out.String(), "john_doe is logged in.") || !strings.Contains(out.String(), "Books found:") {
		t.Fatalf("demo should carry on after a failed step:\n%s", out.String())
	}
}

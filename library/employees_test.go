package library

import (
	"context"
	"errors"
	"testing"
)

func TestAddAndShowEmployee(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	id, err := mgr.Employees.Add(ctx, "Jane Smith", "Librarian")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := mgr.Employees.Add(ctx, "Jane Smithers", ""); err != nil {
		t.Fatalf("add second: %v", err)
	}

	got, err := mgr.Employees.Show(ctx, "Jane Smith")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("exact match expected 1 employee, got %d", len(got))
	}
	if got[0].ID != id || got[0].Position == nil || *got[0].Position != "Librarian" {
		t.Fatalf("unexpected employee %+v", got[0])
	}

	other, err := mgr.Employees.Show(ctx, "Jane Smithers")
	if err != nil {
		t.Fatalf("show second: %v", err)
	}
	if other[0].Position != nil {
		t.Fatalf("empty position should be stored as NULL")
	}
}

func TestShowEmployeeNotFound(t *testing.T) {
	mgr := newManager(t)
	if _, err := mgr.Employees.Show(context.Background(), "Nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAddEmployeeRequiresName(t *testing.T) {
	gw := &recordingGateway{}
	if _, err := NewEmployeeManager(gw).Add(context.Background(), "", "Clerk"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
	if len(gw.writes) != 0 {
		t.Fatalf("no statement should be issued")
	}
}

package library

import (
	"context"
	"fmt"
)

// LibraryManager is a thin façade over the Database, keeping CLI code simple.
type LibraryManager struct {
	db *Database

	Users     *UserManager
	Employees *EmployeeManager
	Books     *BookManager
}

// NewLibraryManager opens the store, applies the schema and wires the entity
// managers to it.
func NewLibraryManager(ctx context.Context, opts Options) (*LibraryManager, error) {
	db, err := NewDatabase(ctx, opts)
	if err != nil {
		return nil, err
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &LibraryManager{
		db:        db,
		Users:     NewUserManager(db),
		Employees: NewEmployeeManager(db),
		Books:     NewBookManager(db),
	}, nil
}

// Close closes the underlying database.
func (lm *LibraryManager) Close() error { return lm.db.Close() }

// Driver reports which database/sql driver backs the manager.
func (lm *LibraryManager) Driver() string { return lm.db.Driver() }

// ------------------ Utilities ------------------

// PrettyBook formats a book for lists.
func PrettyBook(b Book) string {
	return fmt.Sprintf("%-5d %-30s %-25s %-6s %-15s",
		b.ID, b.Title, orDash(b.Author), yearOrDash(b.PublicationYear), orDash(b.Genre))
}

// PrettyEmployee formats an employee for lists.
func PrettyEmployee(e Employee) string {
	return fmt.Sprintf("%-5d %-30s %-25s", e.ID, e.Name, orDash(e.Position))
}

// PrettyUser formats a profile, leaving out the password hash.
func PrettyUser(u User) string {
	return fmt.Sprintf("%-5d %-30s %-25s", u.ID, u.Username, orDash(u.Email))
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func yearOrDash(y *int) string {
	if y == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *y)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"library-management/library"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted walkthrough of every operation",
		Long: `Registers and logs in a user, shows the profile, logs out, adds and shows an
employee, then adds, updates and searches a book. Failing steps are reported
and the walkthrough carries on.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer mgr.Close()

			runDemo(cmd.Context(), mgr, os.Stdout)
			return nil
		},
	}
}

// runDemo performs the fixed demonstration sequence. Every step runs
// regardless of how the previous one ended.
func runDemo(ctx context.Context, mgr *library.LibraryManager, w io.Writer) {
	// User management
	if _, err := mgr.Users.Register(ctx, "john_doe", "john123", "john@example.com"); outcome(w, "register", err) {
		fmt.Fprintln(w, "User registered successfully.")
	}

	session, err := mgr.Users.Login(ctx, "john_doe", "john123")
	if outcome(w, "login", err) {
		fmt.Fprintf(w, "%s is logged in.\n", session.Username)
	}

	if user, err := mgr.Users.ShowProfile(ctx, "john_doe"); outcome(w, "show profile", err) {
		printUser(w, user)
	}

	if err := mgr.Users.Logout(session); outcome(w, "logout", err) {
		fmt.Fprintln(w, "Logged out.")
	}

	// Employee management
	if _, err := mgr.Employees.Add(ctx, "Jane Smith", "Librarian"); outcome(w, "add employee", err) {
		fmt.Fprintln(w, "Employee added successfully.")
	}
	if employees, err := mgr.Employees.Show(ctx, "Jane Smith"); outcome(w, "show employee", err) {
		printEmployees(w, employees)
	}

	// Book management
	bookID, err := mgr.Books.Add(ctx, "Book1", library.StringPtr("F. M"), library.IntPtr(1925), library.StringPtr("Novel"))
	if outcome(w, "add book", err) {
		fmt.Fprintln(w, "Book added successfully.")
	} else {
		bookID = 1
	}

	info := library.BookInfo{
		Author:          library.StringPtr("F. M"),
		PublicationYear: library.IntPtr(1925),
		Genre:           library.StringPtr("Classic"),
	}
	if err := mgr.Books.UpdateInfo(ctx, bookID, info); outcome(w, "update book", err) {
		fmt.Fprintln(w, "Book information updated successfully.")
	}

	books, err := mgr.Books.Search(ctx, library.SearchFilter{Field: library.FieldAuthor, Value: "F. M"})
	if outcome(w, "search books", err) {
		fmt.Fprintln(w, "Books found:")
		printBooks(w, books)
	}
}

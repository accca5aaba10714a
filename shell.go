package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"library-management/library"
)

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session that keeps you logged in between commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer mgr.Close()

			sh := &shell{mgr: mgr, sc: bufio.NewScanner(os.Stdin), out: os.Stdout}
			sh.askPassword = func(label string) (string, error) {
				return readPassword(sh.sc, label)
			}
			sh.run(cmd.Context())
			return nil
		},
	}
}

// shell is the interactive loop. The only state it carries between lines is
// the session returned by the last successful login.
type shell struct {
	mgr     *library.LibraryManager
	sc      *bufio.Scanner
	out     io.Writer
	session *library.Session

	askPassword func(label string) (string, error)
}

func (sh *shell) run(ctx context.Context) {
	fmt.Fprintln(sh.out, "Welcome to the Library Management System!")
	fmt.Fprintln(sh.out, "Available commands:")
	fmt.Fprintln(sh.out, "  Users: register, login, logout, profile, whoami")
	fmt.Fprintln(sh.out, "  Employees: add employee, show employee")
	fmt.Fprintln(sh.out, "  Books: add book, update book, search books")
	fmt.Fprintln(sh.out, "  System: exit")

	for {
		fmt.Fprint(sh.out, "\n> ")
		if !sh.sc.Scan() {
			break
		}
		cmd := strings.TrimSpace(sh.sc.Text())

		switch cmd {
		case "register":
			sh.handleRegister(ctx)
		case "login":
			sh.handleLogin(ctx)
		case "logout":
			if err := sh.mgr.Users.Logout(sh.session); outcome(sh.out, "logout", err) {
				fmt.Fprintln(sh.out, "Logged out.")
			}
			sh.session = nil
		case "profile":
			sh.handleProfile(ctx)
		case "whoami":
			if sh.session.Active() {
				fmt.Fprintf(sh.out, "%s (session %s)\n", sh.session.Username, sh.session.Token)
			} else {
				fmt.Fprintln(sh.out, "No user is currently logged in.")
			}
		case "add employee":
			sh.handleAddEmployee(ctx)
		case "show employee":
			sh.handleShowEmployee(ctx)
		case "add book":
			sh.handleAddBook(ctx)
		case "update book":
			sh.handleUpdateBook(ctx)
		case "search books", "search book":
			sh.handleSearchBooks(ctx)
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(sh.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(sh.out, "Unknown command. Type one of the available commands listed above.")
		}
	}
}

// prompt prints label and returns the trimmed next line; ok is false on EOF.
func (sh *shell) prompt(label string) (string, bool) {
	fmt.Fprint(sh.out, label)
	if !sh.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.sc.Text()), true
}

func (sh *shell) handleRegister(ctx context.Context) {
	username, ok := sh.prompt("Username: ")
	if !ok {
		return
	}
	password, err := sh.askPassword("Password: ")
	if err != nil {
		fmt.Fprintf(sh.out, "Error reading password: %v\n", err)
		return
	}
	email, ok := sh.prompt("Email (optional): ")
	if !ok {
		return
	}

	if id, err := sh.mgr.Users.Register(ctx, username, password, email); outcome(sh.out, "register", err) {
		fmt.Fprintf(sh.out, "Registered '%s' with ID %d\n", username, id)
	}
}

func (sh *shell) handleLogin(ctx context.Context) {
	username, ok := sh.prompt("Username: ")
	if !ok {
		return
	}
	password, err := sh.askPassword("Password: ")
	if err != nil {
		fmt.Fprintf(sh.out, "Error reading password: %v\n", err)
		return
	}

	session, err := sh.mgr.Users.Login(ctx, username, password)
	if !outcome(sh.out, "login", err) {
		return
	}
	if sh.session.Active() {
		sh.mgr.Users.Logout(sh.session)
	}
	sh.session = session
	fmt.Fprintf(sh.out, "%s is logged in.\n", session.Username)
}

func (sh *shell) handleProfile(ctx context.Context) {
	username, ok := sh.prompt("Username (empty for current user): ")
	if !ok {
		return
	}
	if username == "" {
		if !sh.session.Active() {
			fmt.Fprintln(sh.out, "No user is currently logged in.")
			return
		}
		username = sh.session.Username
	}
	if user, err := sh.mgr.Users.ShowProfile(ctx, username); outcome(sh.out, "show profile", err) {
		printUser(sh.out, user)
	}
}

func (sh *shell) handleAddEmployee(ctx context.Context) {
	name, ok := sh.prompt("Name: ")
	if !ok {
		return
	}
	position, ok := sh.prompt("Position (optional): ")
	if !ok {
		return
	}
	if id, err := sh.mgr.Employees.Add(ctx, name, position); outcome(sh.out, "add employee", err) {
		fmt.Fprintf(sh.out, "Added employee '%s' with ID %d\n", name, id)
	}
}

func (sh *shell) handleShowEmployee(ctx context.Context) {
	name, ok := sh.prompt("Name: ")
	if !ok {
		return
	}
	if employees, err := sh.mgr.Employees.Show(ctx, name); outcome(sh.out, "show employee", err) {
		printEmployees(sh.out, employees)
	}
}

// readBookInfo prompts for the optional book fields. Blank answers are nil.
func (sh *shell) readBookInfo() (library.BookInfo, bool) {
	var info library.BookInfo
	author, ok := sh.prompt("Author (optional): ")
	if !ok {
		return info, false
	}
	yearStr, ok := sh.prompt("Publication year (optional): ")
	if !ok {
		return info, false
	}
	genre, ok := sh.prompt("Genre (optional): ")
	if !ok {
		return info, false
	}

	if author != "" {
		info.Author = &author
	}
	if genre != "" {
		info.Genre = &genre
	}
	if yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			fmt.Fprintf(sh.out, "Invalid year: %s\n", yearStr)
			return info, false
		}
		info.PublicationYear = &year
	}
	return info, true
}

func (sh *shell) handleAddBook(ctx context.Context) {
	title, ok := sh.prompt("Title: ")
	if !ok {
		return
	}
	info, ok := sh.readBookInfo()
	if !ok {
		return
	}
	if id, err := sh.mgr.Books.Add(ctx, title, info.Author, info.PublicationYear, info.Genre); outcome(sh.out, "add book", err) {
		fmt.Fprintf(sh.out, "Added book ID %d\n", id)
	}
}

func (sh *shell) handleUpdateBook(ctx context.Context) {
	idStr, ok := sh.prompt("Book ID: ")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		fmt.Fprintf(sh.out, "Invalid book ID: %s\n", idStr)
		return
	}
	fmt.Fprintln(sh.out, "Every field is overwritten; leave one blank to clear it.")
	info, ok := sh.readBookInfo()
	if !ok {
		return
	}
	if err := sh.mgr.Books.UpdateInfo(ctx, id, info); outcome(sh.out, "update book", err) {
		fmt.Fprintln(sh.out, "Book information updated successfully.")
	}
}

func (sh *shell) handleSearchBooks(ctx context.Context) {
	var filters []library.SearchFilter
	for _, field := range []library.SearchField{library.FieldTitle, library.FieldAuthor, library.FieldGenre} {
		value, ok := sh.prompt(fmt.Sprintf("%s contains (optional): ", field))
		if !ok {
			return
		}
		filters = append(filters, library.SearchFilter{Field: field, Value: value})
	}

	books, err := sh.mgr.Books.Search(ctx, filters...)
	if !outcome(sh.out, "search books", err) {
		return
	}
	fmt.Fprintf(sh.out, "Found %d book(s):\n", len(books))
	printBooks(sh.out, books)
}

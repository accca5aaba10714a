package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"library-management/library"
)

// outcome prints the normal, non-failure outcomes of a step and logs real
// failures. It reports whether the step succeeded.
func outcome(w io.Writer, step string, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, library.ErrNoCriteria):
		fmt.Fprintln(w, "No search criteria provided.")
	case errors.Is(err, library.ErrNoActiveSession):
		fmt.Fprintln(w, "No user is currently logged in.")
	case errors.Is(err, library.ErrInvalidCredentials):
		fmt.Fprintln(w, "Login failed. Incorrect username or password.")
	case errors.Is(err, library.ErrNotFound):
		fmt.Fprintf(w, "%s: nothing found.\n", step)
	case errors.Is(err, library.ErrDuplicateUsername), errors.Is(err, library.ErrInvalidInput):
		log.Warn().Err(err).Str("step", step).Msg("Rejected")
	default:
		var connErr *library.ConnectionError
		if errors.As(err, &connErr) {
			log.Error().Err(err).Str("step", step).Msg("Database unreachable")
			return false
		}
		log.Error().Err(err).Str("step", step).Msg("Step failed")
	}
	return false
}

func printBooks(w io.Writer, books []library.Book) {
	fmt.Fprintf(w, "%-5s %-30s %-25s %-6s %-15s\n", "ID", "Title", "Author", "Year", "Genre")
	fmt.Fprintln(w, strings.Repeat("-", 85))
	for _, b := range books {
		fmt.Fprintln(w, library.PrettyBook(b))
	}
}

func printEmployees(w io.Writer, employees []library.Employee) {
	fmt.Fprintf(w, "%-5s %-30s %-25s\n", "ID", "Name", "Position")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, e := range employees {
		fmt.Fprintln(w, library.PrettyEmployee(e))
	}
}

func printUser(w io.Writer, u *library.User) {
	fmt.Fprintf(w, "%-5s %-30s %-25s\n", "ID", "Username", "Email")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	fmt.Fprintln(w, library.PrettyUser(*u))
}

package library

import (
	"errors"
	"fmt"
)

// Outcomes that are part of normal operation. Callers branch on them with
// errors.Is; they never indicate a broken store.
var (
	ErrNotFound           = errors.New("no matching records")
	ErrNoCriteria         = errors.New("no search criteria provided")
	ErrNoActiveSession    = errors.New("no user is currently logged in")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// ConnectionError reports that the store could not be reached or the
// connection was lost mid-statement or already closed.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connection: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatementError reports that the store rejected a statement: malformed SQL,
// a constraint violation, a type mismatch.
type StatementError struct {
	Query string
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

package library

import "time"

// User is a registered library account. Password holds the bcrypt hash, never
// the plaintext.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Password string  `json:"-"`
	Email    *string `json:"email,omitempty"`
}

// Employee is a member of library staff.
type Employee struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Position *string `json:"position,omitempty"`
}

// Book is a catalog entry. Nil optional fields are stored as NULL.
type Book struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Author          *string `json:"author,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	Genre           *string `json:"genre,omitempty"`
}

// BookInfo is the mutable part of a Book. UpdateInfo writes every field, so a
// nil field clears the column.
type BookInfo struct {
	Author          *string
	PublicationYear *int
	Genre           *string
}

// Session is returned by a successful login and handed back to Logout.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	CreatedAt time.Time

	ended bool
}

// Active reports whether the session has not been logged out yet.
func (s *Session) Active() bool { return s != nil && !s.ended }

// StringPtr and IntPtr build optional field values.
func StringPtr(s string) *string { return &s }

func IntPtr(n int) *int { return &n }

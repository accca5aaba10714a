package library

import (
	"context"
	"fmt"
	"strings"
)

const bookColumns = `id, title, author, publication_year, genre`

// BookManager maintains the catalog.
type BookManager struct {
	gw Gateway
}

func NewBookManager(gw Gateway) *BookManager {
	return &BookManager{gw: gw}
}

// Add inserts a book and returns its id. Nil optional fields are stored as
// NULL.
func (m *BookManager) Add(ctx context.Context, title string, author *string, year *int, genre *string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: book title cannot be empty", ErrInvalidInput)
	}
	ack, err := m.gw.ExecuteWrite(ctx,
		`INSERT INTO books (title, author, publication_year, genre) VALUES (?, ?, ?, ?)`,
		title, nullable(author), nullable(year), nullable(genre))
	if err != nil {
		return 0, fmt.Errorf("add book: %w", err)
	}
	return ack.LastInsertID, nil
}

// UpdateInfo overwrites author, publication year and genre of book id. Every
// column is written: a nil field in info sets it to NULL rather than leaving
// it unchanged. The title is never modified.
func (m *BookManager) UpdateInfo(ctx context.Context, id int64, info BookInfo) error {
	ack, err := m.gw.ExecuteWrite(ctx,
		`UPDATE books SET author = ?, publication_year = ?, genre = ? WHERE id = ?`,
		nullable(info.Author), nullable(info.PublicationYear), nullable(info.Genre), id)
	if err != nil {
		return fmt.Errorf("update book %d: %w", id, err)
	}
	if ack.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}

// Get fetches a single book.
func (m *BookManager) Get(ctx context.Context, id int64) (*Book, error) {
	rows, err := m.gw.ExecuteRead(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return scanBook(rows[0])
}

// Search returns books matching every filter by substring. Without a usable
// filter it returns ErrNoCriteria and issues no query; with filters that match
// nothing it returns ErrNotFound.
func (m *BookManager) Search(ctx context.Context, filters ...SearchFilter) ([]Book, error) {
	pred, err := BuildPredicate(filters...)
	if err != nil {
		return nil, err
	}

	rows, err := m.gw.ExecuteRead(ctx,
		`SELECT `+bookColumns+` FROM books WHERE `+pred.Clause+` ORDER BY id`, pred.Args...)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	books := make([]Book, 0, len(rows))
	for _, r := range rows {
		b, err := scanBook(r)
		if err != nil {
			return nil, fmt.Errorf("search books: %w", err)
		}
		books = append(books, *b)
	}
	return books, nil
}

func scanBook(r Row) (*Book, error) {
	var b Book
	var err error
	if b.ID, err = r.Int64("id"); err != nil {
		return nil, err
	}
	if b.Title, err = r.String("title"); err != nil {
		return nil, err
	}
	if b.Author, err = r.NullString("author"); err != nil {
		return nil, err
	}
	if b.PublicationYear, err = r.NullInt("publication_year"); err != nil {
		return nil, err
	}
	if b.Genre, err = r.NullString("genre"); err != nil {
		return nil, err
	}
	return &b, nil
}

// nullable turns a nil pointer into an untyped nil argument and dereferences
// anything else.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

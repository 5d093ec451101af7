package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

type book struct {
	ID       int64
	Title    string
	AuthorID int64
	Format   string
	Year     int64
}

type author struct {
	ID   int64
	Name string
}

// store wraps the SQLite database behind the resolvers.
type store struct {
	db *sql.DB
}

func openStore(path string) (*store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s := &store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *store) Close() error { return s.db.Close() }

func (s *store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS authors (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS books (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			title     TEXT NOT NULL,
			author_id INTEGER NOT NULL REFERENCES authors(id),
			format    TEXT NOT NULL DEFAULT 'PAPERBACK',
			year      INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM authors`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.seed()
}

func (s *store) seed() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	authors := []string{"Ursula K. Le Guin", "Stanisław Lem", "Octavia E. Butler"}
	ids := make([]int64, len(authors))
	for i, name := range authors {
		res, err := tx.Exec(`INSERT INTO authors (name) VALUES (?)`, name)
		if err != nil {
			return err
		}
		ids[i], _ = res.LastInsertId()
	}

	seedBooks := []book{
		{Title: "The Dispossessed", AuthorID: ids[0], Format: "PAPERBACK", Year: 1974},
		{Title: "The Left Hand of Darkness", AuthorID: ids[0], Format: "HARDCOVER", Year: 1969},
		{Title: "Solaris", AuthorID: ids[1], Format: "PAPERBACK", Year: 1961},
		{Title: "The Cyberiad", AuthorID: ids[1], Format: "EBOOK", Year: 1965},
		{Title: "Kindred", AuthorID: ids[2], Format: "PAPERBACK", Year: 1979},
		{Title: "Parable of the Sower", AuthorID: ids[2], Format: "EBOOK", Year: 1993},
	}
	for _, b := range seedBooks {
		if _, err := tx.Exec(
			`INSERT INTO books (title, author_id, format, year) VALUES (?, ?, ?, ?)`,
			b.Title, b.AuthorID, b.Format, b.Year,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *store) bookByID(ctx context.Context, id int64) (*book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, author_id, format, year FROM books WHERE id = ?`, id)
	var b book
	if err := row.Scan(&b.ID, &b.Title, &b.AuthorID, &b.Format, &b.Year); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (s *store) authorByID(ctx context.Context, id int64) (*author, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM authors WHERE id = ?`, id)
	var a author
	if err := row.Scan(&a.ID, &a.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// booksAfter returns up to limit+1 books with id > after, optionally filtered
// by format. The extra row lets the caller detect a next page.
func (s *store) booksAfter(ctx context.Context, after int64, limit int, format string) ([]book, error) {
	q := `SELECT id, title, author_id, format, year FROM books WHERE id > ?`
	args := []any{after}
	if format != "" {
		q += ` AND format = ?`
		args = append(args, format)
	}
	q += ` ORDER BY id LIMIT ?`
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []book
	for rows.Next() {
		var b book
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &b.Format, &b.Year); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *store) booksByAuthor(ctx context.Context, authorID int64) ([]book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author_id, format, year FROM books WHERE author_id = ? ORDER BY id`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []book
	for rows.Next() {
		var b book
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &b.Format, &b.Year); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// search matches books by title and authors by name, case-insensitively.
func (s *store) search(ctx context.Context, term string) ([]book, []author, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author_id, format, year FROM books WHERE LOWER(title) LIKE ? ORDER BY id`, pattern)
	if err != nil {
		return nil, nil, err
	}
	var books []book
	for rows.Next() {
		var b book
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &b.Format, &b.Year); err != nil {
			rows.Close()
			return nil, nil, err
		}
		books = append(books, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, name FROM authors WHERE LOWER(name) LIKE ? ORDER BY id`, pattern)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var authors []author
	for rows.Next() {
		var a author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, nil, err
		}
		authors = append(authors, a)
	}
	return books, authors, rows.Err()
}

func (s *store) addBook(ctx context.Context, title string, authorID int64, format string, year int64) (*book, error) {
	a, err := s.authorByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("author %d not found", authorID)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (title, author_id, format, year) VALUES (?, ?, ?, ?)`,
		title, authorID, format, year)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.bookByID(ctx, id)
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, google_books_id, title, authors,
	description, page_count, categories, published_date, thumbnail_url, language`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		id            string
		createdAt     string
		updatedAt     string
		googleID      string
		title         string
		authors       string
		description   sql.NullString
		pageCount     int
		categories    sql.NullString
		publishedDate sql.NullString
		thumbnailURL  sql.NullString
		language      sql.NullString
	)

	err := scanner.Scan(
		&id,
		&createdAt,
		&updatedAt,
		&googleID,
		&title,
		&authors,
		&description,
		&pageCount,
		&categories,
		&publishedDate,
		&thumbnailURL,
		&language,
	)
	if err != nil {
		return nil, err
	}

	return decodeBookRow(id, createdAt, updatedAt, googleID, title, authors,
		description, pageCount, categories, publishedDate, thumbnailURL, language)
}

// decodeBookRow assembles a domain.Book from raw column values, shared
// with the joined user_books queries.
func decodeBookRow(id, createdAt, updatedAt, googleID, title, authors string,
	description sql.NullString, pageCount int, categories, publishedDate,
	thumbnailURL, language sql.NullString) (*domain.Book, error) {

	b := domain.Book{
		ID:            id,
		GoogleBooksID: googleID,
		Title:         title,
		PageCount:     pageCount,
	}

	var err error
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(authors), &b.Authors); err != nil {
		return nil, fmt.Errorf("unmarshal authors: %w", err)
	}
	if categories.Valid && categories.String != "" {
		if err := json.Unmarshal([]byte(categories.String), &b.Categories); err != nil {
			return nil, fmt.Errorf("unmarshal categories: %w", err)
		}
	}

	if description.Valid {
		b.Description = description.String
	}
	if publishedDate.Valid {
		b.PublishedDate = publishedDate.String
	}
	if thumbnailURL.Valid {
		b.ThumbnailURL = thumbnailURL.String
	}
	if language.Valid {
		b.Language = language.String
	}

	return &b, nil
}

// UpsertBook inserts a book into the registry, or refreshes the existing
// row keyed by its Google Books volume ID. The stored row's own ID and
// created_at always win; the returned book reflects what is persisted.
func (s *Store) UpsertBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	authorsJSON, err := json.Marshal(book.Authors)
	if err != nil {
		return nil, fmt.Errorf("marshal authors: %w", err)
	}
	categoriesJSON, err := json.Marshal(book.Categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, google_books_id, title, authors,
			description, page_count, categories, published_date, thumbnail_url, language
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (google_books_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			title = excluded.title,
			authors = excluded.authors,
			description = excluded.description,
			page_count = excluded.page_count,
			categories = excluded.categories,
			published_date = excluded.published_date,
			thumbnail_url = excluded.thumbnail_url,
			language = excluded.language`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.GoogleBooksID,
		book.Title,
		string(authorsJSON),
		nullString(book.Description),
		book.PageCount,
		string(categoriesJSON),
		nullString(book.PublishedDate),
		nullString(book.ThumbnailURL),
		nullString(book.Language),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert book: %w", err)
	}

	return s.GetBookByGoogleID(ctx, book.GoogleBooksID)
}

// GetBook retrieves a registry book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookByGoogleID retrieves a registry book by its Google Books volume ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBookByGoogleID(ctx context.Context, googleBooksID string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE google_books_id = ?`, googleBooksID)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns every book in the registry, used to rebuild the
// search index at startup.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

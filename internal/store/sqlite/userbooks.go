package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

// userBookColumns selects the user_books row joined with its registry
// book. Must match the scan order in scanUserBook.
const userBookColumns = `ub.id, ub.created_at, ub.updated_at, ub.user_id, ub.book_id,
	ub.status, ub.current_page, ub.rating, ub.started_on, ub.finished_on, ` + bookJoinColumns

// bookJoinColumns aliases the joined books table.
const bookJoinColumns = `b.id, b.created_at, b.updated_at, b.google_books_id, b.title,
	b.authors, b.description, b.page_count, b.categories, b.published_date,
	b.thumbnail_url, b.language`

const userBookFrom = ` FROM user_books ub JOIN books b ON b.id = ub.book_id`

// scanUserBook scans a joined user_books+books row into a domain.UserBook
// with its Book populated.
func scanUserBook(scanner interface{ Scan(dest ...any) error }) (*domain.UserBook, error) {
	var ub domain.UserBook

	var (
		createdAt  string
		updatedAt  string
		status     string
		rating     sql.NullInt64
		startedOn  sql.NullString
		finishedOn sql.NullString

		// Joined book columns, decoded by hand to keep one scan pass.
		bID            string
		bCreatedAt     string
		bUpdatedAt     string
		bGoogleID      string
		bTitle         string
		bAuthors       string
		bDescription   sql.NullString
		bPageCount     int
		bCategories    sql.NullString
		bPublishedDate sql.NullString
		bThumbnailURL  sql.NullString
		bLanguage      sql.NullString
	)

	err := scanner.Scan(
		&ub.ID,
		&createdAt,
		&updatedAt,
		&ub.UserID,
		&ub.BookID,
		&status,
		&ub.CurrentPage,
		&rating,
		&startedOn,
		&finishedOn,
		&bID,
		&bCreatedAt,
		&bUpdatedAt,
		&bGoogleID,
		&bTitle,
		&bAuthors,
		&bDescription,
		&bPageCount,
		&bCategories,
		&bPublishedDate,
		&bThumbnailURL,
		&bLanguage,
	)
	if err != nil {
		return nil, err
	}

	ub.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	ub.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	ub.Status = domain.ReadingStatus(status)
	ub.Rating = intPtr(rating)
	ub.StartedOn, err = parseNullableTime(startedOn)
	if err != nil {
		return nil, err
	}
	ub.FinishedOn, err = parseNullableTime(finishedOn)
	if err != nil {
		return nil, err
	}

	book, err := decodeBookRow(bID, bCreatedAt, bUpdatedAt, bGoogleID, bTitle, bAuthors,
		bDescription, bPageCount, bCategories, bPublishedDate, bThumbnailURL, bLanguage)
	if err != nil {
		return nil, err
	}
	ub.Book = book

	return &ub, nil
}

// CreateUserBook inserts a collection entry.
// Returns store.ErrAlreadyExists if the user already holds this book;
// the UNIQUE(user_id, book_id) constraint makes the check atomic under
// concurrent adds.
func (s *Store) CreateUserBook(ctx context.Context, ub *domain.UserBook) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_books (
			id, created_at, updated_at, user_id, book_id,
			status, current_page, rating, started_on, finished_on
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ub.ID,
		formatTime(ub.CreatedAt),
		formatTime(ub.UpdatedAt),
		ub.UserID,
		ub.BookID,
		string(ub.Status),
		ub.CurrentPage,
		nullInt(ub.Rating),
		nullTimeString(ub.StartedOn),
		nullTimeString(ub.FinishedOn),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUserBook retrieves a collection entry by ID, scoped to its owner.
// Returns store.ErrNotFound for missing entries and for entries owned by
// someone else.
func (s *Store) GetUserBook(ctx context.Context, userID, id string) (*domain.UserBook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userBookColumns+userBookFrom+` WHERE ub.id = ? AND ub.user_id = ?`,
		id, userID)

	ub, err := scanUserBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ub, nil
}

// GetUserBookByBook retrieves a user's collection entry for a registry book.
// Returns store.ErrNotFound if the book is not in the user's collection.
func (s *Store) GetUserBookByBook(ctx context.Context, userID, bookID string) (*domain.UserBook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userBookColumns+userBookFrom+` WHERE ub.user_id = ? AND ub.book_id = ?`,
		userID, bookID)

	ub, err := scanUserBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ub, nil
}

// UpdateUserBook persists status, progress, rating, and reading dates.
// Returns store.ErrNotFound if the entry does not exist for its owner.
func (s *Store) UpdateUserBook(ctx context.Context, ub *domain.UserBook) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_books SET
			updated_at = ?,
			status = ?,
			current_page = ?,
			rating = ?,
			started_on = ?,
			finished_on = ?
		WHERE id = ? AND user_id = ?`,
		formatTime(ub.UpdatedAt),
		string(ub.Status),
		ub.CurrentPage,
		nullInt(ub.Rating),
		nullTimeString(ub.StartedOn),
		nullTimeString(ub.FinishedOn),
		ub.ID,
		ub.UserID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteUserBook removes a collection entry. Notes, quotes, reviews,
// reading sessions, and shelf memberships go with it via ON DELETE CASCADE.
// Returns store.ErrNotFound if the entry does not exist for its owner.
func (s *Store) DeleteUserBook(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_books WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListUserBooks returns a user's collection, newest first, optionally
// filtered by reading status. An empty status returns everything.
func (s *Store) ListUserBooks(ctx context.Context, userID string, status domain.ReadingStatus) ([]*domain.UserBook, error) {
	query := `SELECT ` + userBookColumns + userBookFrom + ` WHERE ub.user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND ub.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY ub.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userBooks []*domain.UserBook
	for rows.Next() {
		ub, err := scanUserBook(rows)
		if err != nil {
			return nil, err
		}
		userBooks = append(userBooks, ub)
	}
	return userBooks, rows.Err()
}

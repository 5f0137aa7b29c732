package sqlite

import (
	"context"
	"database/sql"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

const quoteColumns = `q.id, q.created_at, q.user_book_id, q.content, q.page_number`

const quoteOwnerJoin = ` FROM quotes q JOIN user_books ub ON ub.id = q.user_book_id`

func scanQuote(scanner interface{ Scan(dest ...any) error }) (*domain.Quote, error) {
	var q domain.Quote

	var (
		createdAt  string
		pageNumber sql.NullInt64
	)

	err := scanner.Scan(&q.ID, &createdAt, &q.UserBookID, &q.Content, &pageNumber)
	if err != nil {
		return nil, err
	}

	q.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	q.PageNumber = intPtr(pageNumber)

	return &q, nil
}

// CreateQuote inserts a quote.
func (s *Store) CreateQuote(ctx context.Context, quote *domain.Quote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, created_at, user_book_id, content, page_number)
		VALUES (?, ?, ?, ?, ?)`,
		quote.ID,
		formatTime(quote.CreatedAt),
		quote.UserBookID,
		quote.Content,
		nullInt(quote.PageNumber),
	)
	return err
}

// GetQuote retrieves a quote by ID, scoped to the owner of its UserBook.
func (s *Store) GetQuote(ctx context.Context, userID, id string) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+quoteOwnerJoin+` WHERE q.id = ? AND ub.user_id = ?`,
		id, userID)

	q, err := scanQuote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// UpdateQuote rewrites a quote's content and page anchor.
// Returns store.ErrNotFound if the quote does not exist.
func (s *Store) UpdateQuote(ctx context.Context, quote *domain.Quote) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE quotes SET content = ?, page_number = ? WHERE id = ?`,
		quote.Content, nullInt(quote.PageNumber), quote.ID)
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

// DeleteQuote removes a quote, scoped to the owner of its UserBook.
// Returns store.ErrNotFound if no owned quote matches.
func (s *Store) DeleteQuote(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM quotes WHERE id = ? AND user_book_id IN
			(SELECT id FROM user_books WHERE user_id = ?)`,
		id, userID)
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

// ListQuotes returns the quotes on a UserBook, oldest first.
func (s *Store) ListQuotes(ctx context.Context, userID, userBookID string) ([]*domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+quoteColumns+quoteOwnerJoin+`
		 WHERE q.user_book_id = ? AND ub.user_id = ?
		 ORDER BY q.created_at`, userBookID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

const noteColumns = `n.id, n.created_at, n.user_book_id, n.content, n.page_number`

// Annotation rows carry no user_id of their own; ownership flows through
// the user_books join, so reads and deletes scope on ub.user_id.
const noteOwnerJoin = ` FROM notes n JOIN user_books ub ON ub.id = n.user_book_id`

func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note

	var (
		createdAt  string
		pageNumber sql.NullInt64
	)

	err := scanner.Scan(&n.ID, &createdAt, &n.UserBookID, &n.Content, &pageNumber)
	if err != nil {
		return nil, err
	}

	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.PageNumber = intPtr(pageNumber)

	return &n, nil
}

// CreateNote inserts a note.
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, created_at, user_book_id, content, page_number)
		VALUES (?, ?, ?, ?, ?)`,
		note.ID,
		formatTime(note.CreatedAt),
		note.UserBookID,
		note.Content,
		nullInt(note.PageNumber),
	)
	return err
}

// GetNote retrieves a note by ID, scoped to the owner of its UserBook.
// Returns store.ErrNotFound for missing notes and for notes on another
// user's books.
func (s *Store) GetNote(ctx context.Context, userID, id string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+noteOwnerJoin+` WHERE n.id = ? AND ub.user_id = ?`,
		id, userID)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// UpdateNote rewrites a note's content and page anchor.
// Returns store.ErrNotFound if the note does not exist.
func (s *Store) UpdateNote(ctx context.Context, note *domain.Note) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET content = ?, page_number = ? WHERE id = ?`,
		note.Content, nullInt(note.PageNumber), note.ID)
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

// DeleteNote removes a note, scoped to the owner of its UserBook.
// Returns store.ErrNotFound if no owned note matches.
func (s *Store) DeleteNote(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM notes WHERE id = ? AND user_book_id IN
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

// ListNotes returns the notes on a UserBook, oldest first.
func (s *Store) ListNotes(ctx context.Context, userID, userBookID string) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+noteOwnerJoin+`
		 WHERE n.user_book_id = ? AND ub.user_id = ?
		 ORDER BY n.created_at`, userBookID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/normalize"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

// shelfColumns is the ordered list of columns selected in shelf queries,
// including the membership count subquery. Must match the scan order in
// scanShelf.
const shelfColumns = `s.id, s.created_at, s.updated_at, s.owner_id, s.name, s.is_default,
	(SELECT COUNT(*) FROM shelf_books sb WHERE sb.shelf_id = s.id) AS book_count`

// scanShelf scans a sql.Row (or sql.Rows via its Scan method) into a domain.Shelf.
func scanShelf(scanner interface{ Scan(dest ...any) error }) (*domain.Shelf, error) {
	var sh domain.Shelf

	var (
		createdAt string
		updatedAt string
		isDefault int
	)

	err := scanner.Scan(
		&sh.ID,
		&createdAt,
		&updatedAt,
		&sh.OwnerID,
		&sh.Name,
		&isDefault,
		&sh.BookCount,
	)
	if err != nil {
		return nil, err
	}

	sh.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sh.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	sh.IsDefault = isDefault != 0

	return &sh, nil
}

// CreateShelf inserts a new shelf. The UNIQUE(owner_id, name_normalized)
// constraint makes name uniqueness an atomic check-and-insert; a
// duplicate name returns store.ErrAlreadyExists.
func (s *Store) CreateShelf(ctx context.Context, shelf *domain.Shelf) error {
	return insertShelf(ctx, s.db, shelf)
}

func insertShelf(ctx context.Context, db execer, shelf *domain.Shelf) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO shelves (id, created_at, updated_at, owner_id, name, name_normalized, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		shelf.ID,
		formatTime(shelf.CreatedAt),
		formatTime(shelf.UpdatedAt),
		shelf.OwnerID,
		shelf.Name,
		normalize.ShelfName(shelf.Name),
		boolToInt(shelf.IsDefault),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetShelf retrieves a shelf by ID, scoped to its owner.
// Returns store.ErrNotFound for missing shelves and for shelves owned by
// someone else.
func (s *Store) GetShelf(ctx context.Context, ownerID, id string) (*domain.Shelf, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shelfColumns+` FROM shelves s WHERE s.id = ? AND s.owner_id = ?`,
		id, ownerID)

	sh, err := scanShelf(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// GetDefaultShelf retrieves a user's protected default shelf.
func (s *Store) GetDefaultShelf(ctx context.Context, ownerID string) (*domain.Shelf, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shelfColumns+` FROM shelves s WHERE s.owner_id = ? AND s.is_default = 1`,
		ownerID)

	sh, err := scanShelf(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// ListShelves returns a user's shelves with membership counts, default
// shelf first, then by creation time.
func (s *Store) ListShelves(ctx context.Context, ownerID string) ([]*domain.Shelf, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shelfColumns+` FROM shelves s WHERE s.owner_id = ?
		 ORDER BY s.is_default DESC, s.created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shelves []*domain.Shelf
	for rows.Next() {
		sh, err := scanShelf(rows)
		if err != nil {
			return nil, err
		}
		shelves = append(shelves, sh)
	}
	return shelves, rows.Err()
}

// UpdateShelf renames a shelf. Returns store.ErrAlreadyExists if the new
// name collides with another shelf of the same owner, store.ErrNotFound
// if the shelf does not exist for its owner.
func (s *Store) UpdateShelf(ctx context.Context, shelf *domain.Shelf) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shelves SET updated_at = ?, name = ?, name_normalized = ?
		WHERE id = ? AND owner_id = ?`,
		formatTime(shelf.UpdatedAt),
		shelf.Name,
		normalize.ShelfName(shelf.Name),
		shelf.ID,
		shelf.OwnerID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

// DeleteShelf removes a shelf; memberships cascade. The member UserBooks
// themselves are untouched.
// Returns store.ErrNotFound if the shelf does not exist for its owner.
func (s *Store) DeleteShelf(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM shelves WHERE id = ? AND owner_id = ?`, id, ownerID)
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

// AddBookToShelf records shelf membership.
// Returns store.ErrAlreadyExists if the book is already on the shelf.
func (s *Store) AddBookToShelf(ctx context.Context, shelfID, userBookID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shelf_books (shelf_id, user_book_id, added_at)
		VALUES (?, ?, ?)`,
		shelfID, userBookID, formatTime(nowUTC()),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// RemoveBookFromShelf removes shelf membership.
// Returns store.ErrNotFound if the book is not on the shelf.
func (s *Store) RemoveBookFromShelf(ctx context.Context, shelfID, userBookID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM shelf_books WHERE shelf_id = ? AND user_book_id = ?`,
		shelfID, userBookID)
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

// ListShelfBooks returns the shelf's member UserBooks with their registry
// books, in the order they were added.
func (s *Store) ListShelfBooks(ctx context.Context, ownerID, shelfID string) ([]*domain.UserBook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userBookColumns+userBookFrom+`
		 JOIN shelf_books sb ON sb.user_book_id = ub.id
		 WHERE sb.shelf_id = ? AND ub.user_id = ?
		 ORDER BY sb.added_at`, shelfID, ownerID)
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

// ListAvailableForShelf returns the user's collection entries not yet on
// the shelf. A single query keeps the snapshot consistent: a book added
// to the shelf mid-listing never appears in both sets.
func (s *Store) ListAvailableForShelf(ctx context.Context, ownerID, shelfID string) ([]*domain.UserBook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userBookColumns+userBookFrom+`
		 WHERE ub.user_id = ?
		   AND ub.id NOT IN (SELECT user_book_id FROM shelf_books WHERE shelf_id = ?)
		 ORDER BY ub.created_at DESC`, ownerID, shelfID)
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

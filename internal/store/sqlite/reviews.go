package sqlite

import (
	"context"
	"database/sql"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

const reviewColumns = `r.id, r.created_at, r.user_book_id, r.content, r.is_public`

const reviewOwnerJoin = ` FROM reviews r JOIN user_books ub ON ub.id = r.user_book_id`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var r domain.Review

	var (
		createdAt string
		isPublic  int
	)

	err := scanner.Scan(&r.ID, &createdAt, &r.UserBookID, &r.Content, &isPublic)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.IsPublic = isPublic != 0

	return &r, nil
}

// CreateReview inserts a review. A UserBook may hold any number of them.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, created_at, user_book_id, content, is_public)
		VALUES (?, ?, ?, ?, ?)`,
		review.ID,
		formatTime(review.CreatedAt),
		review.UserBookID,
		review.Content,
		boolToInt(review.IsPublic),
	)
	return err
}

// GetReview retrieves a review by ID, scoped to the owner of its UserBook.
func (s *Store) GetReview(ctx context.Context, userID, id string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+reviewOwnerJoin+` WHERE r.id = ? AND ub.user_id = ?`,
		id, userID)

	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReview rewrites a review's content and visibility.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) UpdateReview(ctx context.Context, review *domain.Review) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET content = ?, is_public = ? WHERE id = ?`,
		review.Content, boolToInt(review.IsPublic), review.ID)
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

// DeleteReview removes a review, scoped to the owner of its UserBook.
// Returns store.ErrNotFound if no owned review matches.
func (s *Store) DeleteReview(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM reviews WHERE id = ? AND user_book_id IN
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

// ListReviews returns the reviews on a UserBook, oldest first.
func (s *Store) ListReviews(ctx context.Context, userID, userBookID string) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+reviewOwnerJoin+`
		 WHERE r.user_book_id = ? AND ub.user_id = ?
		 ORDER BY r.created_at`, userBookID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// ListPublicReviews returns public reviews across all users, newest
// first, with author and book context for display.
func (s *Store) ListPublicReviews(ctx context.Context, limit, offset int) ([]*domain.PublicReview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.user_book_id, r.content, r.is_public,
		       u.username, b.title, b.id
		FROM reviews r
		JOIN user_books ub ON ub.id = r.user_book_id
		JOIN users u ON u.id = ub.user_id
		JOIN books b ON b.id = ub.book_id
		WHERE r.is_public = 1
		ORDER BY r.created_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.PublicReview
	for rows.Next() {
		var pr domain.PublicReview
		var createdAt string
		var isPublic int

		err := rows.Scan(&pr.ID, &createdAt, &pr.UserBookID, &pr.Content, &isPublic,
			&pr.Username, &pr.BookTitle, &pr.BookID)
		if err != nil {
			return nil, err
		}
		pr.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		pr.IsPublic = isPublic != 0

		reviews = append(reviews, &pr)
	}
	return reviews, rows.Err()
}

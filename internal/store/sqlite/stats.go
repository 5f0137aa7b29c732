package sqlite

import (
	"context"
	"database/sql"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

// GetCollectionStats aggregates a user's collection in two queries: a
// status breakdown and a rating summary.
func (s *Store) GetCollectionStats(ctx context.Context, userID string) (*domain.CollectionStats, error) {
	stats := &domain.CollectionStats{
		BooksByStatus: map[string]int{
			string(domain.StatusWantToRead): 0,
			string(domain.StatusReading):    0,
			string(domain.StatusRead):       0,
		},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM user_books
		WHERE user_id = ? GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.BooksByStatus[status] = count
		stats.TotalBooks += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.CurrentlyReading = stats.BooksByStatus[string(domain.StatusReading)]

	var avgRating sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT AVG(rating), COUNT(rating) FROM user_books
		WHERE user_id = ? AND rating IS NOT NULL`, userID).
		Scan(&avgRating, &stats.RatedBooks)
	if err != nil {
		return nil, err
	}
	if avgRating.Valid {
		stats.AverageRating = avgRating.Float64
	}

	return stats, nil
}

package sqlite

import (
	"context"
	"database/sql"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

const readingSessionColumns = `rs.id, rs.created_at, rs.user_book_id,
	rs.start_page, rs.end_page, rs.started_at, rs.finished_at, rs.notes`

func scanReadingSession(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingSession, error) {
	var rs domain.ReadingSession

	var (
		createdAt  string
		startedAt  string
		finishedAt string
		notes      sql.NullString
	)

	err := scanner.Scan(
		&rs.ID,
		&createdAt,
		&rs.UserBookID,
		&rs.StartPage,
		&rs.EndPage,
		&startedAt,
		&finishedAt,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	rs.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	rs.StartedAt, err = parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	rs.FinishedAt, err = parseTime(finishedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		rs.Notes = notes.String
	}

	return &rs, nil
}

// CreateReadingSession records one sitting with a book.
func (s *Store) CreateReadingSession(ctx context.Context, session *domain.ReadingSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_sessions (
			id, created_at, user_book_id, start_page, end_page,
			started_at, finished_at, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		formatTime(session.CreatedAt),
		session.UserBookID,
		session.StartPage,
		session.EndPage,
		formatTime(session.StartedAt),
		formatTime(session.FinishedAt),
		nullString(session.Notes),
	)
	return err
}

// ListReadingSessions returns a UserBook's sessions, most recent sitting
// first, scoped to the book's owner.
func (s *Store) ListReadingSessions(ctx context.Context, userID, userBookID string) ([]*domain.ReadingSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+readingSessionColumns+`
		 FROM reading_sessions rs
		 JOIN user_books ub ON ub.id = rs.user_book_id
		 WHERE rs.user_book_id = ? AND ub.user_id = ?
		 ORDER BY rs.started_at DESC`, userBookID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ReadingSession
	for rows.Next() {
		rs, err := scanReadingSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rs)
	}
	return sessions, rows.Err()
}

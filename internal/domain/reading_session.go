package domain

import "time"

// ReadingSession records one sitting with a book: the page range covered
// and when it happened. Sessions are auxiliary history - progress truth
// lives on the UserBook, and a failed session write never rolls back a
// progress update.
type ReadingSession struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	UserBookID string    `json:"user_book_id"`
	StartPage  int       `json:"start_page"`
	EndPage    int       `json:"end_page"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Notes      string    `json:"notes,omitempty"`
}

// Validate checks the session's internal consistency.
// End page must not precede start page, and the finish time must not
// precede the start time.
func (s *ReadingSession) Validate() error {
	if s.StartPage < 0 || s.EndPage < s.StartPage {
		return errInvalidSessionPages
	}
	if s.FinishedAt.Before(s.StartedAt) {
		return errInvalidSessionTimes
	}
	return nil
}

// PagesRead returns the number of pages covered in this session.
func (s *ReadingSession) PagesRead() int {
	return s.EndPage - s.StartPage
}

var (
	errInvalidSessionPages = validationError("end page cannot be less than start page")
	errInvalidSessionTimes = validationError("end time cannot be before start time")
)

// validationError is a tiny error type so session validation stays
// dependency-free; services wrap it into a coded domain error.
type validationError string

func (e validationError) Error() string { return string(e) }

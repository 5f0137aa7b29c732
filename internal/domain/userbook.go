package domain

import "time"

// ReadingStatus is a user's relationship to a book in their collection.
type ReadingStatus string

// Reading statuses. Transitions between them are deliberately
// unrestricted: any status may move to any other.
const (
	StatusWantToRead ReadingStatus = "want_to_read"
	StatusReading    ReadingStatus = "reading"
	StatusRead       ReadingStatus = "read"
)

// Valid reports whether s is a known reading status.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusRead:
		return true
	}
	return false
}

// Rating bounds for a UserBook.
const (
	MinRating = 1
	MaxRating = 5
)

// UserBook is a user's personal copy of a catalog Book: status, reading
// position, and rating. Exactly one exists per (user, book) pair; deleting
// it cascades to the book's notes, quotes, reviews, reading sessions, and
// shelf memberships.
type UserBook struct {
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	BookID      string        `json:"book_id"`
	Status      ReadingStatus `json:"status"`
	CurrentPage int           `json:"current_page"`
	Rating      *int          `json:"rating,omitempty"` // 1-5, nil until rated
	StartedOn   *time.Time    `json:"started_on,omitempty"`
	FinishedOn  *time.Time    `json:"finished_on,omitempty"`

	// Book is the denormalized catalog record, populated on reads.
	Book *Book `json:"book,omitempty"`
}

// ValidPage reports whether page is a legal reading position for a book
// with the given page count.
func ValidPage(page, pageCount int) bool {
	return page >= 0 && page <= pageCount
}

// ValidRating reports whether r is within the allowed 1-5 range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

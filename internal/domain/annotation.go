package domain

import "time"

// Note is free-text commentary attached to a UserBook, optionally
// anchored to a page.
type Note struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	UserBookID string    `json:"user_book_id"`
	Content    string    `json:"content"`
	PageNumber *int      `json:"page_number,omitempty"`
}

// Quote is a passage captured from a book, optionally anchored to a
// page.
type Quote struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	UserBookID string    `json:"user_book_id"`
	Content    string    `json:"content"`
	PageNumber *int      `json:"page_number,omitempty"`
}

// Review is a user's written opinion of a book. Public reviews are
// readable by other users as a read-only projection; private reviews are
// visible only to their author. A UserBook may carry any number of
// reviews.
type Review struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	UserBookID string    `json:"user_book_id"`
	Content    string    `json:"content"`
	IsPublic   bool      `json:"is_public"`
}

// PublicReview is the cross-user projection of a public Review, carrying
// just enough context to display it outside the author's collection.
type PublicReview struct {
	Review
	Username  string `json:"username"`
	BookTitle string `json:"book_title"`
	BookID    string `json:"book_id"`
}

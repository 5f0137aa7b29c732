// Package domain contains the core business entities and domain logic for the Pagemark reading tracker.
package domain

import "time"

// Book is a canonical bibliographic record resolved from the Google Books
// catalog. Books are shared across users: one row per external volume,
// keyed by GoogleBooksID, created on first resolution and never deleted
// while any UserBook references it.
type Book struct {
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ID            string    `json:"id"`
	GoogleBooksID string    `json:"google_books_id"` // External catalog id, unique and immutable
	Title         string    `json:"title"`
	Authors       []string  `json:"authors"` // Ordered as the catalog lists them
	Description   string    `json:"description,omitempty"`
	PageCount     int       `json:"page_count"`
	Categories    []string  `json:"categories,omitempty"`
	PublishedDate string    `json:"published_date,omitempty"` // Catalog date string, may be year-only
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	Language      string    `json:"language,omitempty"`
}

// PrimaryAuthor returns the first listed author, or empty when unknown.
func (b *Book) PrimaryAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

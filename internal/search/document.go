// Package search provides full-text search over the book registry using
// Bleve. It lets users find books already resolved into Pagemark without a
// round trip to the external catalog.
package search

import "github.com/pagemarkapp/pagemark-server/internal/domain"

// Document is the indexed representation of a registry book.
type Document struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Categories []string `json:"categories,omitempty"`
	Language  string   `json:"language,omitempty"`
	CreatedAt int64    `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
	}
	if len(d.Authors) > 0 {
		m["authors"] = d.Authors
	}
	if len(d.Categories) > 0 {
		m["categories"] = d.Categories
	}
	if d.Language != "" {
		m["language"] = d.Language
	}
	return m
}

// BookToDocument converts a registry book to its indexed form.
func BookToDocument(book *domain.Book) *Document {
	return &Document{
		ID:         book.ID,
		Title:      book.Title,
		Authors:    book.Authors,
		Categories: book.Categories,
		Language:   book.Language,
		CreatedAt:  book.CreatedAt.UnixMilli(),
	}
}

package api

import (
	"time"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

// Shared response DTOs and their mappers. Resource-specific DTOs live
// next to their handlers; these are the ones several resources return.

// MessageResponse contains a simple confirmation message. Delete-style
// operations return it so the response envelope always carries data.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable confirmation"`
}

// MessageOutput wraps MessageResponse for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// BookResponse contains catalog book data in API responses.
type BookResponse struct {
	ID            string    `json:"id" doc:"Internal book ID"`
	GoogleBooksID string    `json:"google_books_id" doc:"Google Books volume ID"`
	Title         string    `json:"title" doc:"Book title"`
	Authors       []string  `json:"authors" doc:"Authors in catalog order"`
	Description   string    `json:"description,omitempty" doc:"Book description"`
	PageCount     int       `json:"page_count" doc:"Number of pages"`
	Categories    []string  `json:"categories,omitempty" doc:"Subject categories"`
	PublishedDate string    `json:"published_date,omitempty" doc:"Publication date, may be year-only"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty" doc:"Cover thumbnail URL"`
	Language      string    `json:"language,omitempty" doc:"ISO language code"`
	CreatedAt     time.Time `json:"created_at" doc:"When the book entered the registry"`
}

// UserBookResponse contains a collection entry in API responses.
type UserBookResponse struct {
	ID              string        `json:"id" doc:"Collection entry ID"`
	BookID          string        `json:"book_id" doc:"Registry book ID"`
	Status          string        `json:"status" doc:"Reading status" enum:"want_to_read,reading,read"`
	CurrentPage     int           `json:"current_page" doc:"Current reading position"`
	PercentComplete float64       `json:"percent_complete" doc:"Progress percentage in [0, 100]"`
	Rating          *int          `json:"rating,omitempty" doc:"Star rating 1-5, absent until rated"`
	StartedOn       *time.Time    `json:"started_on,omitempty" doc:"When reading started"`
	FinishedOn      *time.Time    `json:"finished_on,omitempty" doc:"When reading finished"`
	CreatedAt       time.Time     `json:"created_at" doc:"When the book was added"`
	UpdatedAt       time.Time     `json:"updated_at" doc:"Last modification time"`
	Book            *BookResponse `json:"book,omitempty" doc:"Denormalized book record"`
}

// ShelfResponse contains shelf data in API responses.
type ShelfResponse struct {
	ID        string    `json:"id" doc:"Shelf ID"`
	Name      string    `json:"name" doc:"Shelf name, unique per user"`
	IsDefault bool      `json:"is_default" doc:"Whether this is the protected default shelf"`
	BookCount int       `json:"book_count" doc:"Number of books on the shelf"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last modification time"`
}

func mapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func mapBookResponse(b *domain.Book) *BookResponse {
	if b == nil {
		return nil
	}
	return &BookResponse{
		ID:            b.ID,
		GoogleBooksID: b.GoogleBooksID,
		Title:         b.Title,
		Authors:       b.Authors,
		Description:   b.Description,
		PageCount:     b.PageCount,
		Categories:    b.Categories,
		PublishedDate: b.PublishedDate,
		ThumbnailURL:  b.ThumbnailURL,
		Language:      b.Language,
		CreatedAt:     b.CreatedAt,
	}
}

func mapUserBookResponse(ub *domain.UserBook) UserBookResponse {
	pageCount := 0
	if ub.Book != nil {
		pageCount = ub.Book.PageCount
	}
	return UserBookResponse{
		ID:              ub.ID,
		BookID:          ub.BookID,
		Status:          string(ub.Status),
		CurrentPage:     ub.CurrentPage,
		PercentComplete: domain.PercentComplete(ub.CurrentPage, pageCount),
		Rating:          ub.Rating,
		StartedOn:       ub.StartedOn,
		FinishedOn:      ub.FinishedOn,
		CreatedAt:       ub.CreatedAt,
		UpdatedAt:       ub.UpdatedAt,
		Book:            mapBookResponse(ub.Book),
	}
}

func mapUserBookResponses(ubs []*domain.UserBook) []UserBookResponse {
	out := make([]UserBookResponse, len(ubs))
	for i, ub := range ubs {
		out[i] = mapUserBookResponse(ub)
	}
	return out
}

func mapShelfResponse(sh *domain.Shelf) ShelfResponse {
	return ShelfResponse{
		ID:        sh.ID,
		Name:      sh.Name,
		IsDefault: sh.IsDefault,
		BookCount: sh.BookCount,
		CreatedAt: sh.CreatedAt,
		UpdatedAt: sh.UpdatedAt,
	}
}

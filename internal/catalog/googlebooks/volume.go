package googlebooks

import (
	"strings"
	"time"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

// Wire types for the volumes API. Only the fields we consume are declared.

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	Description   string     `json:"description"`
	PageCount     int        `json:"pageCount"`
	Categories    []string   `json:"categories"`
	PublishedDate string     `json:"publishedDate"`
	Language      string     `json:"language"`
	ImageLinks    imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// toDomain converts a catalog volume into a registry book candidate.
// The caller assigns the internal ID; timestamps are set to now.
func (v *volume) toDomain(now time.Time) *domain.Book {
	info := &v.VolumeInfo

	thumbnail := info.ImageLinks.Thumbnail
	if thumbnail == "" {
		thumbnail = info.ImageLinks.SmallThumbnail
	}
	// The API hands out http:// image links; upgrade them.
	thumbnail = strings.Replace(thumbnail, "http://", "https://", 1)

	return &domain.Book{
		CreatedAt:     now,
		UpdatedAt:     now,
		GoogleBooksID: v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   normalizeDescription(info.Description),
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		PublishedDate: info.PublishedDate,
		ThumbnailURL:  thumbnail,
		Language:      info.Language,
	}
}

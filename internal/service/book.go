package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pagemarkapp/pagemark-server/internal/catalog/googlebooks"
	"github.com/pagemarkapp/pagemark-server/internal/domain"
	domainerrors "github.com/pagemarkapp/pagemark-server/internal/errors"
	"github.com/pagemarkapp/pagemark-server/internal/id"
	"github.com/pagemarkapp/pagemark-server/internal/search"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

// Catalog is the external volume source. Satisfied by
// *googlebooks.Client; an interface so tests can stub the upstream.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]*domain.Book, error)
	GetVolume(ctx context.Context, volumeID string) (*domain.Book, error)
}

// BookService resolves catalog volumes into the shared registry and
// serves local search over it.
type BookService struct {
	store   store.Store
	catalog Catalog
	index   *search.Index
	logger  *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st store.Store, catalog Catalog, index *search.Index, logger *slog.Logger) *BookService {
	return &BookService{
		store:   st,
		catalog: catalog,
		index:   index,
		logger:  logger,
	}
}

// SearchCatalog queries the external catalog. Results are not persisted;
// a book only enters the registry when someone adds it.
func (s *BookService) SearchCatalog(ctx context.Context, query string, limit int) ([]*domain.Book, error) {
	if query == "" {
		return nil, domainerrors.Validation("search query cannot be empty")
	}

	books, err := s.catalog.Search(ctx, query, limit)
	if err != nil {
		return nil, mapCatalogError(err)
	}
	return books, nil
}

// Resolve turns a Google Books volume ID into a registry book. A registry
// hit answers locally; a miss fetches the volume, assigns an internal ID,
// upserts, and indexes it for local search. Concurrent resolutions of the
// same volume converge on one row via the upsert.
func (s *BookService) Resolve(ctx context.Context, googleBooksID string) (*domain.Book, error) {
	if googleBooksID == "" {
		return nil, domainerrors.Validation("google_books_id is required")
	}

	book, err := s.store.GetBookByGoogleID(ctx, googleBooksID)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get book by google id: %w", err)
	}

	candidate, err := s.catalog.GetVolume(ctx, googleBooksID)
	if err != nil {
		return nil, mapCatalogError(err)
	}

	candidate.ID, err = id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book, err = s.store.UpsertBook(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("upsert book: %w", err)
	}

	if err := s.index.IndexBook(search.BookToDocument(book)); err != nil {
		// Search lags behind the registry until the next reindex.
		s.logger.Warn("failed to index book",
			"book_id", book.ID,
			"error", err,
		)
	}

	s.logger.Info("book resolved into registry",
		"book_id", book.ID,
		"google_books_id", googleBooksID,
		"title", book.Title,
	)

	return book, nil
}

// GetBook retrieves a registry book by internal ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// SearchLocal searches the registry index. Unlike SearchCatalog this
// never talks to the upstream, so it works offline and under quota.
func (s *BookService) SearchLocal(ctx context.Context, params search.Params) (*search.Result, error) {
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("local search: %w", err)
	}
	return result, nil
}

// ReindexAll rebuilds the search index from the registry, used at
// startup after a mapping change.
func (s *BookService) ReindexAll(ctx context.Context) error {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}

	docs := make([]*search.Document, len(books))
	for i, b := range books {
		docs[i] = search.BookToDocument(b)
	}
	if err := s.index.IndexBooks(docs); err != nil {
		return fmt.Errorf("index books: %w", err)
	}

	s.logger.Info("search index rebuilt", "count", len(docs))
	return nil
}

// IndexedBooks returns the number of books in the local search index.
func (s *BookService) IndexedBooks() (uint64, error) {
	return s.index.DocumentCount()
}

// mapCatalogError translates catalog sentinels into coded domain errors.
// The upstream being down is the caller's 502, not a 500: their own data
// is intact.
func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, googlebooks.ErrNotFound):
		return domainerrors.NotFound("volume not found in catalog")
	case errors.Is(err, googlebooks.ErrUnavailable):
		return domainerrors.Upstream("book catalog is currently unavailable").WithCause(err)
	default:
		return err
	}
}

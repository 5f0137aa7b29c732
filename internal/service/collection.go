package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	domainerrors "github.com/pagemarkapp/pagemark-server/internal/errors"
	"github.com/pagemarkapp/pagemark-server/internal/id"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

// CollectionService manages a user's books: membership, status, progress,
// ratings, and reading history.
type CollectionService struct {
	store   store.Store
	books   *BookService
	shelves *ShelfService
	logger  *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(st store.Store, books *BookService, shelves *ShelfService, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:   st,
		books:   books,
		shelves: shelves,
		logger:  logger,
	}
}

// Add resolves a catalog volume and places it in the user's collection.
// A book can be held at most once per user; a second add conflicts even
// under concurrent requests, settled by the store's unique constraint.
func (s *CollectionService) Add(ctx context.Context, userID, googleBooksID string, status domain.ReadingStatus) (*domain.UserBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if status == "" {
		status = domain.StatusWantToRead
	}
	if !status.Valid() {
		return nil, domainerrors.Validationf("invalid reading status %q", status)
	}

	book, err := s.books.Resolve(ctx, googleBooksID)
	if err != nil {
		return nil, err
	}

	ubID, err := id.Generate("ub")
	if err != nil {
		return nil, fmt.Errorf("generate user book ID: %w", err)
	}

	now := time.Now()
	ub := &domain.UserBook{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        ubID,
		UserID:    userID,
		BookID:    book.ID,
		Status:    status,
	}
	if status == domain.StatusReading {
		started := now
		ub.StartedOn = &started
	}

	if err := s.store.CreateUserBook(ctx, ub); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("book is already in your collection")
		}
		return nil, fmt.Errorf("create user book: %w", err)
	}
	ub.Book = book

	// Membership on the default shelf is best-effort: the add has already
	// committed, and the shelf view heals on the next add.
	if err := s.shelves.AddToDefaultShelf(ctx, userID, ubID); err != nil {
		s.logger.Warn("failed to add book to default shelf",
			"user_book_id", ubID,
			"user_id", userID,
			"error", err,
		)
	}

	s.logger.Info("book added to collection",
		"user_book_id", ubID,
		"user_id", userID,
		"book_id", book.ID,
		"status", status,
	)

	return ub, nil
}

// Get retrieves a collection entry. Another user's entry reports not
// found.
func (s *CollectionService) Get(ctx context.Context, userID, userBookID string) (*domain.UserBook, error) {
	ub, err := s.store.GetUserBook(ctx, userID, userBookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found in collection")
		}
		return nil, fmt.Errorf("get user book: %w", err)
	}
	return ub, nil
}

// List returns the user's collection, optionally filtered by status.
func (s *CollectionService) List(ctx context.Context, userID string, status domain.ReadingStatus) ([]*domain.UserBook, error) {
	if status != "" && !status.Valid() {
		return nil, domainerrors.Validationf("invalid reading status %q", status)
	}
	userBooks, err := s.store.ListUserBooks(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list user books: %w", err)
	}
	return userBooks, nil
}

// SetStatus moves a collection entry to a new reading status. Any status
// may move to any other. Entering reading stamps StartedOn; entering read
// stamps FinishedOn and completes progress; both stamps are kept on
// revisits.
func (s *CollectionService) SetStatus(ctx context.Context, userID, userBookID string, status domain.ReadingStatus) (*domain.UserBook, error) {
	if !status.Valid() {
		return nil, domainerrors.Validationf("invalid reading status %q", status)
	}

	ub, err := s.Get(ctx, userID, userBookID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ub.Status = status
	ub.UpdatedAt = now

	switch status {
	case domain.StatusReading:
		if ub.StartedOn == nil {
			started := now
			ub.StartedOn = &started
		}
	case domain.StatusRead:
		if ub.FinishedOn == nil {
			finished := now
			ub.FinishedOn = &finished
		}
		if ub.Book != nil && ub.Book.PageCount > 0 {
			ub.CurrentPage = ub.Book.PageCount
		}
	}

	if err := s.store.UpdateUserBook(ctx, ub); err != nil {
		return nil, fmt.Errorf("update user book: %w", err)
	}

	s.logger.Info("reading status changed",
		"user_book_id", userBookID,
		"user_id", userID,
		"status", status,
	)

	return ub, nil
}

// UpdateProgress moves the reading position. A page past the book's page
// count (or negative) is rejected. Forward movement on a want-to-read
// book promotes it to reading; reaching the final page marks it read.
//
// A reading session recording the movement is written best-effort: a
// session failure is logged and never rolls back the committed progress.
func (s *CollectionService) UpdateProgress(ctx context.Context, userID, userBookID string, page int) (*domain.UserBook, error) {
	ub, err := s.Get(ctx, userID, userBookID)
	if err != nil {
		return nil, err
	}

	pageCount := 0
	if ub.Book != nil {
		pageCount = ub.Book.PageCount
	}
	if !domain.ValidPage(page, pageCount) {
		return nil, domainerrors.Validationf("page must be between 0 and %d", pageCount)
	}

	previousPage := ub.CurrentPage
	now := time.Now()
	ub.CurrentPage = page
	ub.UpdatedAt = now

	if page > 0 && ub.Status == domain.StatusWantToRead {
		ub.Status = domain.StatusReading
		if ub.StartedOn == nil {
			started := now
			ub.StartedOn = &started
		}
	}
	if pageCount > 0 && page == pageCount {
		ub.Status = domain.StatusRead
		if ub.FinishedOn == nil {
			finished := now
			ub.FinishedOn = &finished
		}
	}

	if err := s.store.UpdateUserBook(ctx, ub); err != nil {
		return nil, fmt.Errorf("update user book: %w", err)
	}

	if page > previousPage {
		s.recordSession(ctx, ub, previousPage, page, now)
	}

	return ub, nil
}

// recordSession writes the auto-generated session for a progress update.
// Failures are logged only; progress truth lives on the UserBook.
func (s *CollectionService) recordSession(ctx context.Context, ub *domain.UserBook, startPage, endPage int, now time.Time) {
	sessionID, err := id.Generate("rs")
	if err != nil {
		s.logger.Warn("failed to generate session ID", "error", err)
		return
	}

	session := &domain.ReadingSession{
		CreatedAt:  now,
		ID:         sessionID,
		UserBookID: ub.ID,
		StartPage:  startPage,
		EndPage:    endPage,
		StartedAt:  now,
		FinishedAt: now,
	}
	if err := s.store.CreateReadingSession(ctx, session); err != nil {
		s.logger.Warn("failed to record reading session",
			"user_book_id", ub.ID,
			"error", err,
		)
	}
}

// LogSession records an explicit sitting with start/end pages and times.
// Unlike the auto-session from UpdateProgress it carries the reader's own
// timestamps and notes, and it also advances progress when the session
// ends past the current page.
func (s *CollectionService) LogSession(ctx context.Context, userID string, session *domain.ReadingSession) (*domain.ReadingSession, error) {
	ub, err := s.Get(ctx, userID, session.UserBookID)
	if err != nil {
		return nil, err
	}

	if err := session.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}
	pageCount := 0
	if ub.Book != nil {
		pageCount = ub.Book.PageCount
	}
	if !domain.ValidPage(session.EndPage, pageCount) {
		return nil, domainerrors.Validationf("end page must be between 0 and %d", pageCount)
	}

	sessionID, err := id.Generate("rs")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}
	session.ID = sessionID
	session.CreatedAt = time.Now()

	if err := s.store.CreateReadingSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create reading session: %w", err)
	}

	if session.EndPage > ub.CurrentPage {
		if _, err := s.UpdateProgress(ctx, userID, ub.ID, session.EndPage); err != nil {
			s.logger.Warn("failed to advance progress from session",
				"user_book_id", ub.ID,
				"error", err,
			)
		}
	}

	return session, nil
}

// ListSessions returns a collection entry's reading history.
func (s *CollectionService) ListSessions(ctx context.Context, userID, userBookID string) ([]*domain.ReadingSession, error) {
	if _, err := s.Get(ctx, userID, userBookID); err != nil {
		return nil, err
	}
	sessions, err := s.store.ListReadingSessions(ctx, userID, userBookID)
	if err != nil {
		return nil, fmt.Errorf("list reading sessions: %w", err)
	}
	return sessions, nil
}

// SetRating rates a collection entry 1-5, or clears the rating with nil.
func (s *CollectionService) SetRating(ctx context.Context, userID, userBookID string, rating *int) (*domain.UserBook, error) {
	if rating != nil && !domain.ValidRating(*rating) {
		return nil, domainerrors.Validationf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}

	ub, err := s.Get(ctx, userID, userBookID)
	if err != nil {
		return nil, err
	}

	ub.Rating = rating
	ub.UpdatedAt = time.Now()

	if err := s.store.UpdateUserBook(ctx, ub); err != nil {
		return nil, fmt.Errorf("update user book: %w", err)
	}

	return ub, nil
}

// Remove deletes a collection entry. Its notes, quotes, reviews, reading
// sessions, and shelf memberships go with it; the registry book stays for
// other users.
func (s *CollectionService) Remove(ctx context.Context, userID, userBookID string) error {
	if err := s.store.DeleteUserBook(ctx, userID, userBookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found in collection")
		}
		return fmt.Errorf("delete user book: %w", err)
	}

	s.logger.Info("book removed from collection",
		"user_book_id", userBookID,
		"user_id", userID,
	)
	return nil
}

// Statistics aggregates the user's collection.
func (s *CollectionService) Statistics(ctx context.Context, userID string) (*domain.CollectionStats, error) {
	stats, err := s.store.GetCollectionStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get collection stats: %w", err)
	}
	return stats, nil
}

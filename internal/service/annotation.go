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
	"github.com/pagemarkapp/pagemark-server/internal/normalize"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

// AnnotationService manages notes, quotes, and reviews on collection
// entries. Everything is scoped through the owning UserBook, so another
// user's annotations are indistinguishable from missing ones.
type AnnotationService struct {
	store      store.Store
	collection *CollectionService
	logger     *slog.Logger
}

// NewAnnotationService creates a new annotation service.
func NewAnnotationService(st store.Store, collection *CollectionService, logger *slog.Logger) *AnnotationService {
	return &AnnotationService{
		store:      st,
		collection: collection,
		logger:     logger,
	}
}

// validateContent cleans annotation text and rejects content that is blank
// once the whitespace is gone.
func validateContent(content string) (string, error) {
	cleaned, ok := normalize.Whitespace(content)
	if !ok {
		return "", domainerrors.Validation("content cannot be empty")
	}
	return cleaned, nil
}

// validatePage checks an optional page anchor against the owning book.
func validatePage(page *int, ub *domain.UserBook) error {
	if page == nil {
		return nil
	}
	pageCount := 0
	if ub.Book != nil {
		pageCount = ub.Book.PageCount
	}
	if !domain.ValidPage(*page, pageCount) {
		return domainerrors.Validationf("page must be between 0 and %d", pageCount)
	}
	return nil
}

// CreateNote attaches a note to one of the user's collection entries.
func (s *AnnotationService) CreateNote(ctx context.Context, userID, userBookID, content string, page *int) (*domain.Note, error) {
	ub, err := s.collection.Get(ctx, userID, userBookID)
	if err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}
	if err := validatePage(page, ub); err != nil {
		return nil, err
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}
	note := &domain.Note{
		CreatedAt:  time.Now(),
		ID:         noteID,
		UserBookID: userBookID,
		Content:    content,
		PageNumber: page,
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// GetNote retrieves one of the user's notes.
func (s *AnnotationService) GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, userID, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// UpdateNote replaces a note's content and page anchor.
func (s *AnnotationService) UpdateNote(ctx context.Context, userID, noteID, content string, page *int) (*domain.Note, error) {
	note, err := s.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	ub, err := s.collection.Get(ctx, userID, note.UserBookID)
	if err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}
	if err := validatePage(page, ub); err != nil {
		return nil, err
	}

	note.Content = content
	note.PageNumber = page
	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// DeleteNote removes one of the user's notes.
func (s *AnnotationService) DeleteNote(ctx context.Context, userID, noteID string) error {
	if err := s.store.DeleteNote(ctx, userID, noteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("note not found")
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// ListNotes returns the notes on a collection entry in creation order.
func (s *AnnotationService) ListNotes(ctx context.Context, userID, userBookID string) ([]*domain.Note, error) {
	if _, err := s.collection.Get(ctx, userID, userBookID); err != nil {
		return nil, err
	}
	notes, err := s.store.ListNotes(ctx, userID, userBookID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// CreateQuote captures a passage from one of the user's collection
// entries.
func (s *AnnotationService) CreateQuote(ctx context.Context, userID, userBookID, content string, page *int) (*domain.Quote, error) {
	ub, err := s.collection.Get(ctx, userID, userBookID)
	if err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}
	if err := validatePage(page, ub); err != nil {
		return nil, err
	}

	quoteID, err := id.Generate("quote")
	if err != nil {
		return nil, fmt.Errorf("generate quote ID: %w", err)
	}
	quote := &domain.Quote{
		CreatedAt:  time.Now(),
		ID:         quoteID,
		UserBookID: userBookID,
		Content:    content,
		PageNumber: page,
	}
	if err := s.store.CreateQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	return quote, nil
}

// GetQuote retrieves one of the user's quotes.
func (s *AnnotationService) GetQuote(ctx context.Context, userID, quoteID string) (*domain.Quote, error) {
	quote, err := s.store.GetQuote(ctx, userID, quoteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("quote not found")
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return quote, nil
}

// UpdateQuote replaces a quote's content and page anchor.
func (s *AnnotationService) UpdateQuote(ctx context.Context, userID, quoteID, content string, page *int) (*domain.Quote, error) {
	quote, err := s.GetQuote(ctx, userID, quoteID)
	if err != nil {
		return nil, err
	}
	ub, err := s.collection.Get(ctx, userID, quote.UserBookID)
	if err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}
	if err := validatePage(page, ub); err != nil {
		return nil, err
	}

	quote.Content = content
	quote.PageNumber = page
	if err := s.store.UpdateQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("update quote: %w", err)
	}
	return quote, nil
}

// DeleteQuote removes one of the user's quotes.
func (s *AnnotationService) DeleteQuote(ctx context.Context, userID, quoteID string) error {
	if err := s.store.DeleteQuote(ctx, userID, quoteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("quote not found")
		}
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// ListQuotes returns the quotes on a collection entry in creation order.
func (s *AnnotationService) ListQuotes(ctx context.Context, userID, userBookID string) ([]*domain.Quote, error) {
	if _, err := s.collection.Get(ctx, userID, userBookID); err != nil {
		return nil, err
	}
	quotes, err := s.store.ListQuotes(ctx, userID, userBookID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// CreateReview writes a review of one of the user's collection entries.
// An entry may carry any number of reviews; visibility is per-review.
func (s *AnnotationService) CreateReview(ctx context.Context, userID, userBookID, content string, isPublic bool) (*domain.Review, error) {
	if _, err := s.collection.Get(ctx, userID, userBookID); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	reviewID, err := id.Generate("review")
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}
	review := &domain.Review{
		CreatedAt:  time.Now(),
		ID:         reviewID,
		UserBookID: userBookID,
		Content:    content,
		IsPublic:   isPublic,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// GetReview retrieves one of the user's own reviews, public or private.
func (s *AnnotationService) GetReview(ctx context.Context, userID, reviewID string) (*domain.Review, error) {
	review, err := s.store.GetReview(ctx, userID, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("review not found")
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// UpdateReview replaces a review's content and visibility.
func (s *AnnotationService) UpdateReview(ctx context.Context, userID, reviewID, content string, isPublic bool) (*domain.Review, error) {
	review, err := s.GetReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}

	review.Content = content
	review.IsPublic = isPublic
	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

// DeleteReview removes one of the user's reviews.
func (s *AnnotationService) DeleteReview(ctx context.Context, userID, reviewID string) error {
	if err := s.store.DeleteReview(ctx, userID, reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("review not found")
		}
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// ListReviews returns the user's reviews on a collection entry in
// creation order.
func (s *AnnotationService) ListReviews(ctx context.Context, userID, userBookID string) ([]*domain.Review, error) {
	if _, err := s.collection.Get(ctx, userID, userBookID); err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx, userID, userBookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

const (
	defaultPublicReviewLimit = 20
	maxPublicReviewLimit     = 100
)

// ListPublicReviews returns the newest public reviews across all users.
func (s *AnnotationService) ListPublicReviews(ctx context.Context, limit, offset int) ([]*domain.PublicReview, error) {
	if limit <= 0 {
		limit = defaultPublicReviewLimit
	}
	if limit > maxPublicReviewLimit {
		limit = maxPublicReviewLimit
	}
	if offset < 0 {
		offset = 0
	}
	reviews, err := s.store.ListPublicReviews(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list public reviews: %w", err)
	}
	return reviews, nil
}

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

// ShelfService orchestrates shelf operations with ownership enforcement
// and default-shelf protection.
type ShelfService struct {
	store  store.Store
	logger *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(st store.Store, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:  st,
		logger: logger,
	}
}

// DefaultShelfFor builds the protected "All Books" shelf for a new
// account. It does not persist the shelf; registration inserts it in the
// same transaction as the user row.
func (s *ShelfService) DefaultShelfFor(ownerID string) (*domain.Shelf, error) {
	shelfID, err := id.Generate("shelf")
	if err != nil {
		return nil, fmt.Errorf("generate shelf ID: %w", err)
	}

	now := time.Now()
	return &domain.Shelf{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        shelfID,
		OwnerID:   ownerID,
		Name:      domain.DefaultShelfName,
		IsDefault: true,
	}, nil
}

// CreateShelf creates a new shelf for the user. Names are unique per user
// after case folding and whitespace collapse.
func (s *ShelfService) CreateShelf(ctx context.Context, ownerID, name string) (*domain.Shelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimmed, ok := normalize.Whitespace(name)
	if !ok {
		return nil, domainerrors.Validation("shelf name cannot be empty")
	}

	shelfID, err := id.Generate("shelf")
	if err != nil {
		return nil, fmt.Errorf("generate shelf ID: %w", err)
	}

	now := time.Now()
	shelf := &domain.Shelf{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        shelfID,
		OwnerID:   ownerID,
		Name:      trimmed,
	}

	if err := s.store.CreateShelf(ctx, shelf); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("a shelf named %q already exists", trimmed)
		}
		return nil, fmt.Errorf("create shelf: %w", err)
	}

	s.logger.Info("shelf created",
		"shelf_id", shelfID,
		"owner_id", ownerID,
		"name", trimmed,
	)

	return shelf, nil
}

// GetShelf retrieves a shelf by ID. Another user's shelf reports not
// found.
func (s *ShelfService) GetShelf(ctx context.Context, ownerID, shelfID string) (*domain.Shelf, error) {
	shelf, err := s.store.GetShelf(ctx, ownerID, shelfID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("shelf not found")
		}
		return nil, fmt.Errorf("get shelf: %w", err)
	}
	return shelf, nil
}

// ListShelves returns the user's shelves, default first.
func (s *ShelfService) ListShelves(ctx context.Context, ownerID string) ([]*domain.Shelf, error) {
	shelves, err := s.store.ListShelves(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list shelves: %w", err)
	}
	return shelves, nil
}

// RenameShelf renames a shelf. The default shelf is immutable.
func (s *ShelfService) RenameShelf(ctx context.Context, ownerID, shelfID, name string) (*domain.Shelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimmed, ok := normalize.Whitespace(name)
	if !ok {
		return nil, domainerrors.Validation("shelf name cannot be empty")
	}

	shelf, err := s.GetShelf(ctx, ownerID, shelfID)
	if err != nil {
		return nil, err
	}
	if shelf.IsDefault {
		return nil, domainerrors.Forbidden("the default shelf cannot be renamed")
	}

	shelf.Name = trimmed
	shelf.UpdatedAt = time.Now()

	if err := s.store.UpdateShelf(ctx, shelf); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("a shelf named %q already exists", trimmed)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("shelf not found")
		}
		return nil, fmt.Errorf("update shelf: %w", err)
	}

	s.logger.Info("shelf renamed",
		"shelf_id", shelfID,
		"owner_id", ownerID,
		"name", trimmed,
	)

	return shelf, nil
}

// DeleteShelf removes a shelf and its memberships. The member books stay
// in the collection. The default shelf is protected.
func (s *ShelfService) DeleteShelf(ctx context.Context, ownerID, shelfID string) error {
	shelf, err := s.GetShelf(ctx, ownerID, shelfID)
	if err != nil {
		return err
	}
	if shelf.IsDefault {
		return domainerrors.Forbidden("the default shelf cannot be deleted")
	}

	if err := s.store.DeleteShelf(ctx, ownerID, shelfID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("shelf not found")
		}
		return fmt.Errorf("delete shelf: %w", err)
	}

	s.logger.Info("shelf deleted", "shelf_id", shelfID, "owner_id", ownerID)
	return nil
}

// AddBook places a collection entry on a shelf. Both the shelf and the
// entry must belong to the user.
func (s *ShelfService) AddBook(ctx context.Context, ownerID, shelfID, userBookID string) error {
	if _, err := s.GetShelf(ctx, ownerID, shelfID); err != nil {
		return err
	}
	if _, err := s.store.GetUserBook(ctx, ownerID, userBookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found in collection")
		}
		return fmt.Errorf("get user book: %w", err)
	}

	if err := s.store.AddBookToShelf(ctx, shelfID, userBookID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("book is already on this shelf")
		}
		return fmt.Errorf("add book to shelf: %w", err)
	}

	s.logger.Info("book added to shelf",
		"shelf_id", shelfID,
		"user_book_id", userBookID,
		"owner_id", ownerID,
	)
	return nil
}

// RemoveBook takes a collection entry off a shelf.
func (s *ShelfService) RemoveBook(ctx context.Context, ownerID, shelfID, userBookID string) error {
	if _, err := s.GetShelf(ctx, ownerID, shelfID); err != nil {
		return err
	}

	if err := s.store.RemoveBookFromShelf(ctx, shelfID, userBookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book is not on this shelf")
		}
		return fmt.Errorf("remove book from shelf: %w", err)
	}

	s.logger.Info("book removed from shelf",
		"shelf_id", shelfID,
		"user_book_id", userBookID,
		"owner_id", ownerID,
	)
	return nil
}

// ListBooks returns a shelf's members in the order they were added.
func (s *ShelfService) ListBooks(ctx context.Context, ownerID, shelfID string) ([]*domain.UserBook, error) {
	if _, err := s.GetShelf(ctx, ownerID, shelfID); err != nil {
		return nil, err
	}
	books, err := s.store.ListShelfBooks(ctx, ownerID, shelfID)
	if err != nil {
		return nil, fmt.Errorf("list shelf books: %w", err)
	}
	return books, nil
}

// ListAvailableBooks returns the user's collection entries not yet on the
// shelf, for an "add to shelf" picker.
func (s *ShelfService) ListAvailableBooks(ctx context.Context, ownerID, shelfID string) ([]*domain.UserBook, error) {
	if _, err := s.GetShelf(ctx, ownerID, shelfID); err != nil {
		return nil, err
	}
	books, err := s.store.ListAvailableForShelf(ctx, ownerID, shelfID)
	if err != nil {
		return nil, fmt.Errorf("list available books: %w", err)
	}
	return books, nil
}

// AddToDefaultShelf places a new collection entry on the user's default
// shelf. Used when a book joins the collection.
func (s *ShelfService) AddToDefaultShelf(ctx context.Context, ownerID, userBookID string) error {
	shelf, err := s.store.GetDefaultShelf(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("get default shelf: %w", err)
	}
	if err := s.store.AddBookToShelf(ctx, shelf.ID, userBookID); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("add to default shelf: %w", err)
	}
	return nil
}

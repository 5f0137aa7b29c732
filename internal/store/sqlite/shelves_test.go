package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

func insertTestShelf(t *testing.T, s *Store, id, ownerID, name string, isDefault bool) *domain.Shelf {
	t.Helper()
	now := time.Now()
	shelf := &domain.Shelf{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		IsDefault: isDefault,
	}
	if err := s.CreateShelf(context.Background(), shelf); err != nil {
		t.Fatalf("insert test shelf %s: %v", id, err)
	}
	return shelf
}

func TestCreateShelfDuplicateNameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestShelf(t, s, "shelf-1", "user-1", "Favorites", false)

	now := time.Now()
	err := s.CreateShelf(ctx, &domain.Shelf{
		CreatedAt: now, UpdatedAt: now,
		ID: "shelf-2", OwnerID: "user-1", Name: "  FAVORITES ",
	})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateShelfSameNameDifferentOwners(t *testing.T) {
	s := newTestStore(t)

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestShelf(t, s, "shelf-1", "user-1", "Favorites", false)
	insertTestShelf(t, s, "shelf-2", "user-2", "Favorites", false)
}

func TestGetShelfOwnershipScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestShelf(t, s, "shelf-1", "user-1", "Favorites", false)

	if _, err := s.GetShelf(ctx, "user-1", "shelf-1"); err != nil {
		t.Fatalf("owner GetShelf: %v", err)
	}
	if _, err := s.GetShelf(ctx, "user-2", "shelf-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner, got %v", err)
	}
}

func TestUpdateShelfRenameCollision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestShelf(t, s, "shelf-1", "user-1", "Favorites", false)
	shelf := insertTestShelf(t, s, "shelf-2", "user-1", "To Reread", false)

	shelf.Name = "favorites"
	shelf.UpdatedAt = time.Now()
	if err := s.UpdateShelf(ctx, shelf); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Renaming to a fresh name works.
	shelf.Name = "Reread Pile"
	if err := s.UpdateShelf(ctx, shelf); err != nil {
		t.Fatalf("UpdateShelf: %v", err)
	}
	got, err := s.GetShelf(ctx, "user-1", "shelf-2")
	if err != nil {
		t.Fatalf("GetShelf: %v", err)
	}
	if got.Name != "Reread Pile" {
		t.Errorf("Name: got %q", got.Name)
	}
}

func TestGetDefaultShelf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestShelf(t, s, "shelf-default", "user-1", domain.DefaultShelfName, true)
	insertTestShelf(t, s, "shelf-1", "user-1", "Favorites", false)

	got, err := s.GetDefaultShelf(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetDefaultShelf: %v", err)
	}
	if got.ID != "shelf-default" {
		t.Errorf("ID: got %q", got.ID)
	}

	// Default shelf sorts first in listings.
	shelves, err := s.ListShelves(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListShelves: %v", err)
	}
	if len(shelves) != 2 || !shelves[0].IsDefault {
		t.Errorf("shelves: %+v", shelves)
	}
}

func TestShelfMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "book-1", "vol-1", "One")
	insertTestBook(t, s, "book-2", "vol-2", "Two")
	insertTestUserBook(t, s, "ub-1", "user-1", "book-1")
	insertTestUserBook(t, s, "ub-2", "user-1", "book-2")
	insertTestShelf(t, s, "shelf-1", "user-1", "Favorites", false)

	if err := s.AddBookToShelf(ctx, "shelf-1", "ub-1"); err != nil {
		t.Fatalf("AddBookToShelf: %v", err)
	}

	// Adding again conflicts.
	if err := s.AddBookToShelf(ctx, "shelf-1", "ub-1"); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	members, err := s.ListShelfBooks(ctx, "user-1", "shelf-1")
	if err != nil {
		t.Fatalf("ListShelfBooks: %v", err)
	}
	if len(members) != 1 || members[0].ID != "ub-1" {
		t.Errorf("members: %+v", members)
	}

	// Available list is the complement of membership.
	available, err := s.ListAvailableForShelf(ctx, "user-1", "shelf-1")
	if err != nil {
		t.Fatalf("ListAvailableForShelf: %v", err)
	}
	if len(available) != 1 || available[0].ID != "ub-2" {
		t.Errorf("available: %+v", available)
	}

	// BookCount reflects membership.
	shelf, err := s.GetShelf(ctx, "user-1", "shelf-1")
	if err != nil {
		t.Fatalf("GetShelf: %v", err)
	}
	if shelf.BookCount != 1 {
		t.Errorf("BookCount: got %d, want 1", shelf.BookCount)
	}

	if err := s.RemoveBookFromShelf(ctx, "shelf-1", "ub-1"); err != nil {
		t.Fatalf("RemoveBookFromShelf: %v", err)
	}
	if err := s.RemoveBookFromShelf(ctx, "shelf-1", "ub-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteShelfKeepsUserBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "book-1", "vol-1", "One")
	insertTestUserBook(t, s, "ub-1", "user-1", "book-1")
	insertTestShelf(t, s, "shelf-1", "user-1", "Favorites", false)

	if err := s.AddBookToShelf(ctx, "shelf-1", "ub-1"); err != nil {
		t.Fatalf("AddBookToShelf: %v", err)
	}
	if err := s.DeleteShelf(ctx, "user-1", "shelf-1"); err != nil {
		t.Fatalf("DeleteShelf: %v", err)
	}

	// Membership cascades, the collection entry survives.
	if _, err := s.GetShelf(ctx, "user-1", "shelf-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserBook(ctx, "user-1", "ub-1"); err != nil {
		t.Errorf("user book should survive: %v", err)
	}
}
